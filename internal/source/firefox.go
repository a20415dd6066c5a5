package source

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pierrec/lz4/v4"
)

// FirefoxSource reads tabs from a Firefox profile's session recovery
// file. Window IDs are 1-based window indexes within the session;
// focus cannot be determined from the file, so it is never reported.
type FirefoxSource struct {
	ProfileDir string
}

// NewFirefoxSource creates a source for the given profile directory.
// An empty dir means the default profile is discovered at read time.
func NewFirefoxSource(profileDir string) *FirefoxSource {
	return &FirefoxSource{ProfileDir: profileDir}
}

// Snapshot reads and parses the session file.
func (s *FirefoxSource) Snapshot(_ context.Context) (*Snapshot, error) {
	dir := s.ProfileDir
	if dir == "" {
		var err error
		dir, err = DefaultProfileDir()
		if err != nil {
			return nil, err
		}
	}

	backupDir := filepath.Join(dir, "sessionstore-backups")
	var data []byte
	var err error
	for _, name := range []string{"recovery.jsonlz4", "previous.jsonlz4"} {
		data, err = os.ReadFile(filepath.Join(backupDir, name))
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("no session file found in %s", backupDir)
	}

	decompressed, err := DecompressMozLz4(data)
	if err != nil {
		return nil, fmt.Errorf("decompress session file: %w", err)
	}

	return parseSession(decompressed)
}

// mozlz4 header: 8-byte magic "mozLz40\x00"
var mozLz4Magic = []byte("mozLz40\x00")

// DecompressMozLz4 decompresses data in Mozilla's mozlz4 format:
// 8-byte magic + 4-byte LE uint32 uncompressed size + lz4 block data.
func DecompressMozLz4(data []byte) ([]byte, error) {
	const headerSize = 12 // 8 magic + 4 size

	if len(data) < headerSize {
		return nil, fmt.Errorf("mozlz4: data too short (%d bytes)", len(data))
	}
	for i := 0; i < len(mozLz4Magic); i++ {
		if data[i] != mozLz4Magic[i] {
			return nil, fmt.Errorf("mozlz4: invalid header magic")
		}
	}

	uncompressedSize := binary.LittleEndian.Uint32(data[8:12])

	dst := make([]byte, uncompressedSize)
	n, err := lz4.UncompressBlock(data[headerSize:], dst)
	if err != nil {
		return nil, fmt.Errorf("mozlz4: decompress failed: %w", err)
	}
	return dst[:n], nil
}

// Raw JSON types for session file parsing.
type rawEntry struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type rawSessionTab struct {
	Entries      []rawEntry `json:"entries"`
	Index        int        `json:"index"`
	LastAccessed int64      `json:"lastAccessed"`
	Image        string     `json:"image"`
	Pinned       bool       `json:"pinned"`
}

type rawWindow struct {
	Tabs []rawSessionTab `json:"tabs"`
}

type rawSession struct {
	Windows []rawWindow `json:"windows"`
}

// parseSession converts session JSON into a Snapshot. The session file
// has no tab IDs, so sequential ones are assigned.
func parseSession(data []byte) (*Snapshot, error) {
	var raw rawSession
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse session JSON: %w", err)
	}

	snap := &Snapshot{}
	nextID := 1
	for winIdx, window := range raw.Windows {
		for _, rt := range window.Tabs {
			if len(rt.Entries) == 0 {
				continue
			}

			// index is 1-based; current page is entries[index-1].
			entryIdx := rt.Index - 1
			if entryIdx < 0 || entryIdx >= len(rt.Entries) {
				entryIdx = len(rt.Entries) - 1
			}
			entry := rt.Entries[entryIdx]

			id := nextID
			nextID++
			snap.Tabs = append(snap.Tabs, RawTab{
				ID:           &id,
				WindowID:     winIdx + 1,
				Title:        entry.Title,
				URL:          entry.URL,
				FavIconURL:   rt.Image,
				LastAccessed: rt.LastAccessed,
				Pinned:       rt.Pinned,
			})
		}
	}

	return snap, nil
}

// firefoxDir returns the platform-specific Firefox directory.
func firefoxDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch runtime.GOOS {
	case "linux":
		return filepath.Join(home, ".mozilla", "firefox")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Firefox")
	default:
		return ""
	}
}

// DefaultProfileDir locates the first usable profile listed in
// profiles.ini, preferring the one marked Default.
func DefaultProfileDir() (string, error) {
	dir := firefoxDir()
	if dir == "" {
		return "", fmt.Errorf("could not find Firefox directory for %s", runtime.GOOS)
	}
	profiles, err := parseProfilesINI(filepath.Join(dir, "profiles.ini"), dir)
	if err != nil {
		return "", err
	}
	if len(profiles) == 0 {
		return "", fmt.Errorf("no Firefox profiles with a session file in %s", dir)
	}
	for _, p := range profiles {
		if p.isDefault {
			return p.path, nil
		}
	}
	return profiles[0].path, nil
}

type profile struct {
	path       string
	isDefault  bool
	isRelative bool
}

func parseProfilesINI(iniPath, firefoxDir string) ([]profile, error) {
	f, err := os.Open(iniPath)
	if err != nil {
		return nil, fmt.Errorf("open profiles.ini: %w", err)
	}
	defer f.Close()

	var profiles []profile
	var current *profile

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if current != nil {
				profiles = append(profiles, *current)
				current = nil
			}
			if strings.HasPrefix(line[1:len(line)-1], "Profile") {
				current = &profile{}
			}
			continue
		}
		if current == nil {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "Path":
			current.path = parts[1]
		case "IsRelative":
			current.isRelative = parts[1] == "1"
		case "Default":
			current.isDefault = parts[1] == "1"
		}
	}
	if current != nil {
		profiles = append(profiles, *current)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan profiles.ini: %w", err)
	}

	for i := range profiles {
		if profiles[i].isRelative {
			profiles[i].path = filepath.Join(firefoxDir, profiles[i].path)
		}
	}

	// Keep only profiles that actually have a session file.
	var usable []profile
	for _, p := range profiles {
		backupDir := filepath.Join(p.path, "sessionstore-backups")
		for _, name := range []string{"recovery.jsonlz4", "previous.jsonlz4"} {
			if _, err := os.Stat(filepath.Join(backupDir, name)); err == nil {
				usable = append(usable, p)
				break
			}
		}
	}
	return usable, nil
}
