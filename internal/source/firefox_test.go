package source

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pierrec/lz4/v4"
)

// mozlz4 wraps data in Mozilla's mozlz4 framing for tests.
func mozlz4(t *testing.T, original []byte) []byte {
	t.Helper()

	dst := make([]byte, lz4.CompressBlockBound(len(original)))
	n, err := lz4.CompressBlock(original, dst, nil)
	if err != nil {
		t.Fatalf("lz4.CompressBlock failed: %v", err)
	}
	compressed := dst[:n]

	sizeBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(sizeBytes, uint32(len(original)))

	payload := make([]byte, 0, len(mozLz4Magic)+len(sizeBytes)+len(compressed))
	payload = append(payload, mozLz4Magic...)
	payload = append(payload, sizeBytes...)
	payload = append(payload, compressed...)
	return payload
}

func TestDecompressMozLz4(t *testing.T) {
	t.Run("valid mozlz4 payload", func(t *testing.T) {
		original := []byte(`{"windows":[{"tabs":[]},{"tabs":[]},{"tabs":[]}]}`)
		result, err := DecompressMozLz4(mozlz4(t, original))
		if err != nil {
			t.Fatalf("DecompressMozLz4 returned error: %v", err)
		}
		if string(result) != string(original) {
			t.Errorf("expected %q, got %q", string(original), string(result))
		}
	})

	t.Run("invalid header returns error", func(t *testing.T) {
		bad := []byte("BADMAGIC\x00\x00\x00\x00some data here")
		_, err := DecompressMozLz4(bad)
		if err == nil {
			t.Fatal("expected error for invalid header, got nil")
		}
	})

	t.Run("too short data returns error", func(t *testing.T) {
		short := []byte("mozLz40")
		_, err := DecompressMozLz4(short)
		if err == nil {
			t.Fatal("expected error for too-short data, got nil")
		}
	})
}

func TestParseSession(t *testing.T) {
	// Two windows. The first has a pinned tab and a tab with history
	// where the current page is entries[1]; the second has one plain
	// tab plus a not-yet-restored tab with no entries.
	session := map[string]interface{}{
		"windows": []map[string]interface{}{
			{
				"tabs": []map[string]interface{}{
					{
						"entries": []map[string]interface{}{
							{"url": "https://example.com", "title": "Example"},
						},
						"index":        1,
						"lastAccessed": 1707654321000,
						"image":        "https://example.com/favicon.ico",
						"pinned":       true,
					},
					{
						"entries": []map[string]interface{}{
							{"url": "https://old.com", "title": "Old Page"},
							{"url": "https://current.com", "title": "Current Page"},
						},
						"index":        2,
						"lastAccessed": 1707654999000,
						"image":        "",
					},
				},
			},
			{
				"tabs": []map[string]interface{}{
					{
						"entries": []map[string]interface{}{},
					},
					{
						"entries": []map[string]interface{}{
							{"url": "https://other.org", "title": "Other"},
						},
						// Out-of-range index falls back to the last entry.
						"index": 9,
					},
				},
			},
		},
	}

	data, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	snap, err := parseSession(data)
	if err != nil {
		t.Fatalf("parseSession returned error: %v", err)
	}

	if len(snap.Tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %d", len(snap.Tabs))
	}
	if snap.FocusedWindowID != 0 {
		t.Errorf("session files carry no focus info, got FocusedWindowID=%d", snap.FocusedWindowID)
	}

	tab0 := snap.Tabs[0]
	if tab0.ID == nil || *tab0.ID != 1 {
		t.Errorf("tab0 ID: expected 1, got %v", tab0.ID)
	}
	if tab0.WindowID != 1 {
		t.Errorf("tab0 WindowID: expected 1, got %d", tab0.WindowID)
	}
	if tab0.URL != "https://example.com" {
		t.Errorf("tab0 URL: expected 'https://example.com', got %q", tab0.URL)
	}
	if tab0.Title != "Example" {
		t.Errorf("tab0 Title: expected 'Example', got %q", tab0.Title)
	}
	if tab0.FavIconURL != "https://example.com/favicon.ico" {
		t.Errorf("tab0 FavIconURL: expected session image, got %q", tab0.FavIconURL)
	}
	if tab0.LastAccessed != 1707654321000 {
		t.Errorf("tab0 LastAccessed: expected 1707654321000, got %d", tab0.LastAccessed)
	}
	if !tab0.Pinned {
		t.Error("tab0 should be pinned")
	}

	// index=2 means entries[1] is the current page.
	tab1 := snap.Tabs[1]
	if tab1.URL != "https://current.com" {
		t.Errorf("tab1 URL: expected 'https://current.com', got %q", tab1.URL)
	}
	if tab1.Title != "Current Page" {
		t.Errorf("tab1 Title: expected 'Current Page', got %q", tab1.Title)
	}
	if tab1.ID == nil || *tab1.ID != 2 {
		t.Errorf("tab1 ID: expected 2, got %v", tab1.ID)
	}

	// The empty-entries tab is skipped, so the second window's real tab
	// gets ID 3.
	tab2 := snap.Tabs[2]
	if tab2.WindowID != 2 {
		t.Errorf("tab2 WindowID: expected 2, got %d", tab2.WindowID)
	}
	if tab2.URL != "https://other.org" {
		t.Errorf("tab2 URL: expected 'https://other.org', got %q", tab2.URL)
	}
	if tab2.ID == nil || *tab2.ID != 3 {
		t.Errorf("tab2 ID: expected 3, got %v", tab2.ID)
	}
}

func TestFirefoxSnapshotReadsRecoveryFile(t *testing.T) {
	profileDir := t.TempDir()
	backupDir := filepath.Join(profileDir, "sessionstore-backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	sessionJSON := []byte(`{"windows":[{"tabs":[{"entries":[{"url":"https://example.com/page","title":"A Page"}],"index":1,"lastAccessed":1700000000000}]}]}`)
	path := filepath.Join(backupDir, "recovery.jsonlz4")
	if err := os.WriteFile(path, mozlz4(t, sessionJSON), 0644); err != nil {
		t.Fatalf("write session file failed: %v", err)
	}

	src := NewFirefoxSource(profileDir)
	snap, err := src.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot returned error: %v", err)
	}
	if len(snap.Tabs) != 1 {
		t.Fatalf("expected 1 tab, got %d", len(snap.Tabs))
	}
	if snap.Tabs[0].URL != "https://example.com/page" {
		t.Errorf("expected 'https://example.com/page', got %q", snap.Tabs[0].URL)
	}
}

func TestFirefoxSnapshotMissingSessionFile(t *testing.T) {
	src := NewFirefoxSource(t.TempDir())
	_, err := src.Snapshot(context.Background())
	if err == nil {
		t.Fatal("expected error for profile without session files, got nil")
	}
}

func TestParseProfilesINI(t *testing.T) {
	dir := t.TempDir()
	absProfileDir := t.TempDir()
	iniContent := `[General]
StartWithLastProfile=1
Version=2

[Profile0]
Name=default-release
IsRelative=1
Path=abc123.default-release
Default=1

[Profile1]
Name=dev-edition
IsRelative=0
Path=` + absProfileDir + `

[Profile2]
Name=stale
IsRelative=1
Path=no-session-here

[Install308046B0AF4A39CB]
Default=abc123.default-release
Locked=1
`
	iniPath := filepath.Join(dir, "profiles.ini")
	os.WriteFile(iniPath, []byte(iniContent), 0644)

	// Only profiles with a session recovery file pass the filter.
	os.MkdirAll(filepath.Join(dir, "abc123.default-release", "sessionstore-backups"), 0755)
	os.WriteFile(filepath.Join(dir, "abc123.default-release", "sessionstore-backups", "recovery.jsonlz4"), []byte("dummy"), 0644)
	os.MkdirAll(filepath.Join(absProfileDir, "sessionstore-backups"), 0755)
	os.WriteFile(filepath.Join(absProfileDir, "sessionstore-backups", "previous.jsonlz4"), []byte("dummy"), 0644)
	os.MkdirAll(filepath.Join(dir, "no-session-here"), 0755)

	profiles, err := parseProfilesINI(iniPath, dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 usable profiles, got %d", len(profiles))
	}

	if profiles[0].path != filepath.Join(dir, "abc123.default-release") {
		t.Errorf("expected resolved relative path, got %q", profiles[0].path)
	}
	if !profiles[0].isDefault {
		t.Error("expected profile 0 to be default")
	}

	if profiles[1].path != absProfileDir {
		t.Errorf("expected absolute path %q, got %q", absProfileDir, profiles[1].path)
	}
	if profiles[1].isDefault {
		t.Error("expected profile 1 to not be default")
	}
}
