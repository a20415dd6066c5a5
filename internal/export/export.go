// Package export turns the current window-grouped tab set into
// documents: a newline URL list for the clipboard, and a zip archive
// holding CSV, XLSX and PDF renderings of the same ordered sequence.
package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lotas/onehandle/internal/applog"
	"github.com/lotas/onehandle/internal/types"
)

// ArchiveName is the fixed filename of the export archive, independent
// of the timestamped entries inside it.
const ArchiveName = "onehandle.zip"

// Flatten serializes window groups into one ordered tab sequence:
// group order first, in-window order second. This is the canonical
// export order; every format writer renders exactly this sequence.
func Flatten(groups []types.WindowGroup) []types.TabRecord {
	var tabs []types.TabRecord
	for _, g := range groups {
		tabs = append(tabs, g.Tabs...)
	}
	return tabs
}

// CopyAllURLs writes the newline-joined URLs of all tabs to the
// clipboard sink. Sink failure is reported as false, never an error —
// the caller shows a transient notice and moves on.
func CopyAllURLs(groups []types.WindowGroup, cb Clipboard) bool {
	tabs := Flatten(groups)
	urls := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		urls = append(urls, tab.URL)
	}
	if err := cb.WriteText(strings.Join(urls, "\n")); err != nil {
		applog.Error("export.clipboard", err)
		return false
	}
	applog.Info("export.clipboard", "urls", len(urls))
	return true
}

// DownloadAllTabs renders the grouped tab set into the three document
// formats, packages them into one archive and hands it to the save
// sink. Unlike everywhere else in this tool, failures propagate: the
// caller is expected to catch and surface them.
func DownloadAllTabs(groups []types.WindowGroup, saver Saver) error {
	blob, err := BuildArchive(Flatten(groups), time.Now())
	if err != nil {
		return err
	}
	if err := saver.Save(ArchiveName, blob); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	return nil
}

// BuildArchive renders tabs into CSV, XLSX and PDF concurrently — the
// writers share nothing but the input sequence — and zips the results
// as three same-basename entries stamped with the filesystem-safe
// timestamp derived from now.
func BuildArchive(tabs []types.TabRecord, now time.Time) ([]byte, error) {
	base := filenameTimestamp(now)

	var (
		wg       sync.WaitGroup
		csvData  []byte
		xlsxData []byte
		pdfData  []byte
		xlsxErr  error
		pdfErr   error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		csvData = CSV(tabs)
	}()
	go func() {
		defer wg.Done()
		xlsxData, xlsxErr = XLSX(tabs)
	}()
	go func() {
		defer wg.Done()
		pdfData, pdfErr = PDF(tabs, displayTimestamp(now))
	}()
	wg.Wait()

	if xlsxErr != nil {
		return nil, fmt.Errorf("write xlsx: %w", xlsxErr)
	}
	if pdfErr != nil {
		return nil, fmt.Errorf("write pdf: %w", pdfErr)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	entries := []struct {
		name string
		data []byte
	}{
		{base + ".csv", csvData},
		{base + ".xlsx", xlsxData},
		{base + ".pdf", pdfData},
	}
	for _, e := range entries {
		w, err := zw.Create(e.name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", e.name, err)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	applog.Info("export.archive", "tabs", len(tabs), "bytes", buf.Len())
	return buf.Bytes(), nil
}

// displayTimestamp renders now for humans: 12-hour clock with AM/PM.
func displayTimestamp(now time.Time) string {
	return now.Format("2006/01/02 03:04:05 PM")
}

// filenameTimestamp renders now in a filesystem-safe form shared by
// all three archive entry names.
func filenameTimestamp(now time.Time) string {
	return now.Format("2006-01-02_15-04-05")
}
