// Package tabs normalizes raw source tabs into TabRecords and groups
// them by window.
package tabs

import (
	"context"
	"sort"

	"github.com/lotas/onehandle/internal/applog"
	"github.com/lotas/onehandle/internal/domain"
	"github.com/lotas/onehandle/internal/source"
	"github.com/lotas/onehandle/internal/types"
)

// Placeholder URLs that carry no content and are dropped outright.
var noiseURLs = map[string]bool{
	"chrome://newtab/": true,
	"about:blank":      true,
	"about:newtab":     true,
}

// All returns every open tab across every window, most recently used
// first. A failing source degrades to an empty slice; the error is
// logged but not surfaced, so callers can't tell "no tabs" from "read
// failed". Callers that need the distinction talk to the source
// directly.
func All(ctx context.Context, src source.Source) []types.TabRecord {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		applog.Error("tabs.snapshot", err)
		return []types.TabRecord{}
	}
	return Normalize(snap.Tabs)
}

// GroupedByWindow returns all open tabs partitioned by window. Window
// order follows first encounter in the sorted tab sequence, so the
// window holding the most recently used tab comes first. At most the
// group matching the source's focused window is marked Focused.
func GroupedByWindow(ctx context.Context, src source.Source) []types.WindowGroup {
	snap, err := src.Snapshot(ctx)
	if err != nil {
		applog.Error("tabs.snapshot", err)
		return []types.WindowGroup{}
	}
	return Group(Normalize(snap.Tabs), snap.FocusedWindowID)
}

// Normalize filters noise, applies field defaults and sorts by
// LastAccessed descending. The sort is stable: ties keep the source's
// relative order.
func Normalize(raw []source.RawTab) []types.TabRecord {
	records := make([]types.TabRecord, 0, len(raw))
	for _, rt := range raw {
		if rt.ID == nil || noiseURLs[rt.URL] {
			continue
		}
		title := rt.Title
		if title == "" {
			title = "Untitled"
		}
		favicon := rt.FavIconURL
		if favicon == "" {
			favicon = domain.FaviconFallback(rt.URL)
		}
		records = append(records, types.TabRecord{
			ID:           *rt.ID,
			WindowID:     rt.WindowID,
			Title:        title,
			URL:          rt.URL,
			Domain:       domain.Parse(rt.URL),
			Favicon:      favicon,
			LastAccessed: rt.LastAccessed,
			Pinned:       rt.Pinned,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].LastAccessed > records[j].LastAccessed
	})
	return records
}

// Group partitions an already-sorted tab sequence by window ID. The
// partition is stable, so within-group order stays lastAccessed-
// descending and flattening the groups reproduces the input exactly.
func Group(records []types.TabRecord, focusedWindowID int) []types.WindowGroup {
	index := make(map[int]int) // windowID -> position in groups
	var groups []types.WindowGroup
	for _, rec := range records {
		i, ok := index[rec.WindowID]
		if !ok {
			i = len(groups)
			index[rec.WindowID] = i
			groups = append(groups, types.WindowGroup{
				WindowID: rec.WindowID,
				Focused:  focusedWindowID != 0 && rec.WindowID == focusedWindowID,
			})
		}
		groups[i].Tabs = append(groups[i].Tabs, rec)
	}
	if groups == nil {
		groups = []types.WindowGroup{}
	}
	return groups
}
