// Package source enumerates open browser tabs. Three implementations
// exist: a WebSocket server fed by the companion extension, a Firefox
// session-file reader, and a Chrome DevTools client. All of them
// produce the same raw snapshot shape; normalization happens in the
// tabs package.
package source

import "context"

// RawTab is a tab as the browser reported it. Every field except
// WindowID is optional and must be defaulted by the aggregator. A nil
// ID marks a tab the browser hasn't fully materialized; such tabs are
// dropped downstream.
type RawTab struct {
	ID           *int   `json:"id,omitempty"`
	WindowID     int    `json:"windowId"`
	Title        string `json:"title,omitempty"`
	URL          string `json:"url,omitempty"`
	FavIconURL   string `json:"favIconUrl,omitempty"`
	LastAccessed int64  `json:"lastAccessed,omitempty"`
	Pinned       bool   `json:"pinned,omitempty"`
}

// Snapshot is one observation of the browser's tab state.
// FocusedWindowID is 0 when the source can't determine focus.
type Snapshot struct {
	Tabs            []RawTab `json:"tabs"`
	FocusedWindowID int      `json:"focusedWindowId,omitempty"`
}

// Source is a tab provider. Snapshot blocks until the current tab set
// is available or ctx is done.
type Source interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}
