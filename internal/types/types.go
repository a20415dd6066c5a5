package types

// TabRecord is a single open browser tab, normalized from whatever the
// tab source reported. Records are rebuilt on every load and never
// persisted; they go stale as soon as the browser's state changes.
type TabRecord struct {
	ID           int
	WindowID     int
	Title        string
	URL          string
	Domain       string // real hostname, "browser", or "unknown"
	Favicon      string
	LastAccessed int64 // unix milliseconds; 0 if the source didn't report it
	Pinned       bool
}

// WindowGroup is the set of tabs belonging to one browser window, in
// lastAccessed-descending order. At most one group per snapshot has
// Focused set; zero if the source can't tell.
type WindowGroup struct {
	WindowID int
	Tabs     []TabRecord
	Focused  bool
}

// FavoriteTab is a persisted favorite. Title, domain and favicon are
// snapshots taken at the moment of favoriting and are never refreshed.
type FavoriteTab struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Favicon string `json:"favicon"`
	Domain  string `json:"domain"`
	AddedAt int64  `json:"addedAt"`
}
