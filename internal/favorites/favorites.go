// Package favorites persists the user's pinned tabs as a single
// ordered, URL-deduplicated collection under one storage key.
package favorites

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lotas/onehandle/internal/applog"
	"github.com/lotas/onehandle/internal/types"
)

// Key is the single storage key the whole collection lives under.
const Key = "onehandle_favorites"

// Backend is a minimal key-value persistence contract. Get reports
// whether the key existed; Set overwrites the whole value.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Candidate is the tab metadata captured when favoriting.
type Candidate struct {
	URL     string
	Title   string
	Favicon string
	Domain  string
}

// Store is CRUD over the favorites collection. Every mutation is a
// full read-modify-write of the collection, serialized by a mutex so
// overlapping callers can't lose updates.
type Store struct {
	mu      sync.Mutex
	backend Backend
	now     func() int64
}

// NewStore creates a store over the given backend.
func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		now:     func() int64 { return time.Now().UnixMilli() },
	}
}

// List returns the persisted collection, newest-first. Read failures
// are logged and degrade to an empty collection; they never surface.
func (s *Store) List(ctx context.Context) []types.FavoriteTab {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(ctx)
}

// Add prepends a new favorite captured from the candidate and persists
// the collection. Adding a URL that is already present is an idempotent
// no-op, not an error. The resulting collection is returned so callers
// can resynchronize without a second read.
func (s *Store) Add(ctx context.Context, c Candidate) []types.FavoriteTab {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := s.read(ctx)
	for _, f := range favorites {
		if f.URL == c.URL {
			return favorites
		}
	}

	updated := append([]types.FavoriteTab{{
		URL:     c.URL,
		Title:   c.Title,
		Favicon: c.Favicon,
		Domain:  c.Domain,
		AddedAt: s.now(),
	}}, favorites...)

	s.write(ctx, updated)
	return updated
}

// Remove filters out the favorite with the given URL (zero or one
// entries — URLs are unique), persists and returns the result.
func (s *Store) Remove(ctx context.Context, url string) []types.FavoriteTab {
	s.mu.Lock()
	defer s.mu.Unlock()

	favorites := s.read(ctx)
	updated := make([]types.FavoriteTab, 0, len(favorites))
	for _, f := range favorites {
		if f.URL != url {
			updated = append(updated, f)
		}
	}

	s.write(ctx, updated)
	return updated
}

// IsFavorite reports whether the URL is in the collection. Linear scan;
// favorites are counted in tens, not thousands.
func (s *Store) IsFavorite(ctx context.Context, url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.read(ctx) {
		if f.URL == url {
			return true
		}
	}
	return false
}

// read loads and decodes the collection. Callers hold s.mu.
func (s *Store) read(ctx context.Context) []types.FavoriteTab {
	data, ok, err := s.backend.Get(ctx, Key)
	if err != nil {
		applog.Error("favorites.read", err)
		return []types.FavoriteTab{}
	}
	if !ok {
		return []types.FavoriteTab{}
	}
	var favorites []types.FavoriteTab
	if err := json.Unmarshal(data, &favorites); err != nil {
		applog.Error("favorites.decode", err)
		return []types.FavoriteTab{}
	}
	if favorites == nil {
		favorites = []types.FavoriteTab{}
	}
	return favorites
}

// write encodes and persists the full collection. Callers hold s.mu.
func (s *Store) write(ctx context.Context, favorites []types.FavoriteTab) {
	data, err := json.Marshal(favorites)
	if err != nil {
		applog.Error("favorites.encode", err)
		return
	}
	if err := s.backend.Set(ctx, Key, data); err != nil {
		applog.Error("favorites.write", err)
	}
}
