package favorites

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func testStore() *Store {
	s := NewStore(NewMemoryBackend())
	// Deterministic, strictly increasing clock.
	var tick int64
	s.now = func() int64 {
		tick++
		return tick
	}
	return s
}

func TestAddAndList(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	s.Add(ctx, Candidate{URL: "https://a.com", Title: "A", Domain: "a.com"})
	s.Add(ctx, Candidate{URL: "https://b.com", Title: "B", Domain: "b.com"})

	favs := s.List(ctx)
	if len(favs) != 2 {
		t.Fatalf("expected 2 favorites, got %d", len(favs))
	}
	// Newest first.
	if favs[0].URL != "https://b.com" || favs[1].URL != "https://a.com" {
		t.Errorf("wrong order: %+v", favs)
	}
	if favs[0].AddedAt == 0 {
		t.Error("AddedAt not set")
	}
}

func TestAddDeduplicatesByURL(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	s.Add(ctx, Candidate{URL: "https://u1.com", Title: "first"})
	s.Add(ctx, Candidate{URL: "https://u2.com", Title: "second"})
	before := s.List(ctx)

	after := s.Add(ctx, Candidate{URL: "https://u1.com", Title: "changed"})

	if !reflect.DeepEqual(after, before) {
		t.Errorf("duplicate add changed the collection:\nbefore: %+v\nafter:  %+v", before, after)
	}
	count := 0
	for _, f := range after {
		if f.URL == "https://u1.com" {
			count++
			if f.Title != "first" {
				t.Errorf("duplicate add replaced the snapshot: %+v", f)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one u1 entry, got %d", count)
	}
}

func TestAddReturnsCollection(t *testing.T) {
	s := testStore()
	got := s.Add(context.Background(), Candidate{URL: "https://a.com", Title: "A"})
	if len(got) != 1 || got[0].URL != "https://a.com" {
		t.Errorf("Add should return the updated collection, got %+v", got)
	}
}

func TestRemoveRoundTrip(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	s.Add(ctx, Candidate{URL: "https://keep.com", Title: "Keep"})
	before := s.List(ctx)

	s.Add(ctx, Candidate{URL: "https://a.com", Title: "A", Domain: "a.com"})
	after := s.Remove(ctx, "https://a.com")

	if !reflect.DeepEqual(after, before) {
		t.Errorf("add+remove should restore the collection:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestRemoveMissingURLIsNoop(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	s.Add(ctx, Candidate{URL: "https://a.com"})
	got := s.Remove(ctx, "https://never-added.com")
	if len(got) != 1 {
		t.Errorf("expected collection unchanged, got %+v", got)
	}
}

func TestIsFavorite(t *testing.T) {
	s := testStore()
	ctx := context.Background()

	s.Add(ctx, Candidate{URL: "https://a.com"})
	if !s.IsFavorite(ctx, "https://a.com") {
		t.Error("expected https://a.com to be a favorite")
	}
	if s.IsFavorite(ctx, "https://a.com/") {
		t.Error("trailing slash is a distinct URL, must not match")
	}
	if s.IsFavorite(ctx, "https://b.com") {
		t.Error("unexpected favorite")
	}
}

// failingBackend errors on every call.
type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store unavailable")
}

func (failingBackend) Set(context.Context, string, []byte) error {
	return errors.New("store unavailable")
}

func TestReadFailureDegradesToEmpty(t *testing.T) {
	s := NewStore(failingBackend{})
	ctx := context.Background()

	if got := s.List(ctx); len(got) != 0 || got == nil {
		t.Errorf("expected non-nil empty collection, got %#v", got)
	}
	if s.IsFavorite(ctx, "https://a.com") {
		t.Error("IsFavorite should be false when the store is unavailable")
	}
	// Add still returns the in-memory result; the write failure is
	// swallowed and logged.
	if got := s.Add(ctx, Candidate{URL: "https://a.com"}); len(got) != 1 {
		t.Errorf("expected 1-element collection, got %+v", got)
	}
}

func TestCorruptPayloadDegradesToEmpty(t *testing.T) {
	backend := NewMemoryBackend()
	backend.Set(context.Background(), Key, []byte("{not json"))

	s := NewStore(backend)
	if got := s.List(context.Background()); len(got) != 0 {
		t.Errorf("expected empty collection for corrupt payload, got %+v", got)
	}
}
