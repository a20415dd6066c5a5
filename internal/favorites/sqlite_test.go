package favorites

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func testSQLite(t *testing.T) (*SQLiteBackend, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	b, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite(%q): %v", path, err)
	}
	t.Cleanup(func() { b.Close() })
	return b, path
}

func TestSQLiteCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "onehandle.db")
	b, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer b.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestSQLiteGetMissingKey(t *testing.T) {
	b, _ := testSQLite(t)

	_, ok, err := b.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing key")
	}
}

func TestSQLiteSetGetOverwrite(t *testing.T) {
	b, _ := testSQLite(t)
	ctx := context.Background()

	if err := b.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := b.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != "v1" {
		t.Errorf("got %q, want v1", got)
	}

	if err := b.Set(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, _, _ = b.Get(ctx, "k")
	if string(got) != "v2" {
		t.Errorf("after overwrite got %q, want v2", got)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	b, path := testSQLite(t)
	ctx := context.Background()

	if err := b.Set(ctx, Key, []byte(`[{"url":"https://a.com"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	b.Close()

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, Key)
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != `[{"url":"https://a.com"}]` {
		t.Errorf("got %q", got)
	}
}

func TestSQLiteStoreEndToEnd(t *testing.T) {
	b, _ := testSQLite(t)
	s := NewStore(b)
	ctx := context.Background()

	s.Add(ctx, Candidate{URL: "https://a.com", Title: "A", Domain: "a.com"})
	s.Add(ctx, Candidate{URL: "https://b.com", Title: "B", Domain: "b.com"})

	favs := s.List(ctx)
	if len(favs) != 2 || favs[0].URL != "https://b.com" {
		t.Errorf("unexpected collection: %+v", favs)
	}
}
