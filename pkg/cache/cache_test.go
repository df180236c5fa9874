package cache

import (
	"path/filepath"
	"testing"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPutGet(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Put(Entry{Kind: KindAuthor, Name: "Jane", RemoteID: 7}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entry, found, err := db.Get(KindAuthor, "Jane")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() found = false, want true")
	}
	if entry.RemoteID != 7 {
		t.Errorf("RemoteID = %d, want 7", entry.RemoteID)
	}
}

func TestGet_Miss(t *testing.T) {
	db := setupTestDB(t)

	_, found, err := db.Get(KindTag, "missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() found = true for absent entry")
	}
}

func TestPut_ReplacesExisting(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Put(Entry{Kind: KindMedia, Name: "hero", RemoteID: 1, SourceURL: "https://a/x.jpg"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := db.Put(Entry{Kind: KindMedia, Name: "hero", RemoteID: 2, SourceURL: "https://a/y.jpg", AltText: "new"}); err != nil {
		t.Fatalf("Put() replace error = %v", err)
	}

	entry, _, err := db.Get(KindMedia, "hero")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.RemoteID != 2 || entry.SourceURL != "https://a/y.jpg" || entry.AltText != "new" {
		t.Errorf("entry = %+v", entry)
	}
}

func TestListAndClear(t *testing.T) {
	db := setupTestDB(t)

	for _, e := range []Entry{
		{Kind: KindTag, Name: "go", RemoteID: 1},
		{Kind: KindAuthor, Name: "Jane", RemoteID: 2},
	} {
		if err := db.Put(e); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	entries, err := db.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Kind != KindAuthor {
		t.Errorf("entries not ordered by kind: %+v", entries)
	}

	n, err := db.Clear()
	if err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() removed %d rows, want 2", n)
	}
}
