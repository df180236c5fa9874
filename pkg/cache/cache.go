// Package cache stores resolved CMS identities (authors, terms, media)
// in a local SQLite database so repeat runs skip redundant search calls.
// It is a read-through cache only; publish success is tracked by file
// placement, never here.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const DefaultDBName = "draft-publisher.db"

// Identity kinds.
const (
	KindAuthor   = "author"
	KindTag      = "tag"
	KindCategory = "category"
	KindMedia    = "media"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;

CREATE TABLE IF NOT EXISTS identities (
    kind TEXT NOT NULL,
    name TEXT NOT NULL,
    remote_id INTEGER NOT NULL,
    source_url TEXT NOT NULL DEFAULT '',
    alt_text TEXT NOT NULL DEFAULT '',
    resolved_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (kind, name)
);
`

// Entry is one cached resolution. SourceURL and AltText are only set for
// media entries.
type Entry struct {
	Kind       string
	Name       string
	RemoteID   int
	SourceURL  string
	AltText    string
	ResolvedAt time.Time
}

// DB wraps the cache database.
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	db := &DB{DB: sqlDB, path: dbPath}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize cache schema: %w", err)
	}
	return db, nil
}

// OpenDefault opens or creates the cache database next to the binary.
func OpenDefault() (*DB, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}
	return Open(filepath.Join(filepath.Dir(execPath), DefaultDBName))
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Get returns the cached entry for (kind, name), if present.
func (db *DB) Get(kind, name string) (*Entry, bool, error) {
	entry := &Entry{Kind: kind, Name: name}
	err := db.QueryRow(
		"SELECT remote_id, source_url, alt_text, resolved_at FROM identities WHERE kind = ? AND name = ?",
		kind, name,
	).Scan(&entry.RemoteID, &entry.SourceURL, &entry.AltText, &entry.ResolvedAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query identity cache: %w", err)
	}
	return entry, true, nil
}

// Put inserts or replaces one cached resolution.
func (db *DB) Put(entry Entry) error {
	_, err := db.Exec(
		"INSERT OR REPLACE INTO identities (kind, name, remote_id, source_url, alt_text) VALUES (?, ?, ?, ?, ?)",
		entry.Kind, entry.Name, entry.RemoteID, entry.SourceURL, entry.AltText,
	)
	if err != nil {
		return fmt.Errorf("failed to store identity: %w", err)
	}
	return nil
}

// List returns all cached entries ordered by kind then name.
func (db *DB) List() ([]Entry, error) {
	rows, err := db.Query(
		"SELECT kind, name, remote_id, source_url, alt_text, resolved_at FROM identities ORDER BY kind, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list identities: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Kind, &e.Name, &e.RemoteID, &e.SourceURL, &e.AltText, &e.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan identity row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Clear removes every cached resolution.
func (db *DB) Clear() (int64, error) {
	res, err := db.Exec("DELETE FROM identities")
	if err != nil {
		return 0, fmt.Errorf("failed to clear identity cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
