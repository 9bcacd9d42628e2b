package ioauthority

import (
	"database/sql"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is an on-disk store of raw authority responses keyed by
// (authority, query URL). Re-running a conversion then hits the external
// services only for queries it has not seen. A nil *Cache disables
// caching.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (and if needed creates) the cache database.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, CacheError(path, err)
	}

	q := `
CREATE TABLE IF NOT EXISTS responses (
	authority TEXT NOT NULL,
	query     TEXT NOT NULL,
	body      BLOB NOT NULL,
	created   TEXT NOT NULL,
	PRIMARY KEY (authority, query)
)`
	if _, err = db.Exec(q); err != nil {
		db.Close()
		return nil, CacheError(path, err)
	}

	return &Cache{db: db}, nil
}

// Get returns a cached response body, if any.
func (c *Cache) Get(authority, query string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	var body []byte
	q := `SELECT body FROM responses WHERE authority = ? AND query = ?`
	err := c.db.QueryRow(q, authority, query).Scan(&body)
	if err != nil {
		if err != sql.ErrNoRows {
			slog.Warn("Cache read failed", "error", err, "query", query)
		}
		return nil, false
	}
	return body, true
}

// Put stores a response body. Failures are logged, not returned: the
// cache degrades, the pipeline continues.
func (c *Cache) Put(authority, query string, body []byte) {
	if c == nil {
		return
	}
	q := `
INSERT INTO responses (authority, query, body, created)
VALUES (?, ?, ?, ?)
ON CONFLICT (authority, query) DO UPDATE SET
	body = excluded.body, created = excluded.created`
	_, err := c.db.Exec(q, authority, query, body,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		slog.Warn("Cache write failed", "error", err, "query", query)
	}
}

// Close closes the cache database.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}
