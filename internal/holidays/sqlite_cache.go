package holidays

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS day_types (
	country    TEXT    NOT NULL,
	year       INTEGER NOT NULL,
	month      INTEGER NOT NULL,
	codes      TEXT    NOT NULL,
	fetched_at INTEGER NOT NULL,
	ok         INTEGER NOT NULL,
	PRIMARY KEY (country, year, month)
)`

// SQLiteCache persists DayTypes responses between runs
type SQLiteCache struct {
	db *sql.DB
}

// OpenSQLiteCache opens (creating if needed) the cache database at path.
// Use ":memory:" for a throwaway database.
func OpenSQLiteCache(ctx context.Context, path string) (*SQLiteCache, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Close closes the database
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Get returns the entry for the key, successful or not
func (c *SQLiteCache) Get(ctx context.Context, country string, year, month int) (Entry, bool, error) {
	e := Entry{Country: country, Year: year, Month: month}

	var fetchedAt int64
	var ok int
	err := c.db.QueryRowContext(ctx,
		`SELECT codes, fetched_at, ok FROM day_types WHERE country = ? AND year = ? AND month = ?`,
		country, year, month,
	).Scan(&e.Codes, &fetchedAt, &ok)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("failed to read cache entry: %w", err)
	}

	e.FetchedAt = time.Unix(fetchedAt, 0).UTC()
	e.OK = ok != 0
	return e, true, nil
}

// Put records e. A successful entry is never replaced by a failed one.
func (c *SQLiteCache) Put(ctx context.Context, e Entry) error {
	ok := 0
	if e.OK {
		ok = 1
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO day_types (country, year, month, codes, fetched_at, ok)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (country, year, month) DO UPDATE SET
			codes = excluded.codes,
			fetched_at = excluded.fetched_at,
			ok = excluded.ok
		WHERE day_types.ok = 0 OR excluded.ok = 1`,
		e.Country, e.Year, e.Month, e.Codes, e.FetchedAt.Unix(), ok,
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}
