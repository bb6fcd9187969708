package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pferrot/grevos/pkg/domain/interfaces"

	_ "modernc.org/sqlite" // Pure Go SQLite driver.
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	cache_key  TEXT    PRIMARY KEY,
	payload    BLOB    NOT NULL,
	updated_at TEXT    NOT NULL
);`

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore keeps every entry in one SQLite database at dbPath
func NewSQLiteStore(dbPath string) (interfaces.CacheStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open cache database", goerr.V("path", dbPath))
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to create cache schema", goerr.V("path", dbPath))
	}

	return &sqliteStore{db: db}, nil
}

// Get reads the payload of key
func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM cache_entries WHERE cache_key = ?`, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to query cache entry", goerr.V("key", key))
	}
	return payload, true, nil
}

// Put upserts the payload of key
func (s *sqliteStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (cache_key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to store cache entry", goerr.V("key", key))
	}
	return nil
}

// Close closes the database
func (s *sqliteStore) Close() error {
	return s.db.Close()
}
