package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS gossip_cache (
	key       TEXT    NOT NULL,
	timestamp INTEGER NOT NULL,
	PRIMARY KEY (key, timestamp)
);
CREATE INDEX IF NOT EXISTS idx_gossip_cache_key ON gossip_cache (key);
`

// SQLite is a durable cache implementation that survives restarts.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite ensures the parent directory exists, opens the database at
// path and creates the schema when missing.
func OpenSQLite(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("cache database path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply cache schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Timestamps(ctx context.Context, key string) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT timestamp FROM gossip_cache WHERE key = ? ORDER BY timestamp", key)
	if err != nil {
		return nil, fmt.Errorf("query cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var timestamps []int64
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps, rows.Err()
}

func (s *SQLite) Record(ctx context.Context, key string, timestamp int64) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO gossip_cache (key, timestamp) VALUES (?, ?)", key, timestamp)
	if err != nil {
		return fmt.Errorf("record cache entry: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
