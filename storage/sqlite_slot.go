package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteSlot keeps slots as rows of a single kv table.
type SQLiteSlot struct {
	db *sql.DB
}

// OpenSQLiteSlot opens (or creates) investors.db in dataDir.
// Pass ":memory:" for an in-memory database (used by tests).
func OpenSQLiteSlot(dataDir string) (*SQLiteSlot, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "investors.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" a single database and avoids "database is locked".
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating kv table: %w", err)
	}

	return &SQLiteSlot{db: db}, nil
}

func (s *SQLiteSlot) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading slot %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteSlot) Set(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing slot %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

// Keys lists every key with its value size, for inspection.
func (s *SQLiteSlot) Keys() (map[string]int, error) {
	rows, err := s.db.Query("SELECT key, length(value) FROM kv ORDER BY key ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]int)
	for rows.Next() {
		var k string
		var size int
		if err := rows.Scan(&k, &size); err != nil {
			return nil, err
		}
		keys[k] = size
	}
	return keys, rows.Err()
}
