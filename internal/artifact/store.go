// Package artifact is the persisted hand-off point between pipeline stages.
// A stage publishes a named blob; a later, independently invoked stage reads
// the latest value back. The store is a best-effort cache, never a source of
// truth: a missing or corrupt entry degrades convenience only.
package artifact

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Names of the artifacts the pipeline exchanges.
const (
	LatestDiscovery = "latest_discovery"
	LatestExport    = "latest_export"
)

// Store is a SQLite-backed named-blob cache plus a small configuration KV.
type Store struct {
	db *sql.DB
}

// Open creates (if needed) and opens the cache database at dbPath.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS artifacts (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS configuration (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Publish serializes value and replaces whatever is stored under name.
// The row is written as a whole, so readers never observe a partial value.
func (s *Store) Publish(name string, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal artifact %s: %w", name, err)
	}

	query := `INSERT INTO artifacts (name, value, updated_at) VALUES (?, ?, ?)
	          ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.Exec(query, name, string(blob), time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("store artifact %s: %w", name, err)
	}
	return nil
}

// FetchLatest reads the newest value under name into dest. A missing entry
// and a corrupt (non-JSON-decodable) entry both report absence, not an
// error; callers treat absence as "no prior artifact".
func (s *Store) FetchLatest(name string, dest any) (bool, error) {
	var blob string
	err := s.db.QueryRow(`SELECT value FROM artifacts WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read artifact %s: %w", name, err)
	}

	if err := json.Unmarshal([]byte(blob), dest); err != nil {
		return false, nil
	}
	return true, nil
}

// Timestamp reports when name was last published.
func (s *Store) Timestamp(name string) (time.Time, bool) {
	var raw string
	err := s.db.QueryRow(`SELECT updated_at FROM artifacts WHERE name = ?`, name).Scan(&raw)
	if err != nil {
		return time.Time{}, false
	}
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// SetConfig stores a configuration value, overwriting any prior one.
func (s *Store) SetConfig(key, value string) error {
	query := `INSERT INTO configuration (key, value) VALUES (?, ?)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err := s.db.Exec(query, key, value)
	return err
}

// GetConfig reads a configuration value; unknown keys yield "".
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM configuration WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
