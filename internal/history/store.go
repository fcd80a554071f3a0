// Package history records dedup runs in DuckDB so past runs can be listed
// and queried with SQL.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding the run history.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for an in-memory store.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS dedup_runs (
		id VARCHAR PRIMARY KEY,
		started_at TIMESTAMP,
		input VARCHAR,
		input_size BIGINT,
		input_mtime TIMESTAMP,
		output VARCHAR,
		format VARCHAR,
		hasher VARCHAR,
		key VARCHAR,
		records_read BIGINT,
		records_written BIGINT,
		records_removed BIGINT,
		duration_ms BIGINT,
		status VARCHAR,
		error VARCHAR
	)`)
	return err
}
