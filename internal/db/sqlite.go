// Package db persists fetched availability results and manually added
// titles in a local SQLite database. Caching lives entirely outside the
// fetch layer, which never sees this package.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec(createResultsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create results schema: %w", err)
	}

	if _, err := conn.Exec(createSavedTitlesTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create saved titles schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
