// Package store persists per-user bot settings in a local SQLite database.
//
// Each chat user carries two settings: the Ombi server address they target
// and the API token obtained by logging in. Both are written independently
// and read back on every command.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Config holds the store settings
type Config struct {
	// DatabasePath is the SQLite file location. Parent directories are
	// created on open.
	DatabasePath string
}

// DB wraps the SQLite connection and owns schema migration
type DB struct {
	conn *sql.DB
}

// NewDB opens the database file and ensures the schema exists
func NewDB(cfg Config) (*DB, error) {
	if cfg.DatabasePath == "" {
		return nil, errors.New("database path is required")
	}
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", cfg.DatabasePath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// SQLite serializes writers; a single connection avoids lock contention
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			user_id TEXT PRIMARY KEY,
			server  TEXT NOT NULL DEFAULT '',
			token   TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Connection exposes the underlying handle for repositories
func (db *DB) Connection() *sql.DB {
	return db.conn
}

// Close closes the database
func (db *DB) Close() error {
	return db.conn.Close()
}
