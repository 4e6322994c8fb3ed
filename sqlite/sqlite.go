// Package sqlite stores projects and their search indexes in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time; a single connection also keeps :memory: databases alive.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL is unavailable for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Index rows are removed through ON DELETE CASCADE.
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, opts)
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// isUniqueViolation reports whether err was caused by a UNIQUE constraint.
func isUniqueViolation(err error) bool {
	return errors.Is(err, sqlite3.CONSTRAINT_UNIQUE)
}

// createSchema creates the database tables if they don't exist.
//
// Every index table hangs off indexes(project_id), so replacing or deleting
// an index is a single DELETE on that table.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			source_url TEXT NOT NULL,
			index_url TEXT NOT NULL DEFAULT '',
			base_url TEXT NOT NULL DEFAULT '',
			file_suffix TEXT NOT NULL DEFAULT '',
			index_hash TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS indexes (
			project_id TEXT PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
			layout INTEGER NOT NULL DEFAULT 0,
			term_filter BLOB NOT NULL,
			imported_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			project_id TEXT NOT NULL REFERENCES indexes(project_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			docname TEXT NOT NULL,
			filename TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (project_id, position)
		);

		CREATE TABLE IF NOT EXISTS terms (
			project_id TEXT NOT NULL REFERENCES indexes(project_id) ON DELETE CASCADE,
			in_title INTEGER NOT NULL,
			term TEXT NOT NULL,
			seq INTEGER NOT NULL,
			doc INTEGER NOT NULL,
			PRIMARY KEY (project_id, in_title, term, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_terms_lookup ON terms(project_id, term);

		CREATE TABLE IF NOT EXISTS objtypes (
			project_id TEXT NOT NULL REFERENCES indexes(project_id) ON DELETE CASCADE,
			type_index INTEGER NOT NULL,
			domain TEXT NOT NULL,
			name TEXT NOT NULL,
			label TEXT NOT NULL,
			role TEXT NOT NULL,
			PRIMARY KEY (project_id, type_index)
		);

		CREATE TABLE IF NOT EXISTS objects (
			project_id TEXT NOT NULL REFERENCES indexes(project_id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			prefix TEXT NOT NULL,
			name TEXT NOT NULL,
			doc INTEGER NOT NULL,
			type INTEGER NOT NULL,
			prio INTEGER NOT NULL,
			anchor TEXT NOT NULL,
			PRIMARY KEY (project_id, seq)
		);

		CREATE TABLE IF NOT EXISTS titles (
			project_id TEXT NOT NULL REFERENCES indexes(project_id) ON DELETE CASCADE,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			seq INTEGER NOT NULL,
			doc INTEGER NOT NULL,
			anchor TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (project_id, kind, title, seq)
		);

		CREATE TABLE IF NOT EXISTS envversion (
			project_id TEXT NOT NULL REFERENCES indexes(project_id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			PRIMARY KEY (project_id, name)
		);
	`

	_, err := db.db.Exec(schema)
	return err
}
