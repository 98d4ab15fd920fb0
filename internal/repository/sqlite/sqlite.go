// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of the SQLite C code. No CGo and no C compiler needed; it
// cross-compiles like any other Go package. The recipes table is small and lives in a
// single file next to the binary, which is exactly what SQLite is good at.
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB: a connection pool (NOT a single connection!)
//   - sql.Tx: a transaction
//   - sql.Row: a single result row
//   - sql.Rows: multiple result rows (must be closed!)
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql as a side effect.
	_ "modernc.org/sqlite"
)

// recipesTableDDL is shared by migrate (create-if-absent) and Reset (drop + create).
// Column widths mirror the public contract; SQLite does not enforce VARCHAR lengths.
const recipesTableDDL = `
	CREATE TABLE IF NOT EXISTS recipes (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       VARCHAR(100) NOT NULL,
		making_time VARCHAR(100) NOT NULL,
		serves      VARCHAR(100) NOT NULL,
		ingredients VARCHAR(300) NOT NULL,
		cost        INTEGER NOT NULL,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

// DB wraps a sql.DB connection pool and implements repository.RecipeRepository.
type DB struct {
	conn *sql.DB
}

// New opens the SQLite database at dbPath and makes sure the recipes table exists.
//
// dbPath examples:
//   - "data/recipes.db" → file-based database
//   - ":memory:"        → in-memory database (tests)
//
// New never drops data. Seeding is a separate, explicit step (Reset).
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// ONE CONNECTION:
	// SQLite allows a single writer at a time anyway, and every ":memory:" connection
	// is its own private database. Pinning the pool to one connection means every
	// statement sees the same data and PRAGMAs below apply to everything we run.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets readers proceed while a write is in progress (file databases only;
	// in-memory databases silently stay in "memory" mode).
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is still reachable. Used by the readiness probe.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// migrate creates the recipes table if it is missing.
// CREATE TABLE IF NOT EXISTS is safe to run on every start.
func (db *DB) migrate() error {
	if _, err := db.conn.Exec(recipesTableDDL); err != nil {
		return fmt.Errorf("creating recipes table: %w", err)
	}
	return nil
}
