// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// SQLite is embedded — the database is a single file inside the deployment,
// with no separate server to run. modernc.org/sqlite is a pure-Go
// translation of the SQLite C code, so there is no CGo and cross-compiling
// stays painless.
//
// Writes are serialized by SQLite itself: busy_timeout gives a writer a
// bounded wait for the lock, after which the statement fails with a busy
// error rather than blocking forever.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	// Importing the driver registers it with database/sql under the name
	// "sqlite"; we also use its typed Error to detect constraint failures.
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a sql.DB connection pool and implements the repository
// interfaces. It owns the schema: New runs the migrations before returning.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// One connection only. SQLite serializes writers anyway, and a single
	// connection means the PRAGMAs below apply to every statement — and an
	// in-memory database isn't silently duplicated per pool connection.
	conn.SetMaxOpenConns(1)

	// sql.Open doesn't actually connect; force it so a bad path fails here
	// instead of on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress — without it
	// every write locks out the whole database.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. The favorites table relies
	// on ON DELETE CASCADE, so they must be on.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	// Bounded wait (5s) for the write lock under contention; after that the
	// statement fails with SQLITE_BUSY instead of hanging the request.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Always defer this next to New —
// closing flushes the WAL and releases the file lock.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it idempotent
// — safe to run on every startup against an existing database.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			name       TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL,
			price       REAL NOT NULL CHECK (price >= 0),
			image       TEXT,
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating products table: %w", err)
	}

	// UNIQUE(user_id, product_id): at most one link per pair. The cascades
	// make the store clean up links when a user or product goes away.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS favorites (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (user_id, product_id)
		);
		CREATE INDEX IF NOT EXISTS idx_favorites_user_id ON favorites(user_id);
	`)
	if err != nil {
		return fmt.Errorf("creating favorites table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. The driver returns a typed *sqlite.Error whose extended result
// code distinguishes constraint kinds.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}
