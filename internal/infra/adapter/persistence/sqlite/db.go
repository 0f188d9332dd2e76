// Package sqlite provides the SQLite persistence adapter. It backs
// single-node deployments and tests; larger installs use the postgres
// adapter instead.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"chat-integration/migrations"
)

// timeLayout is the canonical UTC timestamp format stored in TEXT columns.
const timeLayout = "2006-01-02T15:04:05Z"

// Open opens a SQLite database at dsn and runs pending migrations.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db, "sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}
