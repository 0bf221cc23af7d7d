package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent so the whole
// list runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// Entries that could not be appended to their week file yet. seq keeps
	// finalization order for the drain.
	`CREATE TABLE IF NOT EXISTS pending_entries (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		id         TEXT NOT NULL UNIQUE,
		category   TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at   TEXT NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		attempts   INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		queued_at  TEXT NOT NULL
	)`,

	// The open session, if any. A single row keyed by slot = 1.
	`CREATE TABLE IF NOT EXISTS active_session (
		slot         INTEGER PRIMARY KEY CHECK(slot = 1),
		category     TEXT NOT NULL,
		started_at   TEXT NOT NULL,
		subcat_index INTEGER,
		note         TEXT NOT NULL DEFAULT '',
		seen_at      TEXT NOT NULL
	)`,
}
