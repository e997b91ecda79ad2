package database

import (
	"context"
	"database/sql"
)

// runMigrations creates the schema if it does not exist yet
func runMigrations(ctx context.Context, db *sql.DB) error {
	// Single-row table: the session has at most one set of tokens
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS auth_tokens (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			access_token TEXT NOT NULL,
			refresh_token TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS client_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}
