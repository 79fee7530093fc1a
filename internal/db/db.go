package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

type DB struct {
	*sql.DB
}

func Connect(url string) (*DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return &DB{db}, nil
}

// Bootstrap applies the idempotent schema. Statements run one at a time so
// a failure names the statement that broke.
func Bootstrap(db *DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			thumbnail TEXT NOT NULL,
			category TEXT NOT NULL,
			kind TEXT NOT NULL,
			delivery_code TEXT NOT NULL DEFAULT '',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			views TEXT NOT NULL DEFAULT '0',
			year TEXT NOT NULL DEFAULT '',
			quality TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			episodes JSONB,
			is_top_ten BOOLEAN NOT NULL DEFAULT FALSE,
			top_ten_position INT,
			story_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			story_image TEXT,
			story_order INT,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			featured_order INT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries (created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS app_settings (
			key TEXT PRIMARY KEY,
			value JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
