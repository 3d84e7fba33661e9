package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// migrate creates all tables if they don't exist and records the
// bootstrap in the meta table so the DDL runs once per database.
func (s *SQLiteStore) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT
	)`); err != nil {
		return fmt.Errorf("creating meta table: %w", err)
	}

	done, err := s.isMetaFlagEnabled("schema_bootstrap_complete")
	if err != nil {
		return fmt.Errorf("checking bootstrap state: %w", err)
	}
	if done {
		return nil
	}

	if err := s.runBootstrapDDL(); err != nil {
		return err
	}
	if err := s.setMetaFlag("schema_bootstrap_complete"); err != nil {
		return fmt.Errorf("marking bootstrap complete: %w", err)
	}
	return nil
}

func (s *SQLiteStore) runBootstrapDDL() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS memos (
			id         TEXT PRIMARY KEY,
			text       TEXT NOT NULL,
			kind       TEXT NOT NULL CHECK(kind IN ('task','note','idea')),
			title      TEXT,
			completed  INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_memos_kind ON memos(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_memos_completed ON memos(completed)`,

		`CREATE TABLE IF NOT EXISTS contacts (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			name         TEXT NOT NULL,
			relationship TEXT,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Case-insensitive name uniqueness: the UI matches existing
		// contacts by trimmed lowercase full name.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_contacts_name ON contacts(LOWER(TRIM(name)))`,

		`CREATE TABLE IF NOT EXISTS follow_ups (
			id           TEXT PRIMARY KEY,
			memo_id      TEXT NOT NULL REFERENCES memos(id) ON DELETE CASCADE,
			text         TEXT NOT NULL,
			action       TEXT NOT NULL,
			contact_name TEXT NOT NULL,
			contact_id   TEXT,
			priority     TEXT NOT NULL CHECK(priority IN ('high','medium','low')),
			context      TEXT,
			completed    INTEGER NOT NULL DEFAULT 0,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_follow_ups_memo_id ON follow_ups(memo_id)`,
		`CREATE INDEX IF NOT EXISTS idx_follow_ups_completed ON follow_ups(completed)`,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning bootstrap transaction: %w", err)
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("bootstrap DDL: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing bootstrap: %w", err)
	}
	return nil
}

func (s *SQLiteStore) isMetaFlagEnabled(key string) (bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return value == "1", nil
}

func (s *SQLiteStore) setMetaFlag(key string) error {
	_, err := s.db.Exec(
		`INSERT INTO meta (key, value) VALUES (?, '1')
		 ON CONFLICT(key) DO UPDATE SET value = '1'`, key)
	return err
}
