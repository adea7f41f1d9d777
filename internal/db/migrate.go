package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate applies every schema statement. Statements are idempotent and
// re-run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Column additions for stores created before the column
			// existed fail harmlessly on current schemas.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSubjectKeys(db); err != nil {
		return fmt.Errorf("backfilling subject keys: %w", err)
	}
	return nil
}

// migrateBackfillSubjectKeys fills name_key for subjects written before
// keys were stored, then enforces uniqueness. subject_chapters references
// name_key, and SQLite refuses writes to subjects while that reference has
// no unique index behind it, so foreign keys are off until the index exists.
func migrateBackfillSubjectKeys(db *sql.DB) (err error) {
	ctx := context.Background()
	var fk int
	if err := db.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk); err != nil {
		return fmt.Errorf("reading foreign_keys: %w", err)
	}
	if fk == 1 {
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
			return fmt.Errorf("disabling foreign keys: %w", err)
		}
		defer func() {
			if _, rerr := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); rerr != nil && err == nil {
				err = fmt.Errorf("enabling foreign keys: %w", rerr)
			}
		}()
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE subjects SET name_key = lower(trim(name)) WHERE name_key = ''`); err != nil {
		return fmt.Errorf("filling name_key: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_subjects_name_key ON subjects(name_key)`); err != nil {
		return fmt.Errorf("indexing name_key: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		seq           INTEGER PRIMARY KEY AUTOINCREMENT,
		id            TEXT NOT NULL UNIQUE,
		recorded_at   TEXT NOT NULL,
		subject       TEXT NOT NULL DEFAULT '',
		chapter       TEXT NOT NULL DEFAULT '',
		duration_ms   INTEGER NOT NULL CHECK(duration_ms >= 0),
		pause_seconds INTEGER NOT NULL DEFAULT 0
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_recorded ON sessions(recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_subject ON sessions(subject)`,

	`CREATE TABLE IF NOT EXISTS subjects (
		seq        INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL,
		name_key   TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS subject_chapters (
		subject_key TEXT NOT NULL REFERENCES subjects(name_key)
		            ON DELETE CASCADE ON UPDATE CASCADE,
		position    INTEGER NOT NULL,
		name        TEXT NOT NULL,
		PRIMARY KEY (subject_key, name)
	)`,

	// Stores created before pause tracking and subject keys.
	`ALTER TABLE sessions ADD COLUMN pause_seconds INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE subjects ADD COLUMN name_key TEXT NOT NULL DEFAULT ''`,
}
