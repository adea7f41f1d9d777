package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func columns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(`PRAGMA table_info(` + table + `)`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var cid, notNull, pk int
		var name, typ string
		var dflt sql.NullString
		require.NoError(t, rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"sessions", "subjects", "subject_chapters"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
	for _, idx := range []string{"idx_sessions_recorded", "idx_sessions_subject", "idx_subjects_name_key"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestMigrate_RejectsNegativeDuration(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO sessions (id, recorded_at, duration_ms) VALUES ('s1', '2025-01-01T00:00:00.000Z', -1)`)
	assert.Error(t, err)
}

func TestMigrate_SubjectKeyUnique(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO subjects (name, name_key, created_at) VALUES ('Math', 'math', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO subjects (name, name_key, created_at) VALUES ('MATH', 'math', 'x')`)
	assert.Error(t, err)
}

func TestMigrate_ChaptersCascadeWithSubject(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO subjects (name, name_key, created_at) VALUES ('Math', 'math', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO subject_chapters (subject_key, position, name) VALUES ('math', 0, 'Algebra')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM subjects WHERE name_key = 'math'`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM subject_chapters`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_UpgradesLegacyStore(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	legacy := []string{
		`CREATE TABLE sessions (
			seq         INTEGER PRIMARY KEY AUTOINCREMENT,
			id          TEXT NOT NULL UNIQUE,
			recorded_at TEXT NOT NULL,
			subject     TEXT NOT NULL DEFAULT '',
			chapter     TEXT NOT NULL DEFAULT '',
			duration_ms INTEGER NOT NULL CHECK(duration_ms >= 0)
		)`,
		`CREATE TABLE subjects (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`INSERT INTO sessions (id, recorded_at, subject, duration_ms) VALUES ('old', '2024-05-01T10:00:00.000Z', 'Math', 60000)`,
		`INSERT INTO subjects (name, created_at) VALUES ('  Math ', '2024-05-01T10:00:00.000Z')`,
	}
	for _, stmt := range legacy {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	assert.Contains(t, columns(t, db, "sessions"), "pause_seconds")
	assert.Contains(t, columns(t, db, "subjects"), "name_key")

	var pause int
	require.NoError(t, db.QueryRow(`SELECT pause_seconds FROM sessions WHERE id = 'old'`).Scan(&pause))
	assert.Zero(t, pause)

	var key string
	require.NoError(t, db.QueryRow(`SELECT name_key FROM subjects`).Scan(&key))
	assert.Equal(t, "math", key)
}

func TestOpenDB_FreshFileStoreAcceptsSubjectWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scanland.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`INSERT INTO subjects (name, name_key, created_at) VALUES ('Bio', 'bio', 'x')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO subject_chapters (subject_key, position, name) VALUES ('bio', 0, 'Cells')`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE subjects SET name = 'Biology' WHERE name_key = 'bio'`)
	require.NoError(t, err)

	// Reopening re-runs the migrations against existing rows.
	require.NoError(t, db.Close())
	db, err = OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
	_, err = db.Exec(`INSERT INTO subject_chapters (subject_key, position, name) VALUES ('ghost', 0, 'X')`)
	assert.Error(t, err, "chapters must reference a subject")
}

func TestMigrate_UpgradesLegacyStoreWithForeignKeysOn(t *testing.T) {
	db, err := sql.Open("sqlite", MemoryPath)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE subjects (
			seq        INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`INSERT INTO subjects (name, created_at) VALUES ('Math', 'x')`,
		`INSERT INTO subjects (name, created_at) VALUES ('Chem ', 'x')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	require.NoError(t, Migrate(db))

	rows, err := db.Query(`SELECT name_key FROM subjects ORDER BY seq`)
	require.NoError(t, err)
	var keys []string
	for rows.Next() {
		var k string
		require.NoError(t, rows.Scan(&k))
		keys = append(keys, k)
	}
	require.NoError(t, rows.Close())
	assert.Equal(t, []string{"math", "chem"}, keys)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys restored after the backfill")

	_, err = db.Exec(`INSERT INTO subject_chapters (subject_key, position, name) VALUES ('math', 0, 'Limits')`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM subjects WHERE name_key = 'math'`)
	require.NoError(t, err)
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM subject_chapters`).Scan(&n))
	assert.Zero(t, n)
}
