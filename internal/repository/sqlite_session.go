package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/scanland/internal/db"
	"github.com/alexanderramin/scanland/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo on the sessions table.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo accepts a *sql.DB or a *sql.Tx.
func NewSQLiteSessionRepo(dbtx db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: dbtx}
}

const sessionColumns = `id, recorded_at, subject, chapter, duration_ms, pause_seconds`

func (r *SQLiteSessionRepo) Append(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		formatTime(s.Timestamp),
		s.Subject,
		s.Chapter,
		s.DurationMs,
		s.PauseSeconds,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) List(ctx context.Context) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

// ListSince returns sessions recorded at or after since, in log order.
func (r *SQLiteSessionRepo) ListSince(ctx context.Context, since time.Time) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE recorded_at >= ? ORDER BY seq`,
		formatTime(since))
	if err != nil {
		return nil, fmt.Errorf("listing sessions since %s: %w", since.Format(time.RFC3339), err)
	}
	defer rows.Close()
	return scanSessions(rows)
}

func (r *SQLiteSessionRepo) IDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM sessions`)
	if err != nil {
		return nil, fmt.Errorf("listing session ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session id: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating session ids: %w", err)
	}
	return ids, nil
}

// DeleteBySubject removes sessions whose subject equals subject exactly and
// reports how many were removed.
func (r *SQLiteSessionRepo) DeleteBySubject(ctx context.Context, subject string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE subject = ?`, subject)
	if err != nil {
		return 0, fmt.Errorf("deleting sessions of %q: %w", subject, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted sessions: %w", err)
	}
	return n, nil
}

func (r *SQLiteSessionRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("clearing sessions: %w", err)
	}
	return nil
}

func scanSessions(rows *sql.Rows) ([]domain.Session, error) {
	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		var recordedAt string
		if err := rows.Scan(&s.ID, &recordedAt, &s.Subject, &s.Chapter, &s.DurationMs, &s.PauseSeconds); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		ts, err := parseTime(recordedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing recorded_at of session %s: %w", s.ID, err)
		}
		s.Timestamp = ts
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return sessions, nil
}
