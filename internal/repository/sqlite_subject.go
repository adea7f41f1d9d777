package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/scanland/internal/db"
	"github.com/alexanderramin/scanland/internal/domain"
)

// SQLiteSubjectRepo implements SubjectRepo on the subjects and
// subject_chapters tables.
type SQLiteSubjectRepo struct {
	db db.DBTX
}

func NewSQLiteSubjectRepo(dbtx db.DBTX) *SQLiteSubjectRepo {
	return &SQLiteSubjectRepo{db: dbtx}
}

// List returns subjects in creation order, chapters in insertion order.
func (r *SQLiteSubjectRepo) List(ctx context.Context) ([]domain.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, name_key FROM subjects ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing subjects: %w", err)
	}
	var subjects []domain.Subject
	index := make(map[string]int)
	for rows.Next() {
		var name, key string
		if err := rows.Scan(&name, &key); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning subject row: %w", err)
		}
		index[key] = len(subjects)
		subjects = append(subjects, domain.Subject{Name: name, Chapters: []string{}})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating subjects: %w", err)
	}
	rows.Close()

	chapters, err := r.db.QueryContext(ctx,
		`SELECT subject_key, name FROM subject_chapters ORDER BY subject_key, position`)
	if err != nil {
		return nil, fmt.Errorf("listing chapters: %w", err)
	}
	defer chapters.Close()
	for chapters.Next() {
		var key, name string
		if err := chapters.Scan(&key, &name); err != nil {
			return nil, fmt.Errorf("scanning chapter row: %w", err)
		}
		if i, ok := index[key]; ok {
			subjects[i].Chapters = append(subjects[i].Chapters, name)
		}
	}
	if err := chapters.Err(); err != nil {
		return nil, fmt.Errorf("iterating chapters: %w", err)
	}
	return subjects, nil
}

func (r *SQLiteSubjectRepo) GetByName(ctx context.Context, name string) (*domain.Subject, error) {
	key := domain.SubjectKey(name)
	s := domain.Subject{Chapters: []string{}}
	err := r.db.QueryRowContext(ctx, `SELECT name FROM subjects WHERE name_key = ?`, key).Scan(&s.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("subject %q: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("loading subject %q: %w", name, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM subject_chapters WHERE subject_key = ? ORDER BY position`, key)
	if err != nil {
		return nil, fmt.Errorf("loading chapters of %q: %w", name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var ch string
		if err := rows.Scan(&ch); err != nil {
			return nil, fmt.Errorf("scanning chapter row: %w", err)
		}
		s.Chapters = append(s.Chapters, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chapters: %w", err)
	}
	return &s, nil
}

// Create inserts the subject and its chapters. A subject with the same
// case-insensitive name must not exist.
func (r *SQLiteSubjectRepo) Create(ctx context.Context, s *domain.Subject) error {
	key := domain.SubjectKey(s.Name)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO subjects (name, name_key, created_at) VALUES (?, ?, ?)`,
		s.Name, key, nowUTC())
	if err != nil {
		return fmt.Errorf("inserting subject %q: %w", s.Name, err)
	}
	for i, ch := range s.Chapters {
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO subject_chapters (subject_key, position, name) VALUES (?, ?, ?)`,
			key, i, ch); err != nil {
			return fmt.Errorf("inserting chapter %q of %q: %w", ch, s.Name, err)
		}
	}
	return nil
}

// AddChapter appends chapter to subject. Adding an existing chapter is a
// no-op.
func (r *SQLiteSubjectRepo) AddChapter(ctx context.Context, subject, chapter string) error {
	key := domain.SubjectKey(subject)
	var exists int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM subjects WHERE name_key = ?`, key).Scan(&exists); err != nil {
		return fmt.Errorf("checking subject %q: %w", subject, err)
	}
	if exists == 0 {
		return fmt.Errorf("subject %q: %w", subject, ErrNotFound)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subject_chapters (subject_key, position, name)
		 VALUES (?, (SELECT COALESCE(MAX(position) + 1, 0) FROM subject_chapters WHERE subject_key = ?), ?)`,
		key, key, chapter)
	if err != nil {
		return fmt.Errorf("adding chapter %q to %q: %w", chapter, subject, err)
	}
	return nil
}

// Delete removes the subject and, by cascade, its chapters.
func (r *SQLiteSubjectRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE name_key = ?`, domain.SubjectKey(name))
	if err != nil {
		return fmt.Errorf("deleting subject %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting subject %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("subject %q: %w", name, ErrNotFound)
	}
	return nil
}

func (r *SQLiteSubjectRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects`); err != nil {
		return fmt.Errorf("clearing subjects: %w", err)
	}
	return nil
}
