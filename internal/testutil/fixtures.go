package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/scanland/internal/db"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/repository"
	"github.com/google/uuid"
)

// Session options
type SessionOption func(*domain.Session)

func WithSubject(subject string) SessionOption {
	return func(s *domain.Session) {
		s.Subject = subject
	}
}

func WithChapter(chapter string) SessionOption {
	return func(s *domain.Session) {
		s.Chapter = chapter
	}
}

func WithTimestamp(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.Timestamp = t
	}
}

func WithPauseSeconds(n int) SessionOption {
	return func(s *domain.Session) {
		s.PauseSeconds = n
	}
}

func WithID(id string) SessionOption {
	return func(s *domain.Session) {
		s.ID = id
	}
}

// NewTestSession builds a session of length d recorded now, truncated to
// the millisecond precision the store keeps.
func NewTestSession(d time.Duration, opts ...SessionOption) *domain.Session {
	s := &domain.Session{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UTC().Truncate(time.Millisecond),
		DurationMs: d.Milliseconds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTestSubject builds a subject with the given chapters.
func NewTestSubject(name string, chapters ...string) *domain.Subject {
	s := &domain.Subject{Name: name, Chapters: []string{}}
	s.MergeChapters(chapters)
	return s
}

// SeedSessions appends sessions to the store, failing the test on error.
func SeedSessions(t *testing.T, dbtx db.DBTX, sessions ...*domain.Session) {
	t.Helper()
	repo := repository.NewSQLiteSessionRepo(dbtx)
	for _, s := range sessions {
		if err := repo.Append(context.Background(), s); err != nil {
			t.Fatalf("seeding session %s: %v", s.ID, err)
		}
	}
}

// SeedSubjects creates subjects in the store, failing the test on error.
func SeedSubjects(t *testing.T, dbtx db.DBTX, subjects ...*domain.Subject) {
	t.Helper()
	repo := repository.NewSQLiteSubjectRepo(dbtx)
	for _, s := range subjects {
		if err := repo.Create(context.Background(), s); err != nil {
			t.Fatalf("seeding subject %s: %v", s.Name, err)
		}
	}
}
