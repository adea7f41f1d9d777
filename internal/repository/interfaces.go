package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
)

// SessionRepo is the append-only session log. List order is insertion order.
type SessionRepo interface {
	Append(ctx context.Context, s *domain.Session) error
	List(ctx context.Context) ([]domain.Session, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Session, error)
	IDs(ctx context.Context) (map[string]struct{}, error)
	DeleteBySubject(ctx context.Context, subject string) (int64, error)
	DeleteAll(ctx context.Context) error
}

// SubjectRepo stores the subject catalog. Names are matched case-insensitively.
type SubjectRepo interface {
	List(ctx context.Context) ([]domain.Subject, error)
	GetByName(ctx context.Context, name string) (*domain.Subject, error)
	Create(ctx context.Context, s *domain.Subject) error
	AddChapter(ctx context.Context, subject, chapter string) error
	Delete(ctx context.Context, name string) error
	DeleteAll(ctx context.Context) error
}
