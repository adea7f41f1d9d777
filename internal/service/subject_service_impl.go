package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/db"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/repository"
)

type subjectService struct {
	subjects repository.SubjectRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSubjectService(subjects repository.SubjectRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SubjectService {
	return &subjectService{
		subjects: subjects,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *subjectService) observe(ctx context.Context, name string, startedAt time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *subjectService) Add(ctx context.Context, name, chapter string) (subject *domain.Subject, created bool, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subject": name, "chapter": chapter}
	defer func() {
		fields["created"] = created
		s.observe(ctx, "add-subject", startedAt, err, fields)
	}()

	candidate, err := domain.NewSubject(name, chapter)
	if err != nil {
		return nil, false, err
	}

	existing, err := s.subjects.GetByName(ctx, candidate.Name)
	switch {
	case err == nil:
		if chapter = strings.TrimSpace(chapter); chapter == "" || existing.HasChapter(chapter) {
			return existing, false, nil
		}
		if err = s.subjects.AddChapter(ctx, existing.Name, chapter); err != nil {
			return nil, false, err
		}
		existing.AddChapter(chapter)
		return existing, false, nil
	case errors.Is(err, repository.ErrNotFound):
	default:
		return nil, false, err
	}

	if err = s.subjects.Create(ctx, candidate); err != nil {
		return nil, false, err
	}
	return candidate, true, nil
}

func (s *subjectService) AddChapter(ctx context.Context, subject, chapter string) (_ *domain.Subject, err error) {
	startedAt := time.Now()
	defer func() {
		s.observe(ctx, "add-chapter", startedAt, err, map[string]any{"subject": subject, "chapter": chapter})
	}()

	chapter = strings.TrimSpace(chapter)
	if chapter == "" {
		return nil, domain.ErrEmptyChapterName
	}
	existing, err := s.subjects.GetByName(ctx, subject)
	if err != nil {
		return nil, mapNotFound(subject, err)
	}
	if existing.HasChapter(chapter) {
		return existing, nil
	}
	if err = s.subjects.AddChapter(ctx, existing.Name, chapter); err != nil {
		return nil, err
	}
	existing.AddChapter(chapter)
	return existing, nil
}

func (s *subjectService) List(ctx context.Context) ([]domain.Subject, error) {
	return s.subjects.List(ctx)
}

// Delete removes the subject and every session recorded under its exact
// name. Without confirmation nothing changes.
func (s *subjectService) Delete(ctx context.Context, name string, confirmed bool) (result *DeleteSubjectResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"subject": name, "confirmed": confirmed}
	defer func() {
		if result != nil {
			fields["sessions_removed"] = result.SessionsRemoved
		}
		s.observe(ctx, "delete-subject", startedAt, err, fields)
	}()

	existing, err := s.subjects.GetByName(ctx, name)
	if err != nil {
		return nil, mapNotFound(name, err)
	}
	result = &DeleteSubjectResult{Subject: existing.Name}
	if !confirmed {
		return result, nil
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		removed, err := repository.NewSQLiteSessionRepo(tx).DeleteBySubject(ctx, existing.Name)
		if err != nil {
			return err
		}
		if err := repository.NewSQLiteSubjectRepo(tx).Delete(ctx, existing.Name); err != nil {
			return err
		}
		result.SessionsRemoved = removed
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("deleting subject %q: %w", existing.Name, err)
	}
	result.Deleted = true
	return result, nil
}

func mapNotFound(name string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%q: %w", name, domain.ErrSubjectNotFound)
	}
	return err
}
