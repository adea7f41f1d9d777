package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/scanland/internal/clock"
	"github.com/alexanderramin/scanland/internal/db"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/repository"
	"github.com/alexanderramin/scanland/internal/transfer"
	"github.com/google/uuid"
)

type dataService struct {
	sessions repository.SessionRepo
	subjects repository.SubjectRepo
	uow      db.UnitOfWork
	clock    clock.Clock
	observer UseCaseObserver
	newID    func() string
}

func NewDataService(
	sessions repository.SessionRepo,
	subjects repository.SubjectRepo,
	uow db.UnitOfWork,
	c clock.Clock,
	observers ...UseCaseObserver,
) DataService {
	return &dataService{
		sessions: sessions,
		subjects: subjects,
		uow:      uow,
		clock:    c,
		observer: useCaseObserverOrNoop(observers),
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *dataService) observe(ctx context.Context, name string, startedAt time.Time, err error, fields map[string]any) {
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

func (s *dataService) Export(ctx context.Context) (doc *transfer.Document, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer func() { s.observe(ctx, "export", startedAt, err, fields) }()

	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading sessions: %w", err)
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading subjects: %w", err)
	}
	fields["sessions"] = len(sessions)
	fields["subjects"] = len(subjects)
	return transfer.NewDocument(sessions, subjects, s.clock.Now()), nil
}

// Import applies payload in a single transaction: on any failure the store
// is left as it was.
func (s *dataService) Import(ctx context.Context, payload *transfer.Payload, policy ImportPolicy) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"policy": string(policy)}
	defer func() {
		if result != nil {
			fields["sessions_added"] = result.SessionsAdded
			fields["ids_reassigned"] = result.IDsReassigned
		}
		s.observe(ctx, "import", startedAt, err, fields)
	}()

	if payload == nil || (!payload.HasSessions && !payload.HasSubjects) {
		return nil, transfer.ErrInvalidDocument
	}
	if policy != ImportMerge && policy != ImportReplace {
		return nil, fmt.Errorf("unknown import policy %q", policy)
	}

	incoming := append([]domain.Session(nil), payload.Sessions...)
	result = &ImportResult{Policy: policy}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sessions := repository.NewSQLiteSessionRepo(tx)
		subjects := repository.NewSQLiteSubjectRepo(tx)

		if policy == ImportReplace {
			return s.replace(ctx, sessions, subjects, payload, incoming, result)
		}
		return s.merge(ctx, sessions, subjects, payload, incoming, result)
	})
	if err != nil {
		return nil, fmt.Errorf("importing (%s): %w", policy, err)
	}
	return result, nil
}

func (s *dataService) replace(
	ctx context.Context,
	sessions repository.SessionRepo,
	subjects repository.SubjectRepo,
	payload *transfer.Payload,
	incoming []domain.Session,
	result *ImportResult,
) error {
	if err := sessions.DeleteAll(ctx); err != nil {
		return err
	}
	if err := subjects.DeleteAll(ctx); err != nil {
		return err
	}
	if err := s.appendSessions(ctx, sessions, incoming, map[string]struct{}{}, result); err != nil {
		return err
	}
	for i := range payload.Subjects {
		if err := subjects.Create(ctx, &payload.Subjects[i]); err != nil {
			return err
		}
	}
	result.SessionsTotal = len(incoming)
	result.SubjectsTotal = len(payload.Subjects)
	return nil
}

func (s *dataService) merge(
	ctx context.Context,
	sessions repository.SessionRepo,
	subjects repository.SubjectRepo,
	payload *transfer.Payload,
	incoming []domain.Session,
	result *ImportResult,
) error {
	taken, err := sessions.IDs(ctx)
	if err != nil {
		return err
	}
	result.SessionsTotal = len(taken) + len(incoming)
	if err := s.appendSessions(ctx, sessions, incoming, taken, result); err != nil {
		return err
	}

	existing, err := subjects.List(ctx)
	if err != nil {
		return err
	}
	merged := existing
	if payload.HasSubjects {
		merged = transfer.MergeSubjects(existing, payload.Subjects)
		if err := subjects.DeleteAll(ctx); err != nil {
			return err
		}
		for i := range merged {
			if err := subjects.Create(ctx, &merged[i]); err != nil {
				return err
			}
		}
	}
	result.SubjectsTotal = len(merged)
	return nil
}

func (s *dataService) appendSessions(
	ctx context.Context,
	sessions repository.SessionRepo,
	incoming []domain.Session,
	taken map[string]struct{},
	result *ImportResult,
) error {
	original := make([]string, len(incoming))
	for i := range incoming {
		original[i] = incoming[i].ID
	}
	transfer.AssignIDs(incoming, taken, s.newID)
	for i := range incoming {
		if incoming[i].ID != original[i] {
			result.IDsReassigned++
		}
		if err := sessions.Append(ctx, &incoming[i]); err != nil {
			return err
		}
		result.SessionsAdded++
	}
	return nil
}

// Reset clears every session and subject once confirmed. It reports
// whether anything was cleared.
func (s *dataService) Reset(ctx context.Context, confirmed bool) (done bool, err error) {
	if !confirmed {
		return false, nil
	}
	startedAt := time.Now()
	defer func() { s.observe(ctx, "reset", startedAt, err, nil) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSessionRepo(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return repository.NewSQLiteSubjectRepo(tx).DeleteAll(ctx)
	})
	if err != nil {
		return false, fmt.Errorf("resetting store: %w", err)
	}
	return true, nil
}
