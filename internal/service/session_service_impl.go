package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/clock"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/repository"
	"github.com/google/uuid"
)

type sessionService struct {
	sessions repository.SessionRepo
	clock    clock.Clock
	observer UseCaseObserver
}

func NewSessionService(sessions repository.SessionRepo, c clock.Clock, observers ...UseCaseObserver) SessionService {
	return &sessionService{
		sessions: sessions,
		clock:    c,
		observer: useCaseObserverOrNoop(observers),
	}
}

// RecordStop appends a session stamped with the current time. A zero
// duration is a no-op returning a nil session.
func (s *sessionService) RecordStop(ctx context.Context, durationMs int64, subject, chapter string, pauseSeconds int) (session *domain.Session, err error) {
	if durationMs == 0 {
		return nil, nil
	}
	startedAt := time.Now()
	fields := map[string]any{
		"subject":     subject,
		"duration_ms": durationMs,
	}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "record-session",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if durationMs < 0 {
		return nil, domain.ErrNegativeDuration
	}
	if pauseSeconds < 0 {
		pauseSeconds = 0
	}

	session = &domain.Session{
		ID:           uuid.New().String(),
		Timestamp:    s.clock.Now().UTC().Truncate(time.Millisecond),
		Subject:      strings.TrimSpace(subject),
		Chapter:      strings.TrimSpace(chapter),
		DurationMs:   durationMs,
		PauseSeconds: pauseSeconds,
	}
	if err = s.sessions.Append(ctx, session); err != nil {
		return nil, err
	}
	fields["session_id"] = session.ID
	return session, nil
}

func (s *sessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.List(ctx)
}

func (s *sessionService) ListSince(ctx context.Context, since time.Time) ([]domain.Session, error) {
	return s.sessions.ListSince(ctx, since)
}
