package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/scanland/internal/clock"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/repository"
	"github.com/alexanderramin/scanland/internal/stats"
)

type statsService struct {
	sessions repository.SessionRepo
	subjects repository.SubjectRepo
	clock    clock.Clock
	loc      *time.Location
}

// NewStatsService buckets weeks and days in loc; nil means time.Local.
func NewStatsService(sessions repository.SessionRepo, subjects repository.SubjectRepo, c clock.Clock, loc *time.Location) StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &statsService{sessions: sessions, subjects: subjects, clock: c, loc: loc}
}

func (s *statsService) Location() *time.Location { return s.loc }

func (s *statsService) now() time.Time { return s.clock.Now().In(s.loc) }

func (s *statsService) snapshot(ctx context.Context) ([]domain.Session, error) {
	log, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sessions: %w", err)
	}
	return log, nil
}

func (s *statsService) TotalsBySubject(ctx context.Context) ([]stats.SubjectTotal, error) {
	log, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TotalsBySubject(log), nil
}

func (s *statsService) TotalsByWeek(ctx context.Context) ([]stats.WeekTotal, error) {
	log, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TotalsByWeek(log, s.loc), nil
}

func (s *statsService) ThisWeekByDaySubject(ctx context.Context) (stats.DayMatrix, error) {
	log, err := s.snapshot(ctx)
	if err != nil {
		return stats.DayMatrix{}, err
	}
	return stats.ThisWeekByDaySubject(log, s.now()), nil
}

func (s *statsService) TopSubjectsThisWeek(ctx context.Context, n int) ([]stats.TopSubject, error) {
	log, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading subjects: %w", err)
	}
	return stats.TopSubjectsThisWeek(log, subjects, s.now(), n), nil
}

func (s *statsService) WeekSummary(ctx context.Context) (stats.Summary, error) {
	log, err := s.snapshot(ctx)
	if err != nil {
		return stats.Summary{}, err
	}
	return stats.WeekSummary(log, s.now()), nil
}
