package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/scanland/internal/clock"
	"github.com/alexanderramin/scanland/internal/repository"
	"github.com/alexanderramin/scanland/internal/testutil"
)

type captureObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (c *captureObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureObserver) names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.Name
	}
	return out
}

type testEnv struct {
	db       *sql.DB
	sessions *repository.SQLiteSessionRepo
	subjects *repository.SQLiteSubjectRepo
	clock    *clock.Fake
	observer *captureObserver
}

// Wednesday of ISO week 2025-W11.
var testNow = time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		db:       database,
		sessions: repository.NewSQLiteSessionRepo(database),
		subjects: repository.NewSQLiteSubjectRepo(database),
		clock:    clock.NewFake(testNow),
		observer: &captureObserver{},
	}
}

func (e *testEnv) sessionService() SessionService {
	return NewSessionService(e.sessions, e.clock, e.observer)
}

func (e *testEnv) subjectService() SubjectService {
	return NewSubjectService(e.subjects, testutil.NewTestUoW(e.db), e.observer)
}

func (e *testEnv) dataService() DataService {
	return NewDataService(e.sessions, e.subjects, testutil.NewTestUoW(e.db), e.clock, e.observer)
}

func (e *testEnv) statsService() StatsService {
	return NewStatsService(e.sessions, e.subjects, e.clock, time.UTC)
}
