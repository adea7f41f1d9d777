package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/stats"
	"github.com/alexanderramin/scanland/internal/transfer"
)

// SessionService owns the session log. It satisfies tracker.Recorder.
type SessionService interface {
	RecordStop(ctx context.Context, durationMs int64, subject, chapter string, pauseSeconds int) (*domain.Session, error)
	List(ctx context.Context) ([]domain.Session, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Session, error)
}

// SubjectService manages the subject catalog.
type SubjectService interface {
	// Add creates the subject, or adds chapter to it when it already
	// exists. created reports which happened.
	Add(ctx context.Context, name, chapter string) (subject *domain.Subject, created bool, err error)
	AddChapter(ctx context.Context, subject, chapter string) (*domain.Subject, error)
	List(ctx context.Context) ([]domain.Subject, error)
	Delete(ctx context.Context, name string, confirmed bool) (*DeleteSubjectResult, error)
}

// DeleteSubjectResult reports a subject deletion. Deleted is false when the
// caller did not confirm.
type DeleteSubjectResult struct {
	Subject         string
	Deleted         bool
	SessionsRemoved int64
}

// ImportPolicy decides how an imported document meets existing data.
type ImportPolicy string

const (
	ImportMerge   ImportPolicy = "merge"
	ImportReplace ImportPolicy = "replace"
)

// ParseImportPolicy accepts "merge" or "replace".
func ParseImportPolicy(s string) (ImportPolicy, error) {
	switch p := ImportPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case ImportMerge, ImportReplace:
		return p, nil
	}
	return "", fmt.Errorf("unknown import policy %q (expected merge or replace)", s)
}

// ImportResult summarizes an import.
type ImportResult struct {
	Policy        ImportPolicy
	SessionsAdded int
	// IDsReassigned counts imported sessions that received a fresh id.
	IDsReassigned int
	SessionsTotal int
	SubjectsTotal int
}

// DataService moves the whole store in and out.
type DataService interface {
	Export(ctx context.Context) (*transfer.Document, error)
	Import(ctx context.Context, payload *transfer.Payload, policy ImportPolicy) (*ImportResult, error)
	Reset(ctx context.Context, confirmed bool) (bool, error)
}

// StatsService computes aggregates over a fresh snapshot of the store on
// every call.
type StatsService interface {
	TotalsBySubject(ctx context.Context) ([]stats.SubjectTotal, error)
	TotalsByWeek(ctx context.Context) ([]stats.WeekTotal, error)
	ThisWeekByDaySubject(ctx context.Context) (stats.DayMatrix, error)
	TopSubjectsThisWeek(ctx context.Context, n int) ([]stats.TopSubject, error)
	WeekSummary(ctx context.Context) (stats.Summary, error)
	Location() *time.Location
}
