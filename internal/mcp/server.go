// Package mcp exposes the read-only statistics surface as Model Context
// Protocol tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/service"
	"github.com/alexanderramin/scanland/internal/stats"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ListSessionsArgs defines arguments for the list_sessions tool.
type ListSessionsArgs struct {
	Limit int    `json:"limit,omitempty"`
	Since string `json:"since,omitempty"`
}

// TopSubjectsArgs defines arguments for the top_subjects tool.
type TopSubjectsArgs struct {
	Limit int `json:"limit,omitempty"`
}

// SessionJSON is one session in tool output.
type SessionJSON struct {
	ID           string `json:"id"`
	Timestamp    string `json:"timestamp"`
	Subject      string `json:"subject"`
	Chapter      string `json:"chapter,omitempty"`
	DurationMs   int64  `json:"duration_ms"`
	Duration     string `json:"duration"`
	PauseSeconds int    `json:"pause_seconds"`
}

// SubjectHours is one row of totals_by_subject.
type SubjectHours struct {
	Subject string  `json:"subject"`
	Hours   float64 `json:"hours"`
	Color   string  `json:"color"`
}

// WeekHours is one row of totals_by_week.
type WeekHours struct {
	Week  string  `json:"week"`
	Hours float64 `json:"hours"`
}

// DayHours is one subject row of this_week.
type DayHours struct {
	Subject string             `json:"subject"`
	Hours   map[string]float64 `json:"hours"`
	Total   float64            `json:"total"`
}

// ChapterJSON is a chapter of a top subject.
type ChapterJSON struct {
	Name    string `json:"name"`
	Seconds int64  `json:"seconds,omitempty"`
}

// TopSubjectJSON is one row of top_subjects.
type TopSubjectJSON struct {
	Subject     string        `json:"subject"`
	Seconds     int64         `json:"seconds"`
	Hours       string        `json:"hours"`
	Chapters    []ChapterJSON `json:"chapters"`
	FromCatalog bool          `json:"from_catalog,omitempty"`
}

// Server registers the statistics tools.
type Server struct {
	stats    service.StatsService
	sessions service.SessionService
}

// New creates a Server reading from the given services.
func New(statsSvc service.StatsService, sessions service.SessionService) *Server {
	return &Server{stats: statsSvc, sessions: sessions}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer(version string) *server.MCPServer {
	srv := server.NewMCPServer("scanland", version)

	srv.AddTool(mcp.NewTool("totals_by_subject",
		mcp.WithDescription("Total study hours per subject, most studied first"),
	), s.handleTotalsBySubject)

	srv.AddTool(mcp.NewTool("totals_by_week",
		mcp.WithDescription("Total study hours per ISO week, in first-seen order"),
	), s.handleTotalsByWeek)

	srv.AddTool(mcp.NewTool("this_week",
		mcp.WithDescription("Hours per subject and weekday for the current ISO week"),
	), s.handleThisWeek)

	srv.AddTool(mcp.NewTool("top_subjects",
		mcp.WithDescription("Most studied subjects this week with their chapters"),
		mcp.WithNumber("limit",
			mcp.Description("Max subjects to return (default: 3)")),
	), s.handleTopSubjects)

	srv.AddTool(mcp.NewTool("week_summary",
		mcp.WithDescription("Total, average per active day and top subject for the current week"),
	), s.handleWeekSummary)

	srv.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("Recorded study sessions, newest first"),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default: 20)")),
		mcp.WithString("since",
			mcp.Description("Only sessions recorded on or after this date (ISO 8601, e.g. 2025-01-01)")),
	), s.handleListSessions)

	return srv
}

// ServeStdio serves the tools on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio(version string) error {
	return server.ServeStdio(s.MCPServer(version))
}

func decodeArgs(request mcp.CallToolRequest, dst any) error {
	raw, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	if string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleTotalsBySubject(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	totals, err := s.stats.TotalsBySubject(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("totals failed: %v", err)), nil
	}
	rows := make([]SubjectHours, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, SubjectHours{Subject: t.Subject, Hours: t.Hours, Color: t.Color})
	}
	return jsonResult(map[string]any{"subjects": rows})
}

func (s *Server) handleTotalsByWeek(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks, err := s.stats.TotalsByWeek(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("totals failed: %v", err)), nil
	}
	rows := make([]WeekHours, 0, len(weeks))
	for _, w := range weeks {
		rows = append(rows, WeekHours{Week: w.Key.String(), Hours: w.Hours})
	}
	return jsonResult(map[string]any{"weeks": rows})
}

func (s *Server) handleThisWeek(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m, err := s.stats.ThisWeekByDaySubject(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("this week failed: %v", err)), nil
	}
	rows := make([]DayHours, 0, len(m.Rows))
	for _, r := range m.Rows {
		row := DayHours{Subject: r.Subject, Hours: make(map[string]float64, len(m.Days)), Total: r.Total()}
		for i, day := range m.Days {
			row.Hours[day] = r.Hours[i]
		}
		rows = append(rows, row)
	}
	return jsonResult(map[string]any{"week": m.Week.String(), "subjects": rows})
}

func (s *Server) handleTopSubjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args TopSubjectsArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	top, err := s.stats.TopSubjectsThisWeek(ctx, args.Limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("top subjects failed: %v", err)), nil
	}
	rows := make([]TopSubjectJSON, 0, len(top))
	for _, t := range top {
		row := TopSubjectJSON{
			Subject:     t.Subject,
			Seconds:     t.Seconds,
			Hours:       domain.FormatHoursFromSeconds(t.Seconds),
			Chapters:    []ChapterJSON{},
			FromCatalog: t.FromCatalog,
		}
		for _, c := range t.Chapters {
			row.Chapters = append(row.Chapters, ChapterJSON{Name: c.Name, Seconds: c.Seconds})
		}
		rows = append(rows, row)
	}
	return jsonResult(map[string]any{"subjects": rows})
}

func (s *Server) handleWeekSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sum, err := s.stats.WeekSummary(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(map[string]any{
		"week":            sum.Week.String(),
		"total_seconds":   sum.TotalSeconds,
		"total":           domain.FormatHoursFromSeconds(sum.TotalSeconds),
		"active_days":     sum.ActiveDays,
		"avg_day_seconds": sum.AvgDaySeconds,
		"top_subject":     sum.TopSubject,
	})
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ListSessionsArgs
	if err := decodeArgs(request, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 20
	}

	var (
		log []domain.Session
		err error
	)
	if args.Since != "" {
		since, perr := parseSince(args.Since, s.stats.Location())
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		log, err = s.sessions.ListSince(ctx, since)
	} else {
		log, err = s.sessions.List(ctx)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing sessions failed: %v", err)), nil
	}

	newest := stats.Newest(log)
	if len(newest) > limit {
		newest = newest[:limit]
	}
	out := make([]SessionJSON, 0, len(newest))
	for _, sess := range newest {
		out = append(out, SessionJSON{
			ID:           sess.ID,
			Timestamp:    sess.Timestamp.UTC().Format(time.RFC3339),
			Subject:      sess.Subject,
			Chapter:      sess.Chapter,
			DurationMs:   sess.DurationMs,
			Duration:     domain.FormatHMS(sess.DurationMs),
			PauseSeconds: sess.PauseSeconds,
		})
	}
	return jsonResult(map[string]any{"sessions": out, "count": len(out)})
}

func parseSince(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", v, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid since %q: expected ISO 8601 date", v)
}
