package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/stats"
)

var historyHeaders = []string{"WHEN", "SUBJECT", "CHAPTER", "DURATION", "PAUSES"}

func historyRow(s domain.Session, loc *time.Location) []string {
	return []string{
		SessionTime(s.Timestamp, loc),
		s.SubjectLabel(),
		OrDash(s.Chapter),
		domain.FormatHMS(s.DurationMs),
		Dim(fmt.Sprintf("%ds", s.PauseSeconds)),
	}
}

// FormatHistoryTable renders sessions newest first.
func FormatHistoryTable(log []domain.Session, loc *time.Location) string {
	if len(log) == 0 {
		return EmptyState("No sessions recorded yet.")
	}
	newest := stats.Newest(log)
	rows := make([][]string, 0, len(newest))
	for _, s := range newest {
		rows = append(rows, historyRow(s, loc))
	}
	return RenderTable(historyHeaders, rows, 3)
}

// FormatHistoryGrouped renders one block per subject with its total.
func FormatHistoryGrouped(log []domain.Session, loc *time.Location) string {
	if len(log) == 0 {
		return EmptyState("No sessions recorded yet.")
	}
	var b strings.Builder
	for i, g := range stats.GroupBySubject(log) {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(Header(g.Label))
		b.WriteString("  " + Dim(Hours(g.TotalSeconds)) + "\n")
		rows := make([][]string, 0, len(g.Sessions))
		for _, s := range g.Sessions {
			rows = append(rows, []string{
				SessionTime(s.Timestamp, loc),
				OrDash(s.Chapter),
				domain.FormatHMS(s.DurationMs),
			})
		}
		b.WriteString(RenderTable([]string{"WHEN", "CHAPTER", "DURATION"}, rows, 2))
	}
	return b.String()
}

// FormatHistoryCards renders sessions newest first as compact two-line
// cards with a relative age.
func FormatHistoryCards(log []domain.Session, loc *time.Location, now time.Time) string {
	if len(log) == 0 {
		return EmptyState("No sessions recorded yet.")
	}
	var b strings.Builder
	for _, s := range stats.Newest(log) {
		title := Bold(s.SubjectLabel())
		if s.Chapter != "" {
			title += Dim(" · ") + s.Chapter
		}
		fmt.Fprintf(&b, "%s  %s\n", title, StyleGreen.Render(domain.FormatHMS(s.DurationMs)))
		fmt.Fprintf(&b, "  %s\n", Dim(SessionTime(s.Timestamp, loc)+" · "+RelativeTime(s.Timestamp, now)))
	}
	return b.String()
}
