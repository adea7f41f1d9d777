package formatter

import (
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	content = strings.TrimRight(content, "\n")
	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// SessionTime renders a session end instant in loc as "2006-01-02 15:04".
func SessionTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("2006-01-02 15:04")
}

// RelativeTime returns a humanized offset such as "3 hours ago".
func RelativeTime(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}

// Hours renders whole seconds as "1 h 23 m" or "18 m".
func Hours(seconds int64) string {
	return domain.FormatHoursFromSeconds(seconds)
}

// OrDash returns s, or a dimmed dash when s is empty.
func OrDash(s string) string {
	if s == "" {
		return Dim("-")
	}
	return s
}

// EmptyState renders a muted one-line placeholder.
func EmptyState(msg string) string {
	return Dim(msg) + "\n"
}
