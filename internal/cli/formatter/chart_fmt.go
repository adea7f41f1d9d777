package formatter

import (
	"strings"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/stats"
	"github.com/charmbracelet/lipgloss"
)

// ChartWidth is the bar length used for the longest bar.
const ChartWidth = 32

type bar struct {
	label string
	hours float64
	color string
}

func renderBars(bars []bar) string {
	var peak float64
	labelWidth := 0
	for _, b := range bars {
		peak = max(peak, b.hours)
		labelWidth = max(labelWidth, lipgloss.Width(b.label))
	}
	var out strings.Builder
	for _, b := range bars {
		fraction := 0.0
		if peak > 0 {
			fraction = b.hours / peak
		}
		label := b.label + strings.Repeat(" ", labelWidth-lipgloss.Width(b.label))
		out.WriteString(label + "  " + RenderBar(fraction, ChartWidth, b.color) + " " + Dim(hoursLabel(b.hours)) + "\n")
	}
	return out.String()
}

func hoursLabel(h float64) string {
	return domain.FormatDecimalHours(h)
}

// FormatWeeklyChart renders total hours per ISO week.
func FormatWeeklyChart(weeks []stats.WeekTotal) string {
	if len(weeks) == 0 {
		return EmptyState("No sessions recorded yet.")
	}
	bars := make([]bar, 0, len(weeks))
	for _, w := range weeks {
		bars = append(bars, bar{label: w.Key.String(), hours: w.Hours, color: string(ColorHeader)})
	}
	return Header("Hours per week") + "\n" + renderBars(bars)
}

// FormatSubjectChart renders total hours per subject in palette colors.
func FormatSubjectChart(totals []stats.SubjectTotal) string {
	if len(totals) == 0 {
		return EmptyState("No sessions recorded yet.")
	}
	bars := make([]bar, 0, len(totals))
	for _, t := range totals {
		bars = append(bars, bar{label: labelOrNone(t.Subject), hours: t.Hours, color: t.Color})
	}
	return Header("Hours per subject") + "\n" + renderBars(bars)
}

// FormatThisWeekChart renders the current week as one stacked bar per day,
// each segment colored by subject, followed by a legend.
func FormatThisWeekChart(m stats.DayMatrix) string {
	title := Header("This week " + m.Week.String())
	if len(m.Rows) == 0 {
		return title + "\n" + EmptyState("Nothing recorded this week.")
	}
	var dayTotals [7]float64
	var peak float64
	for d := range dayTotals {
		for _, r := range m.Rows {
			dayTotals[d] += r.Hours[d]
		}
		peak = max(peak, dayTotals[d])
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	for d, label := range m.Days {
		b.WriteString(label + "  ")
		for _, r := range m.Rows {
			if r.Hours[d] > 0 {
				b.WriteString(RenderBar(r.Hours[d]/peak, ChartWidth, r.Color))
			}
		}
		if dayTotals[d] > 0 {
			b.WriteString(" " + Dim(hoursLabel(dayTotals[d])))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	legend := make([]string, 0, len(m.Rows))
	for _, r := range m.Rows {
		legend = append(legend, SubjectSwatch(labelOrNone(r.Subject), r.Color)+" "+Dim(hoursLabel(r.Total())))
	}
	b.WriteString(strings.Join(legend, "   ") + "\n")
	return b.String()
}

func labelOrNone(subject string) string {
	return domain.CoalesceStr(subject, domain.NoSubjectLabel)
}
