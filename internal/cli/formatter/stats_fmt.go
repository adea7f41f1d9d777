package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/stats"
)

// FormatWeekStats renders the weekly statistics panel: the week summary
// followed by the top subjects and their chapters.
func FormatWeekStats(sum stats.Summary, top []stats.TopSubject) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("TOTAL    "), Bold(Hours(sum.TotalSeconds)))
	fmt.Fprintf(&b, "%s  %s %s\n", StyleDim.Render("AVG/DAY  "), Hours(sum.AvgDaySeconds),
		Dim(fmt.Sprintf("over %d active day(s)", sum.ActiveDays)))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("TOP      "), OrDash(topLabel(sum)))

	b.WriteString("\n" + Header("Top subjects") + "\n")
	if len(top) == 0 {
		b.WriteString(EmptyState("Nothing recorded this week."))
	}
	for i, t := range top {
		fmt.Fprintf(&b, "%d. %s  %s\n", i+1, SubjectSwatch(labelOrNone(t.Subject), t.Color), StyleGreen.Render(Hours(t.Seconds)))
		for _, c := range t.Chapters {
			if t.FromCatalog {
				fmt.Fprintf(&b, "     %s\n", Dim("· "+c.Name))
				continue
			}
			fmt.Fprintf(&b, "     · %s %s\n", c.Name, Dim(Hours(c.Seconds)))
		}
	}
	return RenderBox("Week "+sum.Week.String(), b.String())
}

func topLabel(sum stats.Summary) string {
	if sum.TotalSeconds == 0 {
		return ""
	}
	return labelOrNone(sum.TopSubject)
}

// FormatSubjectList renders the subject catalog with chapters.
func FormatSubjectList(subjects []domain.Subject) string {
	if len(subjects) == 0 {
		return EmptyState("No subjects yet. Add one with: scanland subject add NAME")
	}
	rows := make([][]string, 0, len(subjects))
	for _, s := range subjects {
		chapters := Dim("-")
		if len(s.Chapters) > 0 {
			chapters = strings.Join(s.Chapters, ", ")
		}
		rows = append(rows, []string{Bold(s.Name), fmt.Sprintf("%d", len(s.Chapters)), chapters})
	}
	return RenderTable([]string{"SUBJECT", "#", "CHAPTERS"}, rows, 1)
}
