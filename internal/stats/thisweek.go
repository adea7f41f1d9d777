package stats

import (
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
)

// DayRow is one subject's hours for each weekday, Monday first.
type DayRow struct {
	Subject string
	Hours   [7]float64
	Color   string
}

// Total returns the row's hours across the week.
func (r DayRow) Total() float64 {
	var sum float64
	for _, h := range r.Hours {
		sum += h
	}
	return sum
}

// DayMatrix is the subject × weekday breakdown of one ISO week.
type DayMatrix struct {
	Week WeekKey
	Days [7]string
	Rows []DayRow
}

// ChapterTime is a chapter with its time in the current week.
type ChapterTime struct {
	Name    string
	Seconds int64
}

// TopSubject is a ranked subject for the current week.
type TopSubject struct {
	Subject  string
	Seconds  int64
	Color    string
	Chapters []ChapterTime
	// FromCatalog is set when Chapters come from the subject list because
	// no chapter-level time was recorded this week.
	FromCatalog bool
}

// Summary condenses the current week.
type Summary struct {
	Week          WeekKey
	TotalSeconds  int64
	ActiveDays    int
	AvgDaySeconds int64
	TopSubject    string
}

func inWeek(s domain.Session, week WeekKey, loc *time.Location) (time.Time, bool) {
	local := s.Timestamp.In(loc)
	return local, WeekOf(local) == week
}

// ThisWeekByDaySubject returns the hours per subject and weekday for the
// ISO week containing now. Rows follow the global frequency order and rows
// without time this week are omitted.
func ThisWeekByDaySubject(log []domain.Session, now time.Time) DayMatrix {
	week := WeekOf(now)
	order := SubjectsByFrequency(log)
	rows := make(map[string]*DayRow, len(order))
	for _, subject := range order {
		rows[subject] = &DayRow{Subject: subject, Color: ColorFor(subject, order)}
	}

	for _, s := range log {
		local, ok := inWeek(s, week, now.Location())
		if !ok {
			continue
		}
		rows[s.Subject].Hours[WeekdayIndex(local)] += float64(s.DurationMs) / msPerHour
	}

	m := DayMatrix{Week: week, Days: DayLabels}
	for _, subject := range order {
		if row := rows[subject]; row.Total() > 0 {
			m.Rows = append(m.Rows, *row)
		}
	}
	return m
}

// TopSubjectsThisWeek ranks subjects by seconds in the ISO week containing
// now and keeps the first n. Each subject lists up to three chapters by
// time; without chapter time, up to two chapters from subjects are listed.
func TopSubjectsThisWeek(log []domain.Session, subjects []domain.Subject, now time.Time, n int) []TopSubject {
	if n <= 0 {
		n = 3
	}
	week := WeekOf(now)
	order := SubjectsByFrequency(log)
	totals := newOrderedSum[string]()
	chapters := make(map[string]*orderedSum[string])

	for _, s := range log {
		if _, ok := inWeek(s, week, now.Location()); !ok {
			continue
		}
		secs := s.Seconds()
		totals.add(s.Subject, secs)
		if s.Chapter == "" {
			continue
		}
		if chapters[s.Subject] == nil {
			chapters[s.Subject] = newOrderedSum[string]()
		}
		chapters[s.Subject].add(s.Chapter, secs)
	}

	ranked := totals.ranked()
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]TopSubject, 0, len(ranked))
	for _, subject := range ranked {
		top := TopSubject{
			Subject: subject,
			Seconds: totals.sums[subject],
			Color:   ColorFor(subject, order),
		}
		if ch := chapters[subject]; ch != nil {
			names := ch.ranked()
			if len(names) > 3 {
				names = names[:3]
			}
			for _, name := range names {
				top.Chapters = append(top.Chapters, ChapterTime{Name: name, Seconds: ch.sums[name]})
			}
		} else if known := catalogChapters(subjects, subject, 2); len(known) > 0 {
			top.Chapters = known
			top.FromCatalog = true
		}
		out = append(out, top)
	}
	return out
}

func catalogChapters(subjects []domain.Subject, name string, limit int) []ChapterTime {
	for _, s := range subjects {
		if s.Name != name {
			continue
		}
		var out []ChapterTime
		for _, c := range s.Chapters {
			if len(out) == limit {
				break
			}
			out = append(out, ChapterTime{Name: c})
		}
		return out
	}
	return nil
}

// WeekSummary totals the ISO week containing now: overall seconds, the
// number of distinct days with activity, the average per active day and the
// subject with the most time.
func WeekSummary(log []domain.Session, now time.Time) Summary {
	week := WeekOf(now)
	out := Summary{Week: week}
	days := make(map[string]struct{})
	perSubject := newOrderedSum[string]()

	for _, s := range log {
		local, ok := inWeek(s, week, now.Location())
		if !ok {
			continue
		}
		secs := s.Seconds()
		out.TotalSeconds += secs
		days[local.Format("2006-01-02")] = struct{}{}
		perSubject.add(s.Subject, secs)
	}

	out.ActiveDays = len(days)
	if out.ActiveDays > 0 {
		out.AvgDaySeconds = (out.TotalSeconds + int64(out.ActiveDays)/2) / int64(out.ActiveDays)
	}
	if ranked := perSubject.ranked(); len(ranked) > 0 {
		out.TopSubject = ranked[0]
	}
	return out
}
