package stats

import (
	"fmt"
	"time"
)

// WeekKey identifies an ISO-8601 week: weeks start on Monday and week 1 is
// the week containing the year's first Thursday.
type WeekKey struct {
	Year int
	Week int
}

// String renders the key as "<year>-S<week>".
func (k WeekKey) String() string {
	return fmt.Sprintf("%d-S%d", k.Year, k.Week)
}

// WeekOf returns the ISO week bucket of t in t's own location.
func WeekOf(t time.Time) WeekKey {
	y, w := t.ISOWeek()
	return WeekKey{Year: y, Week: w}
}

// WeekdayIndex returns 0 for Monday through 6 for Sunday.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeekStart returns midnight of the Monday starting t's ISO week.
func WeekStart(t time.Time) time.Time {
	d := t.AddDate(0, 0, -WeekdayIndex(t))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}

// DayLabels are the weekday column labels, Monday first.
var DayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
