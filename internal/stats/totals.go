// Package stats derives totals and breakdowns from a session log snapshot.
// Every function is pure: the same log and reference time give the same
// answer, and nothing is cached between calls.
package stats

import (
	"sort"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
)

const msPerHour = float64(time.Hour / time.Millisecond)

// SubjectTotal is one bar of the by-subject chart.
type SubjectTotal struct {
	Subject string
	Hours   float64
	Color   string
}

// WeekTotal is one bar of the weekly chart.
type WeekTotal struct {
	Key   WeekKey
	Hours float64
}

// orderedSum accumulates values per key while remembering first-seen order.
type orderedSum[K comparable] struct {
	order []K
	sums  map[K]int64
}

func newOrderedSum[K comparable]() *orderedSum[K] {
	return &orderedSum[K]{sums: make(map[K]int64)}
}

func (o *orderedSum[K]) add(k K, v int64) {
	if _, ok := o.sums[k]; !ok {
		o.order = append(o.order, k)
	}
	o.sums[k] += v
}

// ranked returns keys by descending sum; equal sums keep first-seen order.
func (o *orderedSum[K]) ranked() []K {
	keys := append([]K(nil), o.order...)
	sort.SliceStable(keys, func(i, j int) bool {
		return o.sums[keys[i]] > o.sums[keys[j]]
	})
	return keys
}

func subjectMs(log []domain.Session) *orderedSum[string] {
	sums := newOrderedSum[string]()
	for _, s := range log {
		sums.add(s.Subject, s.DurationMs)
	}
	return sums
}

// SubjectsByFrequency orders every subject in the log by descending total
// time, breaking ties by first appearance. Subjects with zero time are kept
// so that color ranks stay stable.
func SubjectsByFrequency(log []domain.Session) []string {
	return subjectMs(log).ranked()
}

// TotalsBySubject returns total hours per subject in frequency order,
// excluding subjects without recorded time.
func TotalsBySubject(log []domain.Session) []SubjectTotal {
	sums := subjectMs(log)
	order := sums.ranked()
	out := make([]SubjectTotal, 0, len(order))
	for _, subject := range order {
		ms := sums.sums[subject]
		if ms <= 0 {
			continue
		}
		out = append(out, SubjectTotal{
			Subject: subject,
			Hours:   float64(ms) / msPerHour,
			Color:   ColorFor(subject, order),
		})
	}
	return out
}

// TotalsByWeek returns total hours per ISO week in first-seen order.
// Session timestamps are bucketed in loc.
func TotalsByWeek(log []domain.Session, loc *time.Location) []WeekTotal {
	if loc == nil {
		loc = time.Local
	}
	sums := newOrderedSum[WeekKey]()
	for _, s := range log {
		sums.add(WeekOf(s.Timestamp.In(loc)), s.DurationMs)
	}
	out := make([]WeekTotal, 0, len(sums.order))
	for _, k := range sums.order {
		out = append(out, WeekTotal{Key: k, Hours: float64(sums.sums[k]) / msPerHour})
	}
	return out
}
