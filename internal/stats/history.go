package stats

import (
	"sort"

	"github.com/alexanderramin/scanland/internal/domain"
)

// SubjectGroup is one block of the grouped history view.
type SubjectGroup struct {
	Label        string
	TotalSeconds int64
	// Sessions are newest first.
	Sessions []domain.Session
}

// GroupBySubject groups the log by subject label, sorted by label, with
// each group's sessions in reverse log order.
func GroupBySubject(log []domain.Session) []SubjectGroup {
	idx := make(map[string]int)
	var groups []SubjectGroup
	for i := len(log) - 1; i >= 0; i-- {
		s := log[i]
		label := s.SubjectLabel()
		gi, ok := idx[label]
		if !ok {
			gi = len(groups)
			idx[label] = gi
			groups = append(groups, SubjectGroup{Label: label})
		}
		groups[gi].Sessions = append(groups[gi].Sessions, s)
		groups[gi].TotalSeconds += s.Seconds()
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Label < groups[j].Label })
	return groups
}

// Newest returns the log in reverse order.
func Newest(log []domain.Session) []domain.Session {
	out := make([]domain.Session, len(log))
	for i, s := range log {
		out[len(log)-1-i] = s
	}
	return out
}
