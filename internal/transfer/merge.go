package transfer

import (
	"github.com/alexanderramin/scanland/internal/domain"
)

// AssignIDs gives every session a unique id. Sessions without an id, or
// whose id is already in taken or earlier in the slice, get one from newID.
// taken is extended with the ids in use.
func AssignIDs(sessions []domain.Session, taken map[string]struct{}, newID func() string) {
	for i := range sessions {
		id := sessions[i].ID
		if _, dup := taken[id]; id == "" || dup {
			id = newID()
			for {
				if _, dup := taken[id]; !dup {
					break
				}
				id = newID()
			}
			sessions[i].ID = id
		}
		taken[id] = struct{}{}
	}
}

// MergeSubjects unions incoming into existing by case-insensitive name.
// Existing subjects keep their spelling and position; their chapters come
// first, followed by new ones without duplicates. Unknown subjects are
// appended in incoming order.
func MergeSubjects(existing, incoming []domain.Subject) []domain.Subject {
	out := make([]domain.Subject, 0, len(existing)+len(incoming))
	index := make(map[string]int)
	for _, s := range append(append([]domain.Subject(nil), existing...), incoming...) {
		key := domain.SubjectKey(s.Name)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			out[i].MergeChapters(s.Chapters)
			continue
		}
		merged := domain.Subject{Name: s.Name, Chapters: []string{}}
		merged.MergeChapters(s.Chapters)
		index[key] = len(out)
		out = append(out, merged)
	}
	return out
}
