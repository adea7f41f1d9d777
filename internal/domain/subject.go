package domain

import "strings"

// Subject groups sessions; chapters are ordered and unique within a subject.
type Subject struct {
	Name     string
	Chapters []string
}

// SubjectKey normalizes a subject name into its case-insensitive identity.
func SubjectKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Matches reports whether name refers to this subject.
func (s *Subject) Matches(name string) bool {
	return SubjectKey(s.Name) == SubjectKey(name)
}

// HasChapter reports whether the chapter already exists in the subject.
func (s *Subject) HasChapter(chapter string) bool {
	for _, c := range s.Chapters {
		if c == chapter {
			return true
		}
	}
	return false
}

// AddChapter appends chapter unless it is already present.
// Returns true when the chapter was added.
func (s *Subject) AddChapter(chapter string) bool {
	if chapter == "" || s.HasChapter(chapter) {
		return false
	}
	s.Chapters = append(s.Chapters, chapter)
	return true
}

// MergeChapters unions chapters into the subject, keeping existing ones first.
func (s *Subject) MergeChapters(chapters []string) {
	for _, c := range chapters {
		s.AddChapter(c)
	}
}

// NewSubject validates and builds a subject with an optional first chapter.
func NewSubject(name, chapter string) (*Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptySubjectName
	}
	s := &Subject{Name: name, Chapters: []string{}}
	s.AddChapter(strings.TrimSpace(chapter))
	return s, nil
}
