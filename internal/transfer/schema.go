// Package transfer reads and writes the portable export document.
package transfer

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
)

var (
	// ErrInvalidDocument is returned when a document carries neither a
	// sessions nor a subjects list.
	ErrInvalidDocument = errors.New(`invalid document: no "sessions" or "subjects" list found`)

	// ErrMalformedRecord is wrapped by errors describing bad records.
	ErrMalformedRecord = errors.New("malformed record")
)

// Format is the document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	}
	return FormatJSON, false
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON otherwise.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Document is the exported form of the store.
type Document struct {
	ExportedAt string          `json:"exportedAt" yaml:"exportedAt"`
	Sessions   []SessionRecord `json:"sessions" yaml:"sessions"`
	Subjects   []SubjectRecord `json:"subjects" yaml:"subjects"`
}

// SessionRecord is one exported session. Duration repeats DurationMs as
// HH:MM:SS for readers of the raw file.
type SessionRecord struct {
	ID           string `json:"id" yaml:"id"`
	Timestamp    string `json:"timestamp" yaml:"timestamp"`
	Subject      string `json:"subject" yaml:"subject"`
	Chapter      string `json:"chapter" yaml:"chapter"`
	DurationMs   int64  `json:"durationMs" yaml:"durationMs"`
	Duration     string `json:"duration" yaml:"duration"`
	PauseSeconds int    `json:"pauseSeconds" yaml:"pauseSeconds"`
}

// SubjectRecord is one exported subject.
type SubjectRecord struct {
	Name     string   `json:"name" yaml:"name"`
	Chapters []string `json:"chapters" yaml:"chapters"`
}

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NewDocument snapshots sessions and subjects in store order.
func NewDocument(sessions []domain.Session, subjects []domain.Subject, exportedAt time.Time) *Document {
	doc := &Document{
		ExportedAt: exportedAt.UTC().Format(timestampLayout),
		Sessions:   make([]SessionRecord, 0, len(sessions)),
		Subjects:   make([]SubjectRecord, 0, len(subjects)),
	}
	for _, s := range sessions {
		doc.Sessions = append(doc.Sessions, SessionRecord{
			ID:           s.ID,
			Timestamp:    s.Timestamp.UTC().Format(timestampLayout),
			Subject:      s.Subject,
			Chapter:      s.Chapter,
			DurationMs:   s.DurationMs,
			Duration:     domain.FormatHMS(s.DurationMs),
			PauseSeconds: s.PauseSeconds,
		})
	}
	for _, s := range subjects {
		chapters := s.Chapters
		if chapters == nil {
			chapters = []string{}
		}
		doc.Subjects = append(doc.Subjects, SubjectRecord{Name: s.Name, Chapters: chapters})
	}
	return doc
}

// Payload is a decoded, normalized document. A false Has flag means the
// key was absent, which replace imports treat as "clear".
type Payload struct {
	Sessions    []domain.Session
	Subjects    []domain.Subject
	HasSessions bool
	HasSubjects bool
}
