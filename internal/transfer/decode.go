package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
	"gopkg.in/yaml.v3"
)

// sessionWire accepts both current field names and the ones written by the
// legacy browser tracker (date, matiere, chapitre, duree, dureeMs, pauses).
type sessionWire struct {
	ID           string   `json:"id"`
	Timestamp    string   `json:"timestamp"`
	Date         string   `json:"date"`
	Subject      string   `json:"subject"`
	Matiere      string   `json:"matiere"`
	Chapter      string   `json:"chapter"`
	Chapitre     string   `json:"chapitre"`
	DurationMs   *float64 `json:"durationMs"`
	DureeMs      *float64 `json:"dureeMs"`
	Duration     string   `json:"duration"`
	Duree        string   `json:"duree"`
	PauseSeconds *int     `json:"pauseSeconds"`
	Pauses       string   `json:"pauses"`
}

type subjectWire struct {
	Name     string   `json:"name"`
	Chapters []string `json:"chapters"`
}

// Decode parses data in the given format and normalizes every record.
// Either the whole document is valid or an error is returned.
func Decode(data []byte, f Format) (*Payload, error) {
	if f == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrInvalidDocument
		}
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	rawSessions, hasSessions := top["sessions"]
	rawSubjects, hasSubjects := top["subjects"]
	hasSessions = hasSessions && isList(rawSessions)
	hasSubjects = hasSubjects && isList(rawSubjects)
	if !hasSessions && !hasSubjects {
		return nil, ErrInvalidDocument
	}

	p := &Payload{HasSessions: hasSessions, HasSubjects: hasSubjects}
	var errs []error

	if hasSessions {
		var wires []sessionWire
		if err := json.Unmarshal(rawSessions, &wires); err != nil {
			return nil, fmt.Errorf("parsing sessions: %w", err)
		}
		p.Sessions = make([]domain.Session, 0, len(wires))
		for i, w := range wires {
			s, err := w.normalize()
			if err != nil {
				errs = append(errs, fmt.Errorf("sessions[%d]: %w", i, err))
				continue
			}
			p.Sessions = append(p.Sessions, s)
		}
	}

	if hasSubjects {
		var wires []subjectWire
		if err := json.Unmarshal(rawSubjects, &wires); err != nil {
			return nil, fmt.Errorf("parsing subjects: %w", err)
		}
		p.Subjects = normalizeSubjects(wires)
	}

	if len(errs) > 0 {
		return nil, formatRecordErrors(errs)
	}
	return p, nil
}

func isList(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("converting yaml document: %w", err)
	}
	return out, nil
}

func (w sessionWire) normalize() (domain.Session, error) {
	s := domain.Session{
		ID:      w.ID,
		Subject: domain.CoalesceStr(w.Subject, w.Matiere),
		Chapter: domain.CoalesceStr(w.Chapter, w.Chapitre),
	}

	stamp := domain.CoalesceStr(w.Timestamp, w.Date)
	if stamp == "" {
		return s, fmt.Errorf("%w: missing timestamp", ErrMalformedRecord)
	}
	ts, err := time.Parse(time.RFC3339Nano, stamp)
	if err != nil {
		return s, fmt.Errorf("%w: timestamp %q: %v", ErrMalformedRecord, stamp, err)
	}
	s.Timestamp = ts.UTC().Truncate(time.Millisecond)

	ms, err := w.durationMs()
	if err != nil {
		return s, err
	}
	s.DurationMs = ms

	pause, err := w.pauseSeconds()
	if err != nil {
		return s, err
	}
	s.PauseSeconds = pause
	return s, nil
}

// maxDurationMs keeps a decoded length representable as a time.Duration.
const maxDurationMs = float64(math.MaxInt64 / int64(time.Millisecond))

// durationMs prefers a positive millisecond count and falls back to the
// HH:MM:SS string. A record with neither lasts zero.
func (w sessionWire) durationMs() (int64, error) {
	for _, v := range []*float64{w.DurationMs, w.DureeMs} {
		if v == nil {
			continue
		}
		if *v < 0 || math.IsNaN(*v) {
			return 0, fmt.Errorf("%w: negative duration %v", ErrMalformedRecord, *v)
		}
		if *v > maxDurationMs {
			return 0, fmt.Errorf("%w: duration %v out of range", ErrMalformedRecord, *v)
		}
		if *v > 0 {
			return int64(math.Round(*v)), nil
		}
	}
	hms := domain.CoalesceStr(w.Duration, w.Duree)
	if hms == "" {
		return 0, nil
	}
	ms, err := domain.ParseHMS(hms)
	if err != nil {
		return 0, fmt.Errorf("%w: duration: %v", ErrMalformedRecord, err)
	}
	return ms, nil
}

func (w sessionWire) pauseSeconds() (int, error) {
	if w.PauseSeconds != nil {
		if *w.PauseSeconds < 0 {
			return 0, fmt.Errorf("%w: negative pause %d", ErrMalformedRecord, *w.PauseSeconds)
		}
		return *w.PauseSeconds, nil
	}
	if w.Pauses == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(w.Pauses), "s"))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: pauses %q", ErrMalformedRecord, w.Pauses)
	}
	return n, nil
}

// normalizeSubjects drops nameless entries and folds case-insensitive
// duplicates into the first occurrence.
func normalizeSubjects(wires []subjectWire) []domain.Subject {
	out := make([]domain.Subject, 0, len(wires))
	index := make(map[string]int)
	for _, w := range wires {
		name := strings.TrimSpace(w.Name)
		if name == "" {
			continue
		}
		key := domain.SubjectKey(name)
		if i, ok := index[key]; ok {
			out[i].MergeChapters(w.Chapters)
			continue
		}
		s := domain.Subject{Name: name, Chapters: []string{}}
		s.MergeChapters(w.Chapters)
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}

func formatRecordErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%w: %s", ErrMalformedRecord, msg)
}
