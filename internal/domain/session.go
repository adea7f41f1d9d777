package domain

import "time"

// FallbackSubject labels Pomodoro sessions recorded without a selected subject.
const FallbackSubject = "Unassigned"

// NoSubjectLabel is the display label for sessions with an empty subject.
const NoSubjectLabel = "No subject"

// Session is one completed, timed study interval. Sessions are created once
// when a timer stops and are never mutated afterwards.
type Session struct {
	ID           string
	Timestamp    time.Time
	Subject      string
	Chapter      string
	DurationMs   int64
	PauseSeconds int
}

// Seconds returns the session duration rounded to the nearest whole second.
func (s Session) Seconds() int64 {
	return (s.DurationMs + 500) / 1000
}

// Hours returns the session duration in fractional hours.
func (s Session) Hours() float64 {
	return float64(s.DurationMs) / float64(time.Hour/time.Millisecond)
}

// SubjectLabel returns the subject, or NoSubjectLabel when it is empty.
func (s Session) SubjectLabel() string {
	return CoalesceStr(s.Subject, NoSubjectLabel)
}
