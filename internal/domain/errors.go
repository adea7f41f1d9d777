package domain

import "errors"

var (
	// ErrEmptySubjectName is returned when a subject name is blank.
	ErrEmptySubjectName = errors.New("subject name is required")

	// ErrEmptyChapterName is returned when a chapter name is blank.
	ErrEmptyChapterName = errors.New("chapter name is required")

	// ErrSubjectNotFound is returned when no subject matches the given name.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrTimerActive is returned when switching timer mode while a timer runs.
	ErrTimerActive = errors.New("stop the active timer before switching mode")

	// ErrNegativeDuration is returned when a session duration is below zero.
	ErrNegativeDuration = errors.New("session duration cannot be negative")
)
