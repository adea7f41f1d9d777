package repository

import (
	"time"
)

// timeLayout stores instants in UTC with millisecond precision. The fixed
// width keeps lexical order equal to chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Rows written by hand or by older builds may lack milliseconds.
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}

func nowUTC() string {
	return formatTime(time.Now())
}
