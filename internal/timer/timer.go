// Package timer implements the elapsed-time stopwatch and the Pomodoro
// countdown. Both are single-threaded state machines driven by the caller.
package timer

import (
	"time"

	"github.com/alexanderramin/scanland/internal/clock"
)

// State is the stopwatch lifecycle state.
type State int

const (
	Idle State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return "idle"
	}
}

// Elapsed is the result of stopping the stopwatch.
type Elapsed struct {
	DurationMs   int64
	PauseSeconds int
}

// Timer accumulates active time across start/pause/resume/stop.
// runStart is non-zero if and only if the timer is Running.
type Timer struct {
	clock       clock.Clock
	state       State
	accumulated int64
	runStart    time.Time
	pausedAt    time.Time
	pausedMs    int64
}

// New creates an idle Timer reading time from c.
func New(c clock.Clock) *Timer {
	return &Timer{clock: c}
}

func (t *Timer) State() State { return t.state }

// Start begins or resumes timing. Returns false when already running.
func (t *Timer) Start() bool {
	if t.state == Running {
		return false
	}
	now := t.clock.Now()
	if t.state == Paused && !t.pausedAt.IsZero() {
		t.pausedMs += msBetween(t.pausedAt, now)
	}
	t.pausedAt = time.Time{}
	t.runStart = now
	t.state = Running
	return true
}

// Pause folds the running interval into the accumulated total.
// Returns false unless the timer was running.
func (t *Timer) Pause() bool {
	if t.state != Running {
		return false
	}
	now := t.clock.Now()
	t.accumulated += msBetween(t.runStart, now)
	t.runStart = time.Time{}
	t.pausedAt = now
	t.state = Paused
	return true
}

// Stop ends the current measurement from any state and resets to Idle.
// A zero DurationMs means there is nothing to record.
func (t *Timer) Stop() Elapsed {
	if t.state == Running {
		t.Pause()
	}
	out := Elapsed{
		DurationMs:   t.accumulated,
		PauseSeconds: int(t.pausedMs / 1000),
	}
	t.Reset()
	return out
}

// Reset discards all accumulated state.
func (t *Timer) Reset() {
	t.state = Idle
	t.accumulated = 0
	t.runStart = time.Time{}
	t.pausedAt = time.Time{}
	t.pausedMs = 0
}

// CurrentDisplayMs returns the accumulated time including the running interval.
func (t *Timer) CurrentDisplayMs() int64 {
	if t.state != Running {
		return t.accumulated
	}
	return t.accumulated + msBetween(t.runStart, t.clock.Now())
}

// msBetween returns to-from in milliseconds, never negative.
func msBetween(from, to time.Time) int64 {
	d := to.Sub(from).Milliseconds()
	if d < 0 {
		return 0
	}
	return d
}
