// Package tracker owns the live timing state of one study process: the
// stopwatch, the optional Pomodoro countdown, the subject/chapter selection
// and the path that turns finished timings into recorded sessions.
package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/clock"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/timer"
)

// Recorder persists a finished timing. A zero duration records nothing and
// returns a nil session.
type Recorder interface {
	RecordStop(ctx context.Context, durationMs int64, subject, chapter string, pauseSeconds int) (*domain.Session, error)
}

// Mode selects between free-running timing and the Pomodoro countdown.
type Mode int

const (
	ModeStopwatch Mode = iota
	ModePomodoro
)

func (m Mode) String() string {
	if m == ModePomodoro {
		return "pomodoro"
	}
	return "stopwatch"
}

// pendingSession is a timing the recorder failed to persist.
type pendingSession struct {
	durationMs   int64
	subject      string
	chapter      string
	pauseSeconds int
}

// Controller is the single owner of the ephemeral timer state.
type Controller struct {
	clock     clock.Clock
	recorder  Recorder
	stopwatch *timer.Timer
	pomodoro  *timer.Pomodoro
	mode      Mode

	subject string
	chapter string

	// resumeAfterPrompt remembers whether the countdown was running when a
	// stop confirmation paused it.
	resumeAfterPrompt bool
	unsaved           []pendingSession
}

// New creates a Controller in stopwatch mode.
func New(c clock.Clock, recorder Recorder, cfg timer.PomodoroConfig) *Controller {
	return &Controller{
		clock:     c,
		recorder:  recorder,
		stopwatch: timer.New(c),
		pomodoro:  timer.NewPomodoro(cfg),
	}
}

func (c *Controller) Mode() Mode                { return c.mode }
func (c *Controller) Subject() string           { return c.subject }
func (c *Controller) Chapter() string           { return c.chapter }
func (c *Controller) Stopwatch() *timer.Timer   { return c.stopwatch }
func (c *Controller) Pomodoro() *timer.Pomodoro { return c.pomodoro }
func (c *Controller) UnsavedCount() int         { return len(c.unsaved) }

// Select sets the subject and chapter attached to the next recorded session.
func (c *Controller) Select(subject, chapter string) {
	c.subject = strings.TrimSpace(subject)
	c.chapter = strings.TrimSpace(chapter)
}

// Active reports whether any timer is running or holding progress.
func (c *Controller) Active() bool {
	if c.mode == ModePomodoro {
		return c.pomodoro.Running() || c.pomodoro.NeedsStopConfirmation() || c.pomodoro.Cycles() > 0
	}
	return c.stopwatch.State() != timer.Idle
}

// Running reports whether time is currently being counted.
func (c *Controller) Running() bool {
	if c.mode == ModePomodoro {
		return c.pomodoro.Running()
	}
	return c.stopwatch.State() == timer.Running
}

// SetMode switches between stopwatch and Pomodoro. Switching is refused
// while a timer is active. Entering Pomodoro resets the countdown; leaving
// it discards the countdown without recording anything.
func (c *Controller) SetMode(m Mode) error {
	if m == c.mode {
		return nil
	}
	if c.Active() {
		return domain.ErrTimerActive
	}
	c.pomodoro.Reset()
	c.stopwatch.Reset()
	c.mode = m
	return nil
}

// TogglePomodoro flips between the two modes.
func (c *Controller) TogglePomodoro() error {
	if c.mode == ModePomodoro {
		return c.SetMode(ModeStopwatch)
	}
	return c.SetMode(ModePomodoro)
}

// Start starts or resumes the active timer. Returns false if it was
// already running.
func (c *Controller) Start() bool {
	if c.mode == ModePomodoro {
		return c.pomodoro.Start()
	}
	return c.stopwatch.Start()
}

// Pause holds the active timer. Returns false if it was not running.
func (c *Controller) Pause() bool {
	if c.mode == ModePomodoro {
		return c.pomodoro.Pause()
	}
	return c.stopwatch.Pause()
}

// TogglePause resumes a held timer or holds a running one.
func (c *Controller) TogglePause() {
	if c.Running() {
		c.Pause()
		return
	}
	c.Start()
}

// DisplayMs returns the value shown on the clock face: elapsed time in
// stopwatch mode, remaining time in Pomodoro mode.
func (c *Controller) DisplayMs() int64 {
	if c.mode == ModePomodoro {
		return c.pomodoro.RemainingMs()
	}
	return c.stopwatch.CurrentDisplayMs()
}

// Stop ends the stopwatch and records the session. Sub-second remainders
// are dropped, so a stop with less than one second of activity records
// nothing. Returns a nil session when nothing was recorded.
func (c *Controller) Stop(ctx context.Context) (*domain.Session, error) {
	if c.mode != ModeStopwatch {
		return nil, fmt.Errorf("stop is only available in stopwatch mode")
	}
	elapsed := c.stopwatch.Stop()
	whole := (elapsed.DurationMs / 1000) * 1000
	if whole == 0 {
		return nil, nil
	}
	return c.record(ctx, pendingSession{
		durationMs:   whole,
		subject:      c.subject,
		chapter:      c.chapter,
		pauseSeconds: elapsed.PauseSeconds,
	})
}

// Tick advances the Pomodoro countdown by interval and records a session
// for every completed work phase.
func (c *Controller) Tick(ctx context.Context, interval time.Duration) (*timer.Completion, *domain.Session, error) {
	if c.mode != ModePomodoro {
		return nil, nil, nil
	}
	done, ok := c.pomodoro.Tick(interval)
	if !ok {
		return nil, nil, nil
	}
	if !done.WorkDone() {
		return &done, nil, nil
	}
	sess, err := c.record(ctx, pendingSession{
		durationMs: done.WorkMs,
		subject:    domain.CoalesceStr(c.subject, domain.FallbackSubject),
		chapter:    c.chapter,
	})
	return &done, sess, err
}

// RequestPomodoroStop begins an early stop. When partial work progress
// would be lost the countdown is held and true is returned: the caller
// must then call ConfirmPomodoroStop with the user's answer.
func (c *Controller) RequestPomodoroStop() bool {
	if c.mode != ModePomodoro {
		return false
	}
	if !c.pomodoro.NeedsStopConfirmation() {
		c.pomodoro.StopEarly(true)
		return false
	}
	c.resumeAfterPrompt = c.pomodoro.Pause()
	return true
}

// ConfirmPomodoroStop applies the user's answer to a pending early stop.
// Declining resumes the countdown exactly where it was.
func (c *Controller) ConfirmPomodoroStop(confirmed bool) {
	resume := c.resumeAfterPrompt
	c.resumeAfterPrompt = false
	if c.pomodoro.StopEarly(confirmed) {
		return
	}
	if resume {
		c.pomodoro.Start()
	}
}

// Reset discards all ephemeral timer state, including unsaved sessions.
func (c *Controller) Reset() {
	c.stopwatch.Reset()
	c.pomodoro.Reset()
	c.resumeAfterPrompt = false
	c.unsaved = nil
}

// RetryUnsaved tries to persist sessions that failed earlier. Sessions that
// fail again stay queued.
func (c *Controller) RetryUnsaved(ctx context.Context) (int, error) {
	queued := c.unsaved
	c.unsaved = nil
	saved := 0
	var firstErr error
	for _, p := range queued {
		if _, err := c.record(ctx, p); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		saved++
	}
	return saved, firstErr
}

func (c *Controller) record(ctx context.Context, p pendingSession) (*domain.Session, error) {
	sess, err := c.recorder.RecordStop(ctx, p.durationMs, p.subject, p.chapter, p.pauseSeconds)
	if err != nil {
		c.unsaved = append(c.unsaved, p)
		return nil, fmt.Errorf("recording session (kept for retry): %w", err)
	}
	return sess, nil
}
