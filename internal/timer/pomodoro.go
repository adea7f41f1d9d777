package timer

import (
	"fmt"
	"time"
)

// Phase is a Pomodoro cycle phase.
type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "short_break"
	PhaseLongBreak  Phase = "long_break"
)

func (p Phase) Label() string {
	switch p {
	case PhaseShortBreak:
		return "Short break"
	case PhaseLongBreak:
		return "Long break"
	default:
		return "Work"
	}
}

// PomodoroConfig holds phase budgets and the long-break cadence.
type PomodoroConfig struct {
	Work           time.Duration
	ShortBreak     time.Duration
	LongBreak      time.Duration
	LongBreakEvery int
}

// DefaultPomodoroConfig returns the classic 25/5/15 cadence with a long
// break after every fourth work phase.
func DefaultPomodoroConfig() PomodoroConfig {
	return PomodoroConfig{
		Work:           25 * time.Minute,
		ShortBreak:     5 * time.Minute,
		LongBreak:      15 * time.Minute,
		LongBreakEvery: 4,
	}
}

// Validate checks that every budget is positive.
func (c PomodoroConfig) Validate() error {
	if c.Work <= 0 || c.ShortBreak <= 0 || c.LongBreak <= 0 {
		return fmt.Errorf("pomodoro durations must be positive (work=%s short=%s long=%s)", c.Work, c.ShortBreak, c.LongBreak)
	}
	if c.LongBreakEvery <= 0 {
		return fmt.Errorf("pomodoro long break cadence must be positive, got %d", c.LongBreakEvery)
	}
	return nil
}

// Budget returns the duration of phase in milliseconds.
func (c PomodoroConfig) Budget(p Phase) int64 {
	switch p {
	case PhaseShortBreak:
		return c.ShortBreak.Milliseconds()
	case PhaseLongBreak:
		return c.LongBreak.Milliseconds()
	default:
		return c.Work.Milliseconds()
	}
}

// Completion describes a phase that ran out during a Tick.
type Completion struct {
	Completed Phase
	Next      Phase
	// WorkMs is the work budget credited when Completed is PhaseWork.
	WorkMs int64
	Cycles int
}

// WorkDone reports whether the completed phase was a work phase.
func (c Completion) WorkDone() bool { return c.Completed == PhaseWork }

// Pomodoro counts down fixed phase budgets and advances phases on its own.
// remaining never exceeds the current phase budget.
type Pomodoro struct {
	cfg       PomodoroConfig
	phase     Phase
	cycles    int
	remaining int64
	running   bool
}

// NewPomodoro returns a stopped scheduler at the start of a work phase.
func NewPomodoro(cfg PomodoroConfig) *Pomodoro {
	p := &Pomodoro{cfg: cfg}
	p.Reset()
	return p
}

func (p *Pomodoro) Config() PomodoroConfig { return p.cfg }
func (p *Pomodoro) Phase() Phase           { return p.phase }
func (p *Pomodoro) Cycles() int            { return p.cycles }
func (p *Pomodoro) RemainingMs() int64     { return p.remaining }
func (p *Pomodoro) Running() bool          { return p.running }

// Reset returns to a stopped work phase with no completed cycles.
func (p *Pomodoro) Reset() {
	p.phase = PhaseWork
	p.cycles = 0
	p.remaining = p.cfg.Budget(PhaseWork)
	p.running = false
}

// Start runs the countdown. Returns false when already running.
func (p *Pomodoro) Start() bool {
	if p.running {
		return false
	}
	p.running = true
	return true
}

// Pause holds the countdown. Returns false when not running.
func (p *Pomodoro) Pause() bool {
	if !p.running {
		return false
	}
	p.running = false
	return true
}

// Tick consumes interval of countdown time. When the phase budget runs out
// the next phase starts immediately and the completion is returned.
func (p *Pomodoro) Tick(interval time.Duration) (Completion, bool) {
	if !p.running || interval <= 0 {
		return Completion{}, false
	}
	p.remaining -= interval.Milliseconds()
	if p.remaining > 0 {
		return Completion{}, false
	}
	p.remaining = 0
	return p.complete(), true
}

func (p *Pomodoro) complete() Completion {
	done := Completion{Completed: p.phase}
	if p.phase == PhaseWork {
		p.cycles++
		done.WorkMs = p.cfg.Budget(PhaseWork)
		if p.cycles%p.cfg.LongBreakEvery == 0 {
			p.phase = PhaseLongBreak
		} else {
			p.phase = PhaseShortBreak
		}
	} else {
		p.phase = PhaseWork
	}
	done.Next = p.phase
	done.Cycles = p.cycles
	p.remaining = p.cfg.Budget(p.phase)
	p.running = true
	return done
}

// NeedsStopConfirmation reports whether stopping now would discard
// partial work-phase progress.
func (p *Pomodoro) NeedsStopConfirmation() bool {
	return p.phase == PhaseWork && p.remaining < p.cfg.Budget(PhaseWork)
}

// StopEarly stops the countdown. When partial work progress exists and
// confirmed is false, the countdown is left untouched and false is
// returned. Otherwise the scheduler resets to a stopped work phase.
func (p *Pomodoro) StopEarly(confirmed bool) bool {
	if p.NeedsStopConfirmation() && !confirmed {
		return false
	}
	p.Reset()
	return true
}
