package cli

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/service"
	"github.com/alexanderramin/scanland/internal/teatest"
	"github.com/alexanderramin/scanland/internal/timer"
	"github.com/alexanderramin/scanland/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakySessions fails RecordStop while fail is set.
type flakySessions struct {
	service.SessionService
	fail bool
}

func (f *flakySessions) RecordStop(ctx context.Context, durationMs int64, subject, chapter string, pauseSeconds int) (*domain.Session, error) {
	if f.fail {
		return nil, errors.New("disk full")
	}
	return f.SessionService.RecordStop(ctx, durationMs, subject, chapter, pauseSeconds)
}

func newTimerDriver(t *testing.T, app *App, subject string, mode tracker.Mode) (*teatest.Driver, *tracker.Controller) {
	t.Helper()
	ctrl := app.newController()
	ctrl.Select(subject, "")
	require.NoError(t, ctrl.SetMode(mode))
	d := teatest.New(t, newTimerModel(context.Background(), app, ctrl), teatest.WithSize(100, 40))
	return d, ctrl
}

func viewText(d *teatest.Driver) string {
	return ansi.ReplaceAllString(d.View(), "")
}

func listSessions(t *testing.T, app *App) []domain.Session {
	t.Helper()
	log, err := app.Sessions.List(context.Background())
	require.NoError(t, err)
	return log
}

func TestTimerModel_StopwatchRecordsOnStop(t *testing.T) {
	app := testApp(t)
	d, ctrl := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	assert.Contains(t, viewText(d), "idle")
	d.PressSpace()
	assert.True(t, ctrl.Running())
	assert.Contains(t, viewText(d), "running")

	fakeClock(app).Advance(90*time.Second + 400*time.Millisecond)
	d.PressKey('s')

	assert.Contains(t, viewText(d), "Recorded 00:01:30 for Math.")
	log := listSessions(t, app)
	require.Len(t, log, 1)
	assert.EqualValues(t, 90_000, log[0].DurationMs)
	assert.Equal(t, "Math", log[0].Subject)
	assert.False(t, ctrl.Active())
}

func TestTimerModel_StopwatchPauseCounted(t *testing.T) {
	app := testApp(t)
	d, _ := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	d.PressSpace()
	fakeClock(app).Advance(10 * time.Second)
	d.PressKey('p')
	assert.Contains(t, viewText(d), "paused")
	fakeClock(app).Advance(5 * time.Second)
	d.PressSpace()
	fakeClock(app).Advance(10 * time.Second)
	d.PressKey('s')

	log := listSessions(t, app)
	require.Len(t, log, 1)
	assert.EqualValues(t, 20_000, log[0].DurationMs)
	assert.Equal(t, 5, log[0].PauseSeconds)
}

func TestTimerModel_StopWithNothingElapsed(t *testing.T) {
	app := testApp(t)
	d, _ := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	d.PressSpace()
	d.PressKey('s')
	assert.Contains(t, viewText(d), "Nothing recorded.")
	assert.Empty(t, listSessions(t, app))
}

func TestTimerModel_PomodoroRecordsCompletedWork(t *testing.T) {
	app := testApp(t)
	d, ctrl := newTimerDriver(t, app, "", tracker.ModePomodoro)

	d.PressSpace()
	for range 3 {
		d.Send(tickMsg(time.Time{}))
	}

	log := listSessions(t, app)
	require.Len(t, log, 1)
	assert.EqualValues(t, 3_000, log[0].DurationMs)
	assert.Equal(t, domain.FallbackSubject, log[0].Subject)
	assert.Equal(t, timer.PhaseShortBreak, ctrl.Pomodoro().Phase())
	assert.Contains(t, viewText(d), "Work done")

	// Breaks record nothing.
	d.Send(tickMsg(time.Time{}))
	d.Send(tickMsg(time.Time{}))
	assert.Equal(t, timer.PhaseWork, ctrl.Pomodoro().Phase())
	assert.Len(t, listSessions(t, app), 1)
}

func TestTimerModel_PomodoroEarlyStopPrompt(t *testing.T) {
	app := testApp(t)
	d, ctrl := newTimerDriver(t, app, "Math", tracker.ModePomodoro)

	d.PressSpace()
	d.Send(tickMsg(time.Time{}))

	d.PressKey('s')
	assert.Contains(t, viewText(d), "(y/n)")
	assert.False(t, ctrl.Running(), "countdown holds while asking")

	// Keys other than y/n are ignored while the prompt is open.
	d.PressKey('m')
	assert.Equal(t, tracker.ModePomodoro, ctrl.Mode())

	d.PressKey('n')
	assert.True(t, ctrl.Running())
	assert.EqualValues(t, 2_000, ctrl.DisplayMs())

	d.PressKey('s')
	d.PressKey('y')
	assert.False(t, ctrl.Running())
	assert.EqualValues(t, 3_000, ctrl.DisplayMs())
	assert.Contains(t, viewText(d), "partial work discarded")
	assert.Empty(t, listSessions(t, app))
}

func TestTimerModel_ModeSwitchRefusedWhileActive(t *testing.T) {
	app := testApp(t)
	d, ctrl := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	d.PressSpace()
	d.PressKey('m')
	assert.Contains(t, viewText(d), domain.ErrTimerActive.Error())
	assert.Equal(t, tracker.ModeStopwatch, ctrl.Mode())

	fakeClock(app).Advance(2 * time.Second)
	d.PressKey('s')
	d.PressKey('m')
	assert.Equal(t, tracker.ModePomodoro, ctrl.Mode())
	assert.Contains(t, viewText(d), "pomodoro")
}

func TestTimerModel_SubjectAndChapterCycling(t *testing.T) {
	app := testApp(t)
	ctx := context.Background()
	_, _, err := app.Subjects.Add(ctx, "Bio", "Cells")
	require.NoError(t, err)
	_, err = app.Subjects.AddChapter(ctx, "Bio", "DNA")
	require.NoError(t, err)
	_, _, err = app.Subjects.Add(ctx, "Math", "")
	require.NoError(t, err)

	d, ctrl := newTimerDriver(t, app, "", tracker.ModeStopwatch)

	d.PressTab()
	assert.Equal(t, "Bio", ctrl.Subject())
	d.PressKey('c')
	assert.Equal(t, "Cells", ctrl.Chapter())
	d.PressKey('c')
	assert.Equal(t, "DNA", ctrl.Chapter())
	d.PressKey('c')
	assert.Empty(t, ctrl.Chapter())

	d.PressKey('n')
	assert.Equal(t, "Math", ctrl.Subject())
	d.PressKey('c')
	assert.Empty(t, ctrl.Chapter(), "Math has no chapters")
	d.PressTab()
	assert.Empty(t, ctrl.Subject(), "cycling wraps through no subject")
}

func TestTimerModel_ResetPrompt(t *testing.T) {
	app := testApp(t)
	seedSessions(t, app)
	d, ctrl := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	d.PressKey('R')
	assert.Contains(t, viewText(d), "(y/n)")
	d.PressKey('n')
	assert.Contains(t, viewText(d), "Reset cancelled.")
	assert.Len(t, listSessions(t, app), 3)

	d.PressSpace()
	d.PressKey('R')
	d.PressKey('y')
	assert.Empty(t, listSessions(t, app))
	assert.False(t, ctrl.Active())
	assert.Empty(t, ctrl.Subject())
	assert.Contains(t, viewText(d), "All data deleted.")
}

func TestTimerModel_FailedSaveIsKeptForRetry(t *testing.T) {
	app := testApp(t)
	flaky := &flakySessions{SessionService: app.Sessions, fail: true}
	app.Sessions = flaky
	d, ctrl := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	d.PressKey('u')
	assert.Contains(t, viewText(d), "Nothing to retry.")

	d.PressSpace()
	fakeClock(app).Advance(time.Minute)
	d.PressKey('s')
	assert.Contains(t, viewText(d), "disk full")
	assert.Contains(t, viewText(d), "1 session(s) not saved")
	assert.Equal(t, 1, ctrl.UnsavedCount())

	d.PressKey('u')
	assert.Contains(t, viewText(d), "still failing")
	assert.Equal(t, 1, ctrl.UnsavedCount())

	flaky.fail = false
	d.PressKey('u')
	assert.Contains(t, viewText(d), "Saved 1 pending session(s).")
	assert.Equal(t, 0, ctrl.UnsavedCount())
	log := listSessions(t, app)
	require.Len(t, log, 1)
	assert.EqualValues(t, 60_000, log[0].DurationMs)
}

func TestTimerModel_QuitRecordsRunningStopwatch(t *testing.T) {
	app := testApp(t)
	d, _ := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	d.PressSpace()
	fakeClock(app).Advance(42 * time.Second)
	d.PressKey('q')

	assert.True(t, d.Quitting)
	log := listSessions(t, app)
	require.Len(t, log, 1)
	assert.EqualValues(t, 42_000, log[0].DurationMs)
}

func TestTimerModel_QuitDiscardsPartialPomodoro(t *testing.T) {
	app := testApp(t)
	d, _ := newTimerDriver(t, app, "Math", tracker.ModePomodoro)

	d.PressSpace()
	d.Send(tickMsg(time.Time{}))
	d.PressCtrlC()

	assert.True(t, d.Quitting)
	assert.Empty(t, listSessions(t, app))
}

func TestTimerModel_HelpToggle(t *testing.T) {
	app := testApp(t)
	d, _ := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	assert.NotContains(t, viewText(d), "retry unsaved")
	d.PressKey('?')
	assert.Contains(t, viewText(d), "retry unsaved")
}

// --- timer command ---

func TestTimerCmd_ConfiguresController(t *testing.T) {
	app := testApp(t)
	var got timerModel
	app.RunProgram = func(m tea.Model, _ io.Reader, _ io.Writer) error {
		got = m.(timerModel)
		return nil
	}

	out, err := executeCmd(t, app, "timer", "-s", "Math", "-c", "Limits", "--pomodoro", "--now")
	require.NoError(t, err)
	assert.Contains(t, out, "Timer closed.")
	require.NotNil(t, got.ctrl)
	assert.Equal(t, "Math", got.ctrl.Subject())
	assert.Equal(t, "Limits", got.ctrl.Chapter())
	assert.Equal(t, tracker.ModePomodoro, got.ctrl.Mode())
	assert.True(t, got.ctrl.Running())
}

func TestTimerCmd_ReportsUnsavedSessions(t *testing.T) {
	app := testApp(t)
	app.Sessions = &flakySessions{SessionService: app.Sessions, fail: true}
	app.RunProgram = func(m tea.Model, _ io.Reader, _ io.Writer) error {
		tm := m.(timerModel)
		fakeClock(app).Advance(time.Minute)
		_, err := tm.ctrl.Stop(context.Background())
		assert.Error(t, err)
		return nil
	}

	_, err := executeCmd(t, app, "start", "-s", "Math", "--now")
	assert.ErrorContains(t, err, "1 session(s) could not be saved")
}

func TestTimerCmd_ProgramError(t *testing.T) {
	app := testApp(t)
	app.RunProgram = func(tea.Model, io.Reader, io.Writer) error { return errors.New("no tty") }

	_, err := executeCmd(t, app, "timer", "-s", "Math")
	assert.ErrorContains(t, err, "no tty")
}

func TestTimerCmd_InteractivePickerWithoutSubject(t *testing.T) {
	app := testApp(t)
	_, _, err := app.Subjects.Add(context.Background(), "Math", "Limits")
	require.NoError(t, err)

	forms := 0
	app.IsInteractive = func() bool { return true }
	app.RunForm = func(*huh.Form) error {
		forms++
		return nil
	}
	var got timerModel
	app.RunProgram = func(m tea.Model, _ io.Reader, _ io.Writer) error {
		got = m.(timerModel)
		return nil
	}

	_, err = executeCmd(t, app, "timer")
	require.NoError(t, err)
	assert.Equal(t, 1, forms, "picking (none) skips the chapter form")
	assert.Empty(t, got.ctrl.Subject())

	app.RunForm = func(*huh.Form) error { return huh.ErrUserAborted }
	_, err = executeCmd(t, app, "timer")
	assert.ErrorIs(t, err, huh.ErrUserAborted)
}

func TestTimerCmd_UsesCatalogSpelling(t *testing.T) {
	app := testApp(t)
	_, _, err := app.Subjects.Add(context.Background(), "Math", "Limits")
	require.NoError(t, err)

	var got timerModel
	app.RunProgram = func(m tea.Model, _ io.Reader, _ io.Writer) error {
		got = m.(timerModel)
		fakeClock(app).Advance(time.Minute)
		_, err := got.ctrl.Stop(context.Background())
		return err
	}

	_, err = executeCmd(t, app, "timer", "-s", " math ", "-c", "LIMITS", "--now")
	require.NoError(t, err)
	assert.Equal(t, "Math", got.ctrl.Subject())
	assert.Equal(t, "Limits", got.ctrl.Chapter())

	// Unknown subjects are kept as typed.
	_, err = executeCmd(t, app, "timer", "-s", "Chem", "--now")
	require.NoError(t, err)
	assert.Equal(t, "Chem", got.ctrl.Subject())

	log := listSessions(t, app)
	require.Len(t, log, 2)
	assert.Equal(t, "Math", log[0].Subject)

	res, err := app.Subjects.Delete(context.Background(), "Math", true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.SessionsRemoved)
}

func TestTimerModel_QuitDeclinesOpenPrompt(t *testing.T) {
	app := testApp(t)
	seedSessions(t, app)
	d, _ := newTimerDriver(t, app, "Math", tracker.ModeStopwatch)

	d.PressSpace()
	fakeClock(app).Advance(30 * time.Second)
	d.PressKey('R')
	d.PressKey('q')

	assert.True(t, d.Quitting)
	log := listSessions(t, app)
	require.Len(t, log, 4, "reset declined, running stopwatch recorded")
	assert.EqualValues(t, 30_000, log[3].DurationMs)
}

func TestTimerModel_CtrlCDeclinesPomodoroStop(t *testing.T) {
	app := testApp(t)
	d, ctrl := newTimerDriver(t, app, "Math", tracker.ModePomodoro)

	d.PressSpace()
	d.Send(tickMsg(time.Time{}))
	d.PressKey('s')
	d.PressCtrlC()

	assert.True(t, d.Quitting)
	assert.EqualValues(t, 2_000, ctrl.DisplayMs(), "countdown untouched")
	assert.Empty(t, listSessions(t, app))
}
