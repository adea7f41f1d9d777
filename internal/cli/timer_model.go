package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/timer"
	"github.com/alexanderramin/scanland/internal/tracker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type timerKeys struct {
	Toggle  key.Binding
	Stop    key.Binding
	Mode    key.Binding
	Subject key.Binding
	Chapter key.Binding
	Retry   key.Binding
	Reset   key.Binding
	Help    key.Binding
	Quit    key.Binding
	Yes     key.Binding
	No      key.Binding
}

func newTimerKeys() timerKeys {
	return timerKeys{
		Toggle:  key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "start/pause")),
		Stop:    key.NewBinding(key.WithKeys("s", "x"), key.WithHelp("s", "stop")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pomodoro on/off")),
		Subject: key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab", "next subject")),
		Chapter: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next chapter")),
		Retry:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "retry unsaved")),
		Reset:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset all data")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Yes:     key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
		No:      key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
	}
}

func (k timerKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Stop, k.Mode, k.Subject, k.Help, k.Quit}
}

func (k timerKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Stop, k.Mode},
		{k.Subject, k.Chapter},
		{k.Retry, k.Reset, k.Quit},
	}
}

type promptKind int

const (
	promptNone promptKind = iota
	promptStopPomodoro
	promptReset
)

type tickMsg time.Time

type subjectsLoadedMsg struct {
	subjects []domain.Subject
	err      error
}

// timerModel is the live timer screen. All timing state lives in the
// controller; the model only maps keys and ticks onto it.
type timerModel struct {
	ctx      context.Context
	app      *App
	ctrl     *tracker.Controller
	interval time.Duration
	keys     timerKeys
	help     help.Model
	subjects []domain.Subject

	prompt    promptKind
	status    string
	statusErr bool
}

func newTimerModel(ctx context.Context, app *App, ctrl *tracker.Controller) timerModel {
	interval := app.Config.TickInterval
	if interval <= 0 {
		interval = time.Second
	}
	return timerModel{
		ctx:      ctx,
		app:      app,
		ctrl:     ctrl,
		interval: interval,
		keys:     newTimerKeys(),
		help:     help.New(),
	}
}

func (m timerModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m timerModel) loadSubjects() tea.Cmd {
	return func() tea.Msg {
		subjects, err := m.app.Subjects.List(m.ctx)
		return subjectsLoadedMsg{subjects: subjects, err: err}
	}
}

func (m timerModel) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.loadSubjects())
}

func (m timerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case subjectsLoadedMsg:
		if msg.err != nil {
			m.setError(fmt.Errorf("loading subjects: %w", msg.err))
			return m, nil
		}
		m.subjects = msg.subjects
		return m, nil

	case tickMsg:
		m.onTick()
		return m, m.tick()

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.handlePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *timerModel) onTick() {
	done, sess, err := m.ctrl.Tick(m.ctx, m.interval)
	if err != nil {
		m.setError(err)
		return
	}
	if done == nil {
		return
	}
	if sess != nil {
		m.setStatus(fmt.Sprintf("%s done, %s recorded for %s. %s starts.",
			done.Completed.Label(), domain.FormatHMS(sess.DurationMs), sess.SubjectLabel(), done.Next.Label()))
		return
	}
	m.setStatus(fmt.Sprintf("%s over. %s starts.", done.Completed.Label(), done.Next.Label()))
}

func (m timerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		wasRunning := m.ctrl.Running()
		m.ctrl.TogglePause()
		if wasRunning {
			m.setStatus("Paused.")
		} else {
			m.setStatus("Running.")
		}

	case key.Matches(msg, m.keys.Stop):
		m.stop()

	case key.Matches(msg, m.keys.Mode):
		if err := m.ctrl.TogglePomodoro(); err != nil {
			m.setError(err)
			break
		}
		m.setStatus("Mode: " + m.ctrl.Mode().String() + ".")

	case key.Matches(msg, m.keys.Subject):
		m.ctrl.Select(m.nextSubject(), "")

	case key.Matches(msg, m.keys.Chapter):
		m.ctrl.Select(m.ctrl.Subject(), m.nextChapter())

	case key.Matches(msg, m.keys.Retry):
		if m.ctrl.UnsavedCount() == 0 {
			m.setStatus("Nothing to retry.")
			break
		}
		saved, err := m.ctrl.RetryUnsaved(m.ctx)
		if err != nil {
			m.setError(fmt.Errorf("saved %d, still failing: %w", saved, err))
			break
		}
		m.setStatus(fmt.Sprintf("Saved %d pending session(s).", saved))

	case key.Matches(msg, m.keys.Reset):
		m.prompt = promptReset

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// handlePrompt answers the open confirmation. Quit keys decline it and
// then leave.
func (m timerModel) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	quit := key.Matches(msg, m.keys.Quit)
	yes := !quit && key.Matches(msg, m.keys.Yes)
	if !yes && !quit && !key.Matches(msg, m.keys.No) {
		return m, nil
	}
	kind := m.prompt
	m.prompt = promptNone

	switch kind {
	case promptStopPomodoro:
		m.ctrl.ConfirmPomodoroStop(yes)
		if yes {
			m.setStatus("Pomodoro stopped, partial work discarded.")
		} else {
			m.setStatus("Pomodoro continues.")
		}
	case promptReset:
		if !yes {
			m.setStatus("Reset cancelled.")
			break
		}
		if _, err := m.app.Data.Reset(m.ctx, true); err != nil {
			m.setError(err)
			break
		}
		m.ctrl.Reset()
		m.subjects = nil
		m.ctrl.Select("", "")
		m.setStatus("All data deleted.")
	}
	if quit {
		m.finish()
		return m, tea.Quit
	}
	return m, nil
}

func (m *timerModel) stop() {
	if m.ctrl.Mode() == tracker.ModePomodoro {
		if m.ctrl.RequestPomodoroStop() {
			m.prompt = promptStopPomodoro
			return
		}
		m.setStatus("Pomodoro stopped.")
		return
	}
	sess, err := m.ctrl.Stop(m.ctx)
	if err != nil {
		m.setError(err)
		return
	}
	if sess == nil {
		m.setStatus("Nothing recorded.")
		return
	}
	m.setStatus(fmt.Sprintf("Recorded %s for %s.", domain.FormatHMS(sess.DurationMs), sess.SubjectLabel()))
}

// finish records a stopwatch that still holds time before leaving.
func (m *timerModel) finish() {
	if m.ctrl.Mode() == tracker.ModeStopwatch && m.ctrl.Active() {
		m.stop()
	}
}

func (m timerModel) nextSubject() string {
	if len(m.subjects) == 0 {
		return m.ctrl.Subject()
	}
	current := m.ctrl.Subject()
	if current == "" {
		return m.subjects[0].Name
	}
	for i, s := range m.subjects {
		if s.Matches(current) {
			if i+1 < len(m.subjects) {
				return m.subjects[i+1].Name
			}
			return ""
		}
	}
	return m.subjects[0].Name
}

func (m timerModel) nextChapter() string {
	subject := findSubject(m.subjects, m.ctrl.Subject())
	if subject == nil || len(subject.Chapters) == 0 {
		return ""
	}
	current := m.ctrl.Chapter()
	if current == "" {
		return subject.Chapters[0]
	}
	for i, c := range subject.Chapters {
		if c == current && i+1 < len(subject.Chapters) {
			return subject.Chapters[i+1]
		}
	}
	return ""
}

func (m *timerModel) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *timerModel) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m timerModel) face() formatter.TimerFace {
	f := formatter.TimerFace{
		DisplayMs: m.ctrl.DisplayMs(),
		Running:   m.ctrl.Running(),
		Pomodoro:  m.ctrl.Mode() == tracker.ModePomodoro,
		Subject:   m.ctrl.Subject(),
		Chapter:   m.ctrl.Chapter(),
		Unsaved:   m.ctrl.UnsavedCount(),
	}
	if f.Pomodoro {
		p := m.ctrl.Pomodoro()
		f.Phase = p.Phase()
		f.BudgetMs = p.Config().Budget(p.Phase())
		f.Cycles = p.Cycles()
	} else {
		f.Phase = timer.PhaseWork
	}
	return f
}

func (m timerModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header("scanland") + "\n\n")
	b.WriteString(formatter.FormatTimerFace(m.face()))
	b.WriteString("\n")

	switch m.prompt {
	case promptStopPomodoro:
		b.WriteString(formatter.StyleYellow.Render("Stop now and discard the current work phase? (y/n)") + "\n")
	case promptReset:
		b.WriteString(formatter.StyleRed.Render("Delete ALL sessions and subjects? (y/n)") + "\n")
	default:
		if m.statusErr {
			b.WriteString(formatter.StyleRed.Render("✖ "+m.status) + "\n")
		} else if m.status != "" {
			b.WriteString(formatter.Dim(m.status) + "\n")
		} else {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n" + m.help.View(m.keys) + "\n")
	return b.String()
}
