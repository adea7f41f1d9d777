package cli

import (
	"io"

	"github.com/alexanderramin/scanland/internal/clock"
	"github.com/alexanderramin/scanland/internal/config"
	"github.com/alexanderramin/scanland/internal/service"
	"github.com/alexanderramin/scanland/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sessions service.SessionService
	Subjects service.SubjectService
	Data     service.DataService
	Stats    service.StatsService
	Config   config.Config
	Clock    clock.Clock
	Version  string

	// IsInteractive reports whether prompts can be shown. Nil means no.
	IsInteractive func() bool

	// RunForm runs a huh form. Tests replace it to answer prompts.
	RunForm func(*huh.Form) error
	// WriteClipboard copies text to the system clipboard.
	WriteClipboard func(string) error
	// RunProgram runs a full-screen bubbletea model.
	RunProgram func(m tea.Model, in io.Reader, out io.Writer) error
	// ServeMCP serves the statistics tools over stdio.
	ServeMCP func() error
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runForm(f *huh.Form) error {
	if a.RunForm != nil {
		return a.RunForm(f)
	}
	return f.Run()
}

func (a *App) now() clock.Clock {
	if a.Clock == nil {
		return clock.System{}
	}
	return a.Clock
}

// newController builds the live timing state for one timer screen.
func (a *App) newController() *tracker.Controller {
	return tracker.New(a.now(), a.Sessions, a.Config.Pomodoro)
}

// NewRootCmd creates the top-level "scanland" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "scanland",
		Short:         "Study-time tracker with Pomodoro timer, history and charts",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var globals GlobalFlags
	bindGlobalFlags(root.PersistentFlags(), &globals)

	root.AddCommand(
		newTimerCmd(app),
		newSubjectCmd(app),
		newHistoryCmd(app),
		newStatsCmd(app),
		newChartCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newResetCmd(app),
		newServeMCPCmd(app),
	)

	return root
}
