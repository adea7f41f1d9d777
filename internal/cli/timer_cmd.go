package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/alexanderramin/scanland/internal/tracker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTimerCmd(app *App) *cobra.Command {
	var sel selection
	var pomodoro, start bool

	cmd := &cobra.Command{
		Use:     "timer",
		Aliases: []string{"start"},
		Short:   "Run the live study timer",
		Long: `Run the live study timer.

The stopwatch records a session when stopped. In Pomodoro mode every
completed work phase is recorded and breaks follow automatically.
Without --subject an interactive terminal asks which subject to track.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if sel.empty() && app.interactive() {
				picked, err := pickSelection(ctx, app)
				if err != nil {
					return err
				}
				sel = picked
			}
			resolved, err := resolveSelection(ctx, app, sel)
			if err != nil {
				return err
			}

			ctrl := app.newController()
			ctrl.Select(resolved.Subject, resolved.Chapter)
			if pomodoro {
				if err := ctrl.SetMode(tracker.ModePomodoro); err != nil {
					return err
				}
			}
			if start {
				ctrl.Start()
			}

			run := app.RunProgram
			if run == nil {
				run = runFullScreen
			}
			if err := run(newTimerModel(ctx, app, ctrl), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("running timer: %w", err)
			}

			if n := ctrl.UnsavedCount(); n > 0 {
				return fmt.Errorf("%d session(s) could not be saved", n)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Timer closed."))
			return nil
		},
	}

	bindSelectionFlags(cmd.Flags(), &sel)
	cmd.Flags().BoolVarP(&pomodoro, "pomodoro", "P", false, "Start in Pomodoro mode")
	cmd.Flags().BoolVar(&start, "now", false, "Start timing immediately")

	return cmd
}

func runFullScreen(m tea.Model, in io.Reader, out io.Writer) error {
	_, err := tea.NewProgram(m, tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen()).Run()
	return err
}
