package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// Chart modes.
const (
	chartWeekly    = "weekly"
	chartBySubject = "by-subject"
	chartThisWeek  = "this-week"
)

func newChartCmd(app *App) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Draw study hours as bar charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := renderChart(context.Background(), app, mode)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", chartWeekly, "Chart mode: weekly, by-subject or this-week")
	return cmd
}

func renderChart(ctx context.Context, app *App, mode string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case chartWeekly, "":
		weeks, err := app.Stats.TotalsByWeek(ctx)
		if err != nil {
			return "", err
		}
		return formatter.FormatWeeklyChart(weeks), nil
	case chartBySubject, "subject":
		totals, err := app.Stats.TotalsBySubject(ctx)
		if err != nil {
			return "", err
		}
		return formatter.FormatSubjectChart(totals), nil
	case chartThisWeek, "week":
		m, err := app.Stats.ThisWeekByDaySubject(ctx)
		if err != nil {
			return "", err
		}
		return formatter.FormatThisWeekChart(m), nil
	default:
		return "", fmt.Errorf("unknown chart mode %q (expected %s, %s or %s)", mode, chartWeekly, chartBySubject, chartThisWeek)
	}
}
