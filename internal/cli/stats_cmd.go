package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show this week's statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			summary, err := app.Stats.WeekSummary(ctx)
			if err != nil {
				return err
			}
			topSubjects, err := app.Stats.TopSubjectsThisWeek(ctx, top)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatWeekStats(summary, topSubjects))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 3, "Number of top subjects to list")
	return cmd
}
