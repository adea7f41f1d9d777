package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every session and subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			confirmed, err := confirm(app, yes, "Delete all sessions and subjects?", "This cannot be undone. Export first to keep a copy.")
			if err != nil {
				return err
			}
			done, err := app.Data.Reset(context.Background(), confirmed)
			if err != nil {
				return err
			}
			if !done {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled, nothing deleted."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All sessions and subjects deleted.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
