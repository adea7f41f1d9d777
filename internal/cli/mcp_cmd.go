package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newServeMCPCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve-mcp",
		Short: "Serve read-only statistics as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.ServeMCP == nil {
				return fmt.Errorf("mcp server is not configured")
			}
			return app.ServeMCP()
		},
	}
}
