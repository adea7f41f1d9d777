package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/alexanderramin/scanland/internal/service"
	"github.com/alexanderramin/scanland/internal/transfer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var policyFlag, format string
	var yes bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import sessions and subjects from an exported document",
		Long: `Import a JSON or YAML document written by export, or by the legacy
browser page. Use - to read standard input.

--policy merge (default) appends sessions and unions subjects.
--policy replace overwrites both collections; a missing key clears it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, err := service.ParseImportPolicy(policyFlag)
			if err != nil {
				return err
			}
			data, f, err := readImport(cmd, args[0], format)
			if err != nil {
				return err
			}
			payload, err := transfer.Decode(data, f)
			if err != nil {
				return err
			}

			if policy == service.ImportReplace {
				ok, err := confirm(app, yes, "Replace all stored data with this file?", "Existing sessions and subjects are overwritten.")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled, nothing imported."))
					return nil
				}
			}

			res, err := app.Data.Import(context.Background(), payload, policy)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d session(s) with policy %s\n", res.SessionsAdded, res.Policy)
			if res.IDsReassigned > 0 {
				fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%d duplicate id(s) were given fresh ids", res.IDsReassigned)))
			}
			fmt.Fprintf(out, "Store now holds %d session(s) and %d subject(s)\n", res.SessionsTotal, res.SubjectsTotal)
			return nil
		},
	}

	cmd.Flags().StringVarP(&policyFlag, "policy", "p", string(service.ImportMerge), "merge or replace")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Document format: json or yaml (default from file extension)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt for replace")

	return cmd
}

func readImport(cmd *cobra.Command, path, format string) ([]byte, transfer.Format, error) {
	f := transfer.FormatFromPath(path)
	if format != "" {
		parsed, ok := transfer.ParseFormat(format)
		if !ok {
			return nil, f, fmt.Errorf("unknown format %q (expected json or yaml)", format)
		}
		f = parsed
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, f, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, f, nil
}
