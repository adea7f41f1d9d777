package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/alexanderramin/scanland/internal/transfer"
	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var format, outPath string
	var toClipboard, toStdout bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions and subjects to a JSON or YAML file",
		Long: `Export sessions and subjects.

The file is written to export_dir with a name built from
export_name_template (default scanland-export-{{stamp}}.json) unless --out
is given. --clipboard copies the JSON document instead of writing a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exportFormat(format, outPath)
			if err != nil {
				return err
			}
			if toClipboard {
				f = transfer.FormatJSON
			}

			doc, err := app.Data.Export(context.Background())
			if err != nil {
				return err
			}
			data, err := transfer.Encode(doc, f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			summary := fmt.Sprintf("%d session(s), %d subject(s)", len(doc.Sessions), len(doc.Subjects))

			switch {
			case toStdout:
				_, err := out.Write(data)
				return err
			case toClipboard:
				write := app.WriteClipboard
				if write == nil {
					write = clipboard.WriteAll
				}
				if err := write(string(data)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(out, "Copied %s to the clipboard %s\n", summary, formatter.Dim("("+humanize.Bytes(uint64(len(data)))+")"))
				return nil
			}

			path := outPath
			if path == "" {
				at, err := time.Parse(time.RFC3339, doc.ExportedAt)
				if err != nil {
					return fmt.Errorf("reading export time: %w", err)
				}
				name, err := transfer.FileName(app.Config.ExportNameTemplate, at, f)
				if err != nil {
					return err
				}
				path = filepath.Join(app.Config.ExportDir, name)
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating export directory: %w", err)
				}
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(out, "Exported %s to %s %s\n", summary, path, formatter.Dim("("+humanize.Bytes(uint64(len(data)))+")"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Document format: json or yaml (default from --out extension, else json)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of the export directory")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "Copy the JSON document to the clipboard")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Write the document to standard output")
	cmd.MarkFlagsMutuallyExclusive("clipboard", "out", "stdout")

	return cmd
}

func exportFormat(flag, outPath string) (transfer.Format, error) {
	if flag == "" {
		if outPath != "" {
			return transfer.FormatFromPath(outPath), nil
		}
		return transfer.FormatJSON, nil
	}
	f, ok := transfer.ParseFormat(flag)
	if !ok {
		return f, fmt.Errorf("unknown format %q (expected json or yaml)", flag)
	}
	return f, nil
}
