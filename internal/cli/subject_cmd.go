package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newSubjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subject",
		Aliases: []string{"subjects"},
		Short:   "Manage subjects and chapters",
	}

	cmd.AddCommand(
		newSubjectAddCmd(app),
		newSubjectChapterCmd(app),
		newSubjectListCmd(app),
		newSubjectRemoveCmd(app),
	)

	return cmd
}

func newSubjectAddCmd(app *App) *cobra.Command {
	var chapter string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a subject, or a chapter to an existing subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			chapter = strings.TrimSpace(chapter)
			known, err := app.Subjects.List(ctx)
			if err != nil {
				return err
			}
			had := false
			if existing := findSubject(known, args[0]); existing != nil {
				had = existing.HasChapter(chapter)
			}

			subject, created, err := app.Subjects.Add(ctx, args[0], chapter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case created:
				fmt.Fprintf(out, "Added subject %s\n", formatter.Bold(subject.Name))
			case chapter != "" && had:
				fmt.Fprintf(out, "Subject %s already has chapter %q\n", formatter.Bold(subject.Name), chapter)
			case chapter != "":
				fmt.Fprintf(out, "Subject %s exists, chapter %q added\n", formatter.Bold(subject.Name), chapter)
			default:
				fmt.Fprintf(out, "Subject %s already exists\n", formatter.Bold(subject.Name))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&chapter, "chapter", "c", "", "First chapter of the subject")
	return cmd
}

func newSubjectChapterCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chapter SUBJECT CHAPTER",
		Short: "Add a chapter to a subject",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, err := app.Subjects.AddChapter(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d chapter(s)\n", formatter.Bold(subject.Name), len(subject.Chapters))
			return nil
		},
	}
}

func newSubjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List subjects with their chapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			subjects, err := app.Subjects.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubjectList(subjects))
			return nil
		},
	}
}

func newSubjectRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove NAME",
		Aliases: []string{"rm"},
		Short:   "Delete a subject and every session recorded for it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			// Unconfirmed delete only resolves the name.
			probe, err := app.Subjects.Delete(ctx, args[0], false)
			if err != nil {
				return err
			}
			confirmed, err := confirm(app, yes,
				fmt.Sprintf("Delete subject %q?", probe.Subject),
				"Every session recorded for it is deleted too.")
			if err != nil {
				return err
			}
			res, err := app.Subjects.Delete(ctx, args[0], confirmed)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Deleted {
				fmt.Fprintln(out, formatter.Dim("Cancelled, nothing deleted."))
				return nil
			}
			fmt.Fprintf(out, "Deleted subject %s and %d session(s)\n", formatter.Bold(res.Subject), res.SessionsRemoved)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
