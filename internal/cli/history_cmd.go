package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/stats"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var since, subject string
	var bySubject, cards, thisWeek bool
	var limit int

	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"log"},
		Short:   "Show recorded sessions",
		Long: `Show recorded sessions, newest first.

--since accepts natural language ("yesterday", "last monday", "2 weeks ago")
or a date such as 2025-03-01.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			loc := app.Stats.Location()
			now := app.now().Now().In(loc)

			var log []domain.Session
			var err error
			if thisWeek {
				log, err = app.Sessions.ListSince(ctx, stats.WeekStart(now))
			} else if since != "" {
				from, perr := parseSince(since, now)
				if perr != nil {
					return perr
				}
				log, err = app.Sessions.ListSince(ctx, from)
			} else {
				log, err = app.Sessions.List(ctx)
			}
			if err != nil {
				return err
			}
			log = filterSubject(log, subject)
			if limit > 0 && len(log) > limit {
				log = log[len(log)-limit:]
			}

			out := cmd.OutOrStdout()
			switch {
			case bySubject:
				fmt.Fprint(out, formatter.FormatHistoryGrouped(log, loc))
			case cards:
				fmt.Fprint(out, formatter.FormatHistoryCards(log, loc, now))
			default:
				fmt.Fprint(out, formatter.FormatHistoryTable(log, loc))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&since, "since", "", "Only sessions recorded since this time")
	cmd.Flags().StringVarP(&subject, "subject", "s", "", "Only sessions of this subject")
	cmd.Flags().BoolVar(&bySubject, "by-subject", false, "Group sessions by subject with totals")
	cmd.Flags().BoolVar(&cards, "cards", false, "Compact card layout")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the N most recent sessions")
	cmd.Flags().BoolVarP(&thisWeek, "week", "w", false, "Only sessions of the current week (from Monday)")
	cmd.MarkFlagsMutuallyExclusive("by-subject", "cards")
	cmd.MarkFlagsMutuallyExclusive("since", "week")

	return cmd
}

// parseSince reads plain date layouts first, then natural language. Dates
// without a time of day mean midnight in now's location.
func parseSince(v string, now time.Time) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006/01/02", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, v, now.Location()); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	if r, err := w.Parse(v, now); err == nil && r != nil {
		return r.Time, nil
	}
	return time.Time{}, fmt.Errorf("cannot understand --since %q", v)
}

func filterSubject(log []domain.Session, subject string) []domain.Session {
	if strings.TrimSpace(subject) == "" {
		return log
	}
	key := domain.SubjectKey(subject)
	out := make([]domain.Session, 0, len(log))
	for _, s := range log {
		if domain.SubjectKey(s.Subject) == key {
			out = append(out, s)
		}
	}
	return out
}
