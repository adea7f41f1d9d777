package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/scanland/internal/cli/formatter"
	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// errNeedsYes is returned by destructive commands run without a terminal
// and without --yes.
var errNeedsYes = errors.New("confirmation required: rerun with --yes")

const noneOption = "(none)"

// scanlandHuhTheme returns a huh theme using the formatter palette.
func scanlandHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// confirmForm creates a huh form for a yes/no confirmation.
func confirmForm(title, description string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(scanlandHuhTheme()).WithShowHelp(false)
}

// confirm resolves a destructive action's confirmation: --yes wins, a
// terminal gets a prompt, anything else is refused.
func confirm(app *App, yes bool, title, description string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, errNeedsYes
	}
	var ok bool
	if err := app.runForm(confirmForm(title, description, &ok)); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// pickSelection asks for a subject and then one of its chapters.
func pickSelection(ctx context.Context, app *App) (selection, error) {
	subjects, err := app.Subjects.List(ctx)
	if err != nil {
		return selection{}, fmt.Errorf("listing subjects: %w", err)
	}
	if len(subjects) == 0 {
		return selection{}, nil
	}

	subject := noneOption
	options := []huh.Option[string]{huh.NewOption(noneOption, noneOption)}
	for _, s := range subjects {
		options = append(options, huh.NewOption(s.Name, s.Name))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which subject?").
				Options(options...).
				Value(&subject),
		),
	).WithTheme(scanlandHuhTheme()).WithShowHelp(false)
	if err := app.runForm(form); err != nil {
		return selection{}, err
	}
	if subject == noneOption {
		return selection{}, nil
	}

	sel := selection{Subject: subject}
	chosen := findSubject(subjects, subject)
	if chosen == nil || len(chosen.Chapters) == 0 {
		return sel, nil
	}
	chapter := noneOption
	chapterOptions := []huh.Option[string]{huh.NewOption(noneOption, noneOption)}
	for _, c := range chosen.Chapters {
		chapterOptions = append(chapterOptions, huh.NewOption(c, c))
	}
	chapterForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which chapter?").
				Options(chapterOptions...).
				Value(&chapter),
		),
	).WithTheme(scanlandHuhTheme()).WithShowHelp(false)
	if err := app.runForm(chapterForm); err != nil {
		return selection{}, err
	}
	if chapter != noneOption {
		sel.Chapter = chapter
	}
	return sel, nil
}

// resolveSelection rewrites a typed subject and chapter to the catalog's
// spelling when they match a known entry, so sessions group and cascade
// under one name.
func resolveSelection(ctx context.Context, app *App, sel selection) (selection, error) {
	if sel.empty() {
		return sel, nil
	}
	subjects, err := app.Subjects.List(ctx)
	if err != nil {
		return sel, fmt.Errorf("listing subjects: %w", err)
	}
	known := findSubject(subjects, sel.Subject)
	if known == nil {
		return sel, nil
	}
	sel.Subject = known.Name
	for _, c := range known.Chapters {
		if strings.EqualFold(c, strings.TrimSpace(sel.Chapter)) {
			sel.Chapter = c
			break
		}
	}
	return sel, nil
}

func findSubject(subjects []domain.Subject, name string) *domain.Subject {
	for i := range subjects {
		if subjects[i].Matches(name) {
			return &subjects[i]
		}
	}
	return nil
}
