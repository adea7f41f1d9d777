package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scanland/internal/timer"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SubjectStyle returns a foreground style for a palette color such as
// "#60a5fa". An empty color falls back to the dim style.
func SubjectStyle(hex string) lipgloss.Style {
	if hex == "" {
		return StyleDim
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// SubjectSwatch renders a colored dot followed by the subject name.
func SubjectSwatch(subject, hex string) string {
	return SubjectStyle(hex).Render("●") + " " + subject
}

// PhaseStyle returns the color used for a Pomodoro phase.
func PhaseStyle(p timer.Phase) lipgloss.Style {
	switch p {
	case timer.PhaseShortBreak:
		return StyleGreen
	case timer.PhaseLongBreak:
		return StyleBlue
	default:
		return StyleRed
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
