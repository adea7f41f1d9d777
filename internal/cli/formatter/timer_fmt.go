package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/scanland/internal/domain"
	"github.com/alexanderramin/scanland/internal/timer"
	"github.com/charmbracelet/lipgloss"
)

var clockStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2)

// TimerFace describes what the live timer screen shows.
type TimerFace struct {
	DisplayMs int64
	Running   bool
	Pomodoro  bool
	Phase     timer.Phase
	BudgetMs  int64
	Cycles    int
	Subject   string
	Chapter   string
	Unsaved   int
}

// FormatTimerFace renders the clock, mode line and selection.
func FormatTimerFace(f TimerFace) string {
	var b strings.Builder

	state := StyleYellow.Render("⏸ paused")
	if f.Running {
		state = StyleGreen.Render("▶ running")
	} else if !f.Pomodoro && f.DisplayMs == 0 {
		state = Dim("■ idle")
	}

	face := clockStyle.Foreground(ColorFg)
	if f.Pomodoro {
		face = clockStyle.Foreground(PhaseStyle(f.Phase).GetForeground())
	}
	b.WriteString(face.Render(domain.FormatHMS(f.DisplayMs)) + "  " + state + "\n\n")

	if f.Pomodoro {
		done := 0.0
		if f.BudgetMs > 0 {
			done = 1 - float64(f.DisplayMs)/float64(f.BudgetMs)
		}
		fmt.Fprintf(&b, "%s  %s\n", PhaseStyle(f.Phase).Render(f.Phase.Label()), RenderProgress(done, 24, PhaseStyle(f.Phase).Render))
		fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("pomodoro · %d work cycle(s) completed", f.Cycles)))
	} else {
		b.WriteString(Dim("stopwatch") + "\n")
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("SUBJECT"), OrDash(f.Subject))
	fmt.Fprintf(&b, "%s  %s\n", StyleDim.Render("CHAPTER"), OrDash(f.Chapter))
	if f.Unsaved > 0 {
		b.WriteString("\n" + StyleRed.Render(fmt.Sprintf("%d session(s) not saved, press u to retry", f.Unsaved)) + "\n")
	}
	return b.String()
}
