package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// RenderProgress renders a progress bar like [████░░░░]  45%. The filled
// part is drawn with style, so a Pomodoro bar takes its phase color.
func RenderProgress(pct float64, width int, style func(...string) string) string {
	pct = clampFraction(pct)
	if width < 2 {
		width = 2
	}
	filled := int(pct * float64(width))
	bar := strings.Repeat(filledBlock, filled)
	if style != nil {
		bar = style(bar)
	}
	bar += StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
	return fmt.Sprintf("[%s] %3.0f%%", bar, pct*100)
}

// RenderBar renders a bare horizontal bar of width cells for a fraction of
// the largest value in a chart. Any positive fraction shows at least one
// cell.
func RenderBar(fraction float64, width int, hex string) string {
	fraction = clampFraction(fraction)
	if width < 1 {
		width = 1
	}
	cells := int(fraction*float64(width) + 0.5)
	if cells == 0 && fraction > 0 {
		cells = 1
	}
	return SubjectStyle(hex).Render(strings.Repeat(filledBlock, cells))
}
