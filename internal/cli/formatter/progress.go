package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a task's percent complete like [████░░░░]  45%.
// Completed work is green, half-done yellow and barely started red.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 100)
	width = max(width, 2)

	filled := min(int(pct/100*float64(width)), width)
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	if pct < 33 {
		style = StyleRed
	} else if pct < 66 {
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct)
}
