package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanDate formats a calendar date as "Jan 2, 2006".
func HumanDate(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.Format("Jan 2, 2006")
}

// DateRange formats start and end as "2025-01-06 → 2025-01-10".
func DateRange(start, end time.Time) string {
	return start.Format(time.DateOnly) + " → " + end.Format(time.DateOnly)
}

// FormatDays renders a day count with at most one decimal, such as "3d" or
// "2.5d".
func FormatDays(days float64) string {
	return strconv.FormatFloat(days, 'f', -1, 64) + "d"
}

// FloatLabel colors float by how close a task is to critical.
func FloatLabel(days float64, critical bool) string {
	text := fmt.Sprintf("%.1fd", days)
	switch {
	case critical:
		return StyleRed.Render(text)
	case days <= 3:
		return StyleYellow.Render(text)
	default:
		return StyleGreen.Render(text)
	}
}

// TruncID returns the first 8 characters of an id.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Truncate shortens s to n visible characters, ending with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
