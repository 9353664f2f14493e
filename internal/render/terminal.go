package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gruvbox palette shared with the CLI formatter.
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorBlue   = lipgloss.Color("#83a598")
	colorPurple = lipgloss.Color("#d3869b")
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorHeader = lipgloss.Color("#fe8019")
)

// Theme styles each kind of chart cell.
type Theme struct {
	Bar              lipgloss.Style
	Progress         lipgloss.Style
	Critical         lipgloss.Style
	CriticalProgress lipgloss.Style
	Milestone        lipgloss.Style
	Float            lipgloss.Style
	Grid             lipgloss.Style
	Link             lipgloss.Style
	Label            lipgloss.Style
	Selected         lipgloss.Style
	Violation        lipgloss.Style
	Axis             lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Bar:              lipgloss.NewStyle().Foreground(colorBlue),
		Progress:         lipgloss.NewStyle().Foreground(colorGreen),
		Critical:         lipgloss.NewStyle().Foreground(colorRed),
		CriticalProgress: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
		Milestone:        lipgloss.NewStyle().Foreground(colorPurple).Bold(true),
		Float:            lipgloss.NewStyle().Foreground(colorDim),
		Grid:             lipgloss.NewStyle().Foreground(colorDim),
		Link:             lipgloss.NewStyle().Foreground(colorYellow),
		Label:            lipgloss.NewStyle().Foreground(colorFg),
		Selected:         lipgloss.NewStyle().Foreground(colorFg).Reverse(true),
		Violation:        lipgloss.NewStyle().Foreground(colorYellow).Bold(true),
		Axis:             lipgloss.NewStyle().Foreground(colorHeader),
	}
}

// PlainTheme renders no escape sequences.
func PlainTheme() Theme {
	s := lipgloss.NewStyle()
	return Theme{s, s, s, s, s, s, s, s, s, s, s, s}
}

// Glyphs used by the painter. Each occupies one terminal cell.
const (
	GlyphDone      = '█'
	GlyphRemaining = '▒'
	GlyphMilestone = '◆'
	GlyphFloat     = '·'
	GlyphGrid      = '│'
	GlyphLink      = '→'
	GlyphExpanded  = "▾ "
	GlyphCollapsed = "▸ "
	GlyphViolation = "!"
)

// PaintOptions controls the terminal layout. One frame pixel is one cell.
type PaintOptions struct {
	LabelWidth int
	Selected   string
	Theme      Theme
}

type cell struct {
	r     rune
	style *lipgloss.Style
}

// Paint renders the frame as text: a date axis followed by one line per
// bar, each a fixed-width label and the timeline.
func Paint(f Frame, opts PaintOptions) string {
	width := int(math.Round(f.Width))
	if width < 0 {
		width = 0
	}
	th := opts.Theme

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", opts.LabelWidth))
	b.WriteString(th.Axis.Render(axis(f, width)))
	b.WriteString("\n")

	arrivals := make(map[int][]float64)
	for _, l := range f.Links {
		arrivals[l.ToRow] = append(arrivals[l.ToRow], l.ToX)
	}

	for _, bar := range f.Bars {
		b.WriteString(label(bar, opts))
		b.WriteString(paintRow(bar, f.Gridlines, arrivals[bar.Row], width, &th))
		b.WriteString("\n")
	}
	return b.String()
}

// axis places MM-DD labels at gridlines that have room for them.
func axis(f Frame, width int) string {
	line := []rune(strings.Repeat(" ", width))
	next := 0
	for _, g := range f.Gridlines {
		col := int(math.Floor(g.X))
		text := []rune(g.Date.Format("01-02"))
		if col < next || col+len(text) > width {
			continue
		}
		copy(line[col:], text)
		next = col + len(text) + 1
	}
	return string(line)
}

func label(bar BarSpec, opts PaintOptions) string {
	if opts.LabelWidth <= 0 {
		return ""
	}
	th := opts.Theme
	glyph := "  "
	if bar.HasChildren {
		glyph = GlyphCollapsed
		if bar.Expanded {
			glyph = GlyphExpanded
		}
	}
	text := strings.Repeat("  ", bar.Level) + glyph + bar.Name
	suffix := ""
	if bar.ConstraintViolated {
		suffix = GlyphViolation
	}
	room := opts.LabelWidth - 1 - lipgloss.Width(suffix)
	text = truncate(text, room)

	style := th.Label
	if bar.TaskID == opts.Selected {
		style = th.Selected
	}
	out := style.Render(text)
	if suffix != "" {
		out += th.Violation.Render(suffix)
	}
	pad := opts.LabelWidth - lipgloss.Width(text) - lipgloss.Width(suffix)
	if pad > 0 {
		out += strings.Repeat(" ", pad)
	}
	return out
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func paintRow(bar BarSpec, grid []Gridline, arrivals []float64, width int, th *Theme) string {
	cells := make([]cell, width)
	for i := range cells {
		cells[i] = cell{r: ' '}
	}
	set := func(col int, r rune, style *lipgloss.Style) {
		if col >= 0 && col < width {
			cells[col] = cell{r: r, style: style}
		}
	}

	for _, g := range grid {
		set(int(math.Floor(g.X)), GlyphGrid, &th.Grid)
	}

	if bar.Milestone {
		set(int(math.Floor(bar.X0)), GlyphMilestone, &th.Milestone)
	} else {
		c0 := int(math.Floor(bar.X0))
		c1 := int(math.Ceil(bar.X1))
		if c1 <= c0 {
			c1 = c0 + 1
		}
		done := c0 + int(math.Round(bar.Progress*float64(c1-c0)))
		body, prog := &th.Bar, &th.Progress
		if bar.Critical {
			body, prog = &th.Critical, &th.CriticalProgress
		}
		for col := c0; col < c1; col++ {
			if col < done {
				set(col, GlyphDone, prog)
			} else {
				set(col, GlyphRemaining, body)
			}
		}
		for col := c1; col < int(math.Ceil(bar.FloatX1)); col++ {
			set(col, GlyphFloat, &th.Float)
		}
	}

	for _, x := range arrivals {
		col := int(math.Floor(x)) - 1
		if col >= 0 && col < width && (cells[col].r == ' ' || cells[col].r == GlyphGrid) {
			set(col, GlyphLink, &th.Link)
		}
	}

	var b strings.Builder
	var run []rune
	var runStyle *lipgloss.Style
	flush := func() {
		if len(run) == 0 {
			return
		}
		if runStyle == nil {
			b.WriteString(string(run))
		} else {
			b.WriteString(runStyle.Render(string(run)))
		}
		run = run[:0]
	}
	for _, c := range cells {
		if c.style != runStyle {
			flush()
			runStyle = c.style
		}
		run = append(run, c.r)
	}
	flush()
	return b.String()
}
