// Package render builds the frame a Gantt surface paints and classifies
// pointer positions against it. The surface only reports what the user did;
// validity and commits belong to the drag controller and validator.
package render

import (
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/hierarchy"
	"github.com/constructbms/gantt/internal/timescale"
)

// Options are the chart display toggles.
type Options struct {
	ShowGridlines    bool `yaml:"show_gridlines" json:"show_gridlines"`
	ShowTaskLinks    bool `yaml:"show_task_links" json:"show_task_links"`
	ShowFloat        bool `yaml:"show_float" json:"show_float"`
	ShowCriticalPath bool `yaml:"show_critical_path" json:"show_critical_path"`
	CriticalOnly     bool `yaml:"critical_only" json:"critical_only"`
}

// DefaultOptions turns on everything except the critical-only filter.
func DefaultOptions() Options {
	return Options{ShowGridlines: true, ShowTaskLinks: true, ShowFloat: true, ShowCriticalPath: true}
}

// Input is everything BuildFrame reads.
type Input struct {
	Tasks    []*domain.Task
	Links    []*domain.Link
	Expanded *hierarchy.ExpandState
	Mapper   timescale.Mapper
	Options  Options
	// MinGridGap is the minimum pixel spacing between gridlines.
	MinGridGap float64
}

// BarSpec is one visible task row.
type BarSpec struct {
	TaskID string
	Name   string
	Row    int
	Level  int

	X0, X1 float64
	// FloatX1 is the end of the float tail; equal to X1 when float is hidden.
	FloatX1 float64

	Milestone          bool
	Critical           bool
	Float              float64
	Progress           float64
	ConstraintViolated bool

	HasChildren bool
	Expanded    bool
}

// LinkSpec is a dependency drawn between two visible rows.
type LinkSpec struct {
	LinkID  string
	Type    domain.LinkType
	FromRow int
	ToRow   int
	FromX   float64
	ToX     float64
}

// Gridline is a vertical calendar marker.
type Gridline struct {
	Date time.Time
	X    float64
}

// Frame is a fully laid-out chart.
type Frame struct {
	Start        time.Time
	End          time.Time
	Width        float64
	PixelsPerDay float64
	Bars         []BarSpec
	Links        []LinkSpec
	Gridlines    []Gridline
}

// Bar returns the bar on row, if any.
func (f Frame) Bar(row int) (BarSpec, bool) {
	if row < 0 || row >= len(f.Bars) {
		return BarSpec{}, false
	}
	return f.Bars[row], true
}

// RowOf returns the row showing taskID, or -1.
func (f Frame) RowOf(taskID string) int {
	for i, b := range f.Bars {
		if b.TaskID == taskID {
			return i
		}
	}
	return -1
}

// Event is a user action reported by the surface.
type Event interface {
	event()
}

// SelectEvent reports a click on a task.
type SelectEvent struct {
	TaskID string
}

// DragStartEvent reports a pointer-down on a bar and where it landed.
type DragStartEvent struct {
	TaskID string
	Hit    HitKind
	X      float64
}

// DragMoveEvent reports pointer motion while the button is held.
type DragMoveEvent struct {
	X float64
}

// DragEndEvent reports the pointer release.
type DragEndEvent struct{}

// ToggleEvent reports an expand/collapse click.
type ToggleEvent struct {
	TaskID string
}

func (SelectEvent) event()    {}
func (DragStartEvent) event() {}
func (DragMoveEvent) event()  {}
func (DragEndEvent) event()   {}
func (ToggleEvent) event()    {}
