// Package drag turns pointer events over a task bar into proposed date
// changes. The controller is a two-state machine, idle and dragging; it
// proposes dates but never writes them.
package drag

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/timescale"
)

// Mode is what part of the bar is being dragged.
type Mode string

const (
	ModeMove        Mode = "move"
	ModeResizeStart Mode = "resize-start"
	ModeResizeEnd   Mode = "resize-end"
)

// Phase is the controller state.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseDragging Phase = "dragging"
)

var (
	ErrReadOnly        = errors.New("editing is not permitted")
	ErrAlreadyDragging = errors.New("a drag is already in progress")
	ErrNotDragging     = errors.New("no drag in progress")
	ErrMilestoneResize = errors.New("milestones can only be moved")
	ErrInvalidMode     = errors.New("invalid drag mode")
)

// State is a serializable snapshot of the controller.
type State struct {
	Phase       Phase     `json:"phase"`
	TaskID      string    `json:"task_id,omitempty"`
	Mode        Mode      `json:"mode,omitempty"`
	OriginStart time.Time `json:"origin_start,omitzero"`
	OriginEnd   time.Time `json:"origin_end,omitzero"`
	PointerX    float64   `json:"pointer_x,omitempty"`
	Milestone   bool      `json:"milestone,omitempty"`
}

// Proposal is the date pair a drag move suggests for a task.
type Proposal struct {
	TaskID string
	Start  time.Time
	End    time.Time
}

// Patch returns the proposal as a date-only task patch.
func (p Proposal) Patch() domain.TaskPatch {
	start, end := p.Start, p.End
	return domain.TaskPatch{StartDate: &start, EndDate: &end}
}

// Controller tracks at most one active drag.
type Controller struct {
	state State
}

func NewController() *Controller {
	return &Controller{state: State{Phase: PhaseIdle}}
}

// State returns the current snapshot.
func (c *Controller) State() State { return c.state }

// Dragging reports whether a drag is active.
func (c *Controller) Dragging() bool { return c.state.Phase == PhaseDragging }

// Begin captures task's dates and the pointer position. Without edit
// permission, or while another drag is active, the controller stays idle.
func (c *Controller) Begin(task *domain.Task, mode Mode, pointerX float64, canEdit bool) error {
	if !canEdit {
		return ErrReadOnly
	}
	if c.Dragging() {
		return fmt.Errorf("begin %s: %w", task.ID, ErrAlreadyDragging)
	}
	switch mode {
	case ModeMove:
	case ModeResizeStart, ModeResizeEnd:
		if task.IsMilestone {
			return fmt.Errorf("begin %s: %w", task.ID, ErrMilestoneResize)
		}
	default:
		return fmt.Errorf("begin %s: %w: %q", task.ID, ErrInvalidMode, mode)
	}

	c.state = State{
		Phase:       PhaseDragging,
		TaskID:      task.ID,
		Mode:        mode,
		OriginStart: task.StartDate,
		OriginEnd:   task.EndDate,
		PointerX:    pointerX,
		Milestone:   task.IsMilestone,
	}
	return nil
}

// Move computes the proposal for the pointer at x. The displacement is
// converted to whole days through the mapper and applied to the original
// dates, so a sequence of moves never accumulates rounding error.
func (c *Controller) Move(pointerX float64, m timescale.Mapper) (Proposal, error) {
	if !c.Dragging() {
		return Proposal{}, ErrNotDragging
	}
	s := c.state
	days := int(math.Round(m.DaysDelta(pointerX - s.PointerX)))

	start, end := s.OriginStart, s.OriginEnd
	switch s.Mode {
	case ModeMove:
		start = start.AddDate(0, 0, days)
		end = end.AddDate(0, 0, days)
	case ModeResizeStart:
		start = start.AddDate(0, 0, days)
		if !start.Before(end) {
			start = end.Add(-domain.Day)
		}
	case ModeResizeEnd:
		end = end.AddDate(0, 0, days)
		if !end.After(start) {
			end = start.Add(domain.Day)
		}
	}

	if m.Zoom() >= SnapZoom {
		start = SnapToWeek(start)
		end = SnapToWeek(end)
		// Restore a week-long span by moving the edge being dragged.
		if !s.Milestone && !end.After(start) {
			if s.Mode == ModeResizeStart {
				start = end.AddDate(0, 0, -7)
			} else {
				end = end.AddDate(0, 0, 7)
			}
		}
	}
	return Proposal{TaskID: s.TaskID, Start: start, End: end}, nil
}

// End returns the controller to idle and reports the drag that finished.
// The last proposal is already the committed state; there is no cancel.
func (c *Controller) End() State {
	finished := c.state
	c.state = State{Phase: PhaseIdle}
	return finished
}
