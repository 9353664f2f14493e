package render

import (
	"math"

	"github.com/constructbms/gantt/internal/drag"
)

// HitKind classifies a pointer position against a bar.
type HitKind int

const (
	HitNone HitKind = iota
	HitBody
	HitStartEdge
	HitEndEdge
)

func (h HitKind) String() string {
	switch h {
	case HitBody:
		return "body"
	case HitStartEdge:
		return "start-edge"
	case HitEndEdge:
		return "end-edge"
	default:
		return "none"
	}
}

// DragMode maps a hit to the drag it starts.
func (h HitKind) DragMode() (drag.Mode, bool) {
	switch h {
	case HitBody:
		return drag.ModeMove, true
	case HitStartEdge:
		return drag.ModeResizeStart, true
	case HitEndEdge:
		return drag.ModeResizeEnd, true
	}
	return "", false
}

// Hit is a classified pointer position.
type Hit struct {
	TaskID string
	Kind   HitKind
}

// HitTest classifies x on row. Within tolerance pixels of an edge the
// nearer edge wins; a point equally close to both is the body. Milestones
// have no edges.
func HitTest(f Frame, row int, x, tolerance float64) Hit {
	b, ok := f.Bar(row)
	if !ok {
		return Hit{}
	}
	if x < b.X0-tolerance || x > b.X1+tolerance {
		return Hit{}
	}
	hit := Hit{TaskID: b.TaskID, Kind: HitBody}
	if b.Milestone {
		return hit
	}

	dStart := math.Abs(x - b.X0)
	dEnd := math.Abs(x - b.X1)
	switch {
	case dStart <= tolerance && dStart < dEnd:
		hit.Kind = HitStartEdge
	case dEnd <= tolerance && dEnd < dStart:
		hit.Kind = HitEndEdge
	}
	return hit
}
