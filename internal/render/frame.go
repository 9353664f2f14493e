package render

import (
	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/hierarchy"
)

// DefaultGridGap is the gridline spacing used when Input.MinGridGap is unset.
const DefaultGridGap = 6

// BuildFrame lays out the visible tasks. Rows follow the flattened tree;
// with CriticalOnly set, non-critical rows are dropped and the remaining
// rows renumbered.
func BuildFrame(in Input) Frame {
	m := in.Mapper
	f := Frame{
		Start:        m.Start(),
		End:          m.End(),
		Width:        m.Width(),
		PixelsPerDay: m.PixelsPerDay(),
	}

	for _, r := range hierarchy.Flatten(in.Tasks, in.Expanded) {
		t := r.Task
		if in.Options.CriticalOnly && !t.IsCritical {
			continue
		}
		b := BarSpec{
			TaskID:             t.ID,
			Name:               t.Name,
			Row:                len(f.Bars),
			Level:              r.Level,
			X0:                 m.DateToPixel(t.StartDate),
			X1:                 m.DateToPixel(t.EndDate),
			Milestone:          t.IsMilestone,
			Critical:           in.Options.ShowCriticalPath && t.IsCritical,
			Progress:           t.ProgressFraction(),
			ConstraintViolated: t.ConstraintViolated,
			HasChildren:        r.HasChildren,
			Expanded:           r.Expanded,
		}
		b.FloatX1 = b.X1
		if in.Options.ShowFloat {
			b.Float = t.Float
			b.FloatX1 = m.DateToPixel(domain.AddDays(t.EndDate, t.Float))
		}
		f.Bars = append(f.Bars, b)
	}

	if in.Options.ShowTaskLinks {
		f.Links = layoutLinks(f.Bars, in.Links)
	}
	if in.Options.ShowGridlines {
		gap := in.MinGridGap
		if gap <= 0 {
			gap = DefaultGridGap
		}
		for _, tick := range m.Ticks(m.TickStep(gap)) {
			f.Gridlines = append(f.Gridlines, Gridline{Date: tick.Date, X: tick.Pixel})
		}
	}
	return f
}

// layoutLinks anchors each link on the bar edges its type names. Links with
// an endpoint that is hidden or unresolved are skipped.
func layoutLinks(bars []BarSpec, links []*domain.Link) []LinkSpec {
	rows := make(map[string]int, len(bars))
	for i, b := range bars {
		rows[b.TaskID] = i
	}

	var out []LinkSpec
	for _, l := range links {
		from, ok1 := rows[l.SourceTaskID]
		to, ok2 := rows[l.TargetTaskID]
		if !ok1 || !ok2 {
			continue
		}
		src, dst := bars[from], bars[to]
		spec := LinkSpec{LinkID: l.ID, Type: l.Type, FromRow: from, ToRow: to}
		switch l.Type {
		case domain.LinkStartToStart:
			spec.FromX, spec.ToX = src.X0, dst.X0
		case domain.LinkFinishToFinish:
			spec.FromX, spec.ToX = src.X1, dst.X1
		case domain.LinkStartToFinish:
			spec.FromX, spec.ToX = src.X0, dst.X1
		default:
			spec.FromX, spec.ToX = src.X1, dst.X0
		}
		out = append(out, spec)
	}
	return out
}
