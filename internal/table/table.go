// Package table is the tabular projection of the schedule: one row per
// visible task, sortable, optionally grouped by WBS prefix, with inline
// editing routed through the validator.
package table

import (
	"cmp"
	"slices"
	"strings"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/hierarchy"
	"github.com/constructbms/gantt/internal/schedule"
)

// UngroupedKey buckets tasks without a WBS number.
const UngroupedKey = "ungrouped"

type Direction int

const (
	Asc Direction = iota
	Desc
)

// RowKind distinguishes task rows from synthetic group headers.
type RowKind int

const (
	RowTask RowKind = iota
	RowGroup
)

// Group summarizes a WBS bucket with more than one member.
type Group struct {
	Key         string
	Count       int
	TotalDays   float64
	AvgProgress float64
}

// Row is one rendered line. Task is set for RowTask, Group for RowGroup.
type Row struct {
	Kind        RowKind
	Task        *domain.Task
	Level       int
	HasChildren bool
	Expanded    bool
	Group       *Group
}

// CommitFunc applies an accepted edit. The session's update path is used so
// that callbacks and persistence happen the same way as for drags.
type CommitFunc func(taskID string, patch domain.TaskPatch) error

// View holds table state over a shared model and expanded set.
type View struct {
	model    *schedule.Model
	expanded *hierarchy.ExpandState
	commit   CommitFunc

	sortCol Column
	sortDir Direction
	grouped bool

	edit Edit
}

// New builds a view. A nil commit writes accepted edits straight to the
// model.
func New(model *schedule.Model, expanded *hierarchy.ExpandState, commit CommitFunc) *View {
	if expanded == nil {
		expanded = hierarchy.NewExpandState()
	}
	v := &View{model: model, expanded: expanded, commit: commit}
	if v.commit == nil {
		v.commit = func(id string, p domain.TaskPatch) error {
			_, err := model.ApplyPatch(id, p)
			return err
		}
	}
	v.edit.State = CellDisplay
	return v
}

// Sort orders task rows by c. An empty column restores tree order.
func (v *View) Sort(c Column, dir Direction) {
	v.sortCol = c
	v.sortDir = dir
}

// SortState returns the active sort column and direction.
func (v *View) SortState() (Column, Direction) { return v.sortCol, v.sortDir }

// SetGroupByWBS turns WBS-prefix grouping on or off.
func (v *View) SetGroupByWBS(on bool) { v.grouped = on }

func (v *View) GroupByWBS() bool { return v.grouped }

// Toggle expands or collapses a task in the shared expanded set.
func (v *View) Toggle(taskID string) bool { return v.expanded.Toggle(taskID) }

// Rows returns the visible rows in display order.
func (v *View) Rows() []Row {
	flat := hierarchy.Flatten(v.model.Tasks(), v.expanded)
	rows := make([]Row, len(flat))
	for i, r := range flat {
		rows[i] = Row{Kind: RowTask, Task: r.Task, Level: r.Level, HasChildren: r.HasChildren, Expanded: r.Expanded}
	}
	if v.sortCol != "" {
		sortRows(rows, v.sortCol, v.sortDir)
	}
	if v.grouped {
		rows = groupRows(rows)
	}
	return rows
}

func sortRows(rows []Row, c Column, dir Direction) {
	slices.SortStableFunc(rows, func(a, b Row) int {
		n := compareBy(c, a.Task, b.Task)
		if dir == Desc {
			return -n
		}
		return n
	})
}

func compareBy(c Column, a, b *domain.Task) int {
	switch c {
	case ColStart:
		return a.StartDate.Compare(b.StartDate)
	case ColEnd:
		return a.EndDate.Compare(b.EndDate)
	case ColDuration:
		return cmp.Compare(a.Duration(), b.Duration())
	case ColProgress:
		return cmp.Compare(a.Progress, b.Progress)
	case ColFloat:
		return cmp.Compare(a.Float, b.Float)
	case ColLevel:
		return cmp.Compare(a.Level, b.Level)
	case ColCritical:
		return cmp.Compare(boolRank(a.IsCritical), boolRank(b.IsCritical))
	case ColMilestone:
		return cmp.Compare(boolRank(a.IsMilestone), boolRank(b.IsMilestone))
	case ColWBS:
		return compareWBS(a.WBSNumber, b.WBSNumber)
	case ColConstraintDate:
		switch {
		case a.ConstraintDate == nil && b.ConstraintDate == nil:
			return 0
		case a.ConstraintDate == nil:
			return 1
		case b.ConstraintDate == nil:
			return -1
		}
		return a.ConstraintDate.Compare(*b.ConstraintDate)
	}
	return strings.Compare(strings.ToLower(Format(c, a)), strings.ToLower(Format(c, b)))
}

// compareWBS orders dotted numbers segment by segment, numerically, so
// "2" < "10" and "1.2" < "1.10". Empty numbers sort last.
func compareWBS(a, b string) int {
	if a == "" || b == "" {
		return cmp.Compare(boolRank(a == ""), boolRank(b == ""))
	}
	as, bs := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if n := cmp.Compare(len(as[i]), len(bs[i])); n != 0 {
			return n
		}
		if n := strings.Compare(as[i], bs[i]); n != 0 {
			return n
		}
	}
	return cmp.Compare(len(as), len(bs))
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// groupRows buckets task rows by WBS prefix in order of first appearance.
// Buckets with several members get a header row; singletons are emitted
// unchanged.
func groupRows(rows []Row) []Row {
	var keys []string
	buckets := make(map[string][]Row)
	for _, r := range rows {
		key := hierarchy.Prefix(r.Task.WBSNumber)
		if key == "" {
			key = UngroupedKey
		}
		if _, ok := buckets[key]; !ok {
			keys = append(keys, key)
		}
		buckets[key] = append(buckets[key], r)
	}

	out := make([]Row, 0, len(rows)+len(keys))
	for _, key := range keys {
		members := buckets[key]
		if len(members) > 1 {
			out = append(out, Row{Kind: RowGroup, Group: summarize(key, members)})
		}
		out = append(out, members...)
	}
	return out
}

func summarize(key string, members []Row) *Group {
	g := &Group{Key: key, Count: len(members)}
	var progress float64
	for _, m := range members {
		g.TotalDays += m.Task.DurationDays()
		progress += m.Task.Progress
	}
	g.AvgProgress = progress / float64(len(members))
	return g
}
