package hierarchy

import (
	"testing"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan1 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func node(id, parent string, children ...string) *domain.Task {
	t := &domain.Task{
		ID:        id,
		Name:      id,
		StartDate: jan1,
		EndDate:   jan1.AddDate(0, 0, 1),
		Children:  children,
	}
	if parent != "" {
		p := parent
		t.ParentID = &p
	}
	return t
}

// sampleTree is A -> [B, C], B -> [D], plus a second root E.
func sampleTree() []*domain.Task {
	return []*domain.Task{
		node("A", "", "B", "C"),
		node("B", "A", "D"),
		node("C", "A"),
		node("D", "B"),
		node("E", ""),
	}
}

func levels(rows []Row) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Level
	}
	return out
}

func TestFlatten_ExpandedOrderAndLevels(t *testing.T) {
	tasks := sampleTree()[:4]
	rows := Flatten(tasks, NewExpandState("A", "B"))

	assert.Equal(t, []string{"A", "B", "D", "C"}, VisibleIDs(rows))
	assert.Equal(t, []int{0, 1, 2, 1}, levels(rows))
	for _, r := range rows {
		assert.Equal(t, r.Level, r.Task.Level)
	}
}

func TestFlatten_CollapsedHidesDescendants(t *testing.T) {
	rows := Flatten(sampleTree(), NewExpandState("B"))
	assert.Equal(t, []string{"A", "E"}, VisibleIDs(rows), "B is expanded but its parent is not")

	rows = Flatten(sampleTree(), nil)
	assert.Equal(t, []string{"A", "E"}, VisibleIDs(rows))
}

func TestFlatten_RowMetadata(t *testing.T) {
	rows := Flatten(sampleTree(), NewExpandState("A"))
	require.Equal(t, []string{"A", "B", "C", "E"}, VisibleIDs(rows))

	assert.True(t, rows[0].HasChildren)
	assert.True(t, rows[0].Expanded)
	assert.True(t, rows[1].HasChildren)
	assert.False(t, rows[1].Expanded)
	assert.False(t, rows[2].HasChildren)
	assert.False(t, rows[3].HasChildren)
}

func TestFlatten_Idempotent(t *testing.T) {
	tasks := sampleTree()
	exp := NewExpandState("A", "B")
	first := Flatten(tasks, exp)
	second := Flatten(tasks, exp)
	assert.Equal(t, VisibleIDs(first), VisibleIDs(second))
	assert.Equal(t, levels(first), levels(second))
}

func TestFlatten_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTree()
	rows := Flatten(tasks, NewExpandState("A", "B"))
	rows[2].Task.Name = "changed"

	for _, tk := range tasks {
		assert.Zero(t, tk.Level, "input level untouched for %s", tk.ID)
	}
	assert.Equal(t, "D", tasks[3].Name)
}

func TestFlatten_UnresolvedParentIsRoot(t *testing.T) {
	tasks := []*domain.Task{node("A", ""), node("X", "gone")}
	rows := Flatten(tasks, nil)
	assert.Equal(t, []string{"A", "X"}, VisibleIDs(rows))
	assert.Equal(t, []int{0, 0}, levels(rows))
}

func TestFlatten_ChildOrderFollowsParentList(t *testing.T) {
	tasks := []*domain.Task{
		node("P", "", "Z", "Y"),
		node("Y", "P"),
		node("Z", "P"),
		node("W", "P"),
	}
	rows := Flatten(tasks, NewExpandState("P"))
	assert.Equal(t, []string{"P", "Z", "Y", "W"}, VisibleIDs(rows))
}

func TestFlatten_CycleEmitsEachTaskOnce(t *testing.T) {
	tasks := []*domain.Task{
		node("A", ""),
		node("X", "Y"),
		node("Y", "X"),
	}
	exp := NewExpandState()
	exp.ExpandAll(tasks)
	rows := Flatten(tasks, exp)
	assert.Equal(t, []string{"A", "X", "Y"}, VisibleIDs(rows))

	rows = Flatten(tasks, nil)
	assert.Equal(t, []string{"A", "X"}, VisibleIDs(rows), "collapsed cycle shows only its promoted root")
}
