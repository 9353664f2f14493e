package drag

import (
	"encoding/json"
	"math/rand"
	"testing"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/timescale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

// mapperAt returns a 10 px/day mapper at the given zoom.
func mapperAt(zoom int) timescale.Mapper {
	// width / 59 days * (zoom / 7) = 10
	width := 590 * 7 / float64(zoom)
	return timescale.New(date(1, 1), date(3, 1), width, zoom)
}

func taskB() *domain.Task {
	return &domain.Task{ID: "B", Name: "B", StartDate: date(1, 5), EndDate: date(1, 14)}
}

func TestBegin_RequiresEditPermission(t *testing.T) {
	c := NewController()
	err := c.Begin(taskB(), ModeMove, 100, false)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.Equal(t, PhaseIdle, c.State().Phase)

	_, err = c.Move(130, mapperAt(timescale.ZoomDay))
	assert.ErrorIs(t, err, ErrNotDragging)
}

func TestBegin_RejectsSecondDrag(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin(taskB(), ModeMove, 0, true))
	other := &domain.Task{ID: "C", StartDate: date(1, 1), EndDate: date(1, 2)}
	assert.ErrorIs(t, c.Begin(other, ModeMove, 0, true), ErrAlreadyDragging)
	assert.Equal(t, "B", c.State().TaskID)
}

func TestBegin_MilestoneOnlyMoves(t *testing.T) {
	m := &domain.Task{ID: "M", StartDate: date(1, 8), EndDate: date(1, 8), IsMilestone: true}
	c := NewController()
	assert.ErrorIs(t, c.Begin(m, ModeResizeEnd, 0, true), ErrMilestoneResize)
	assert.ErrorIs(t, c.Begin(m, ModeResizeStart, 0, true), ErrMilestoneResize)
	require.NoError(t, c.Begin(m, ModeMove, 0, true))

	p, err := c.Move(20, mapperAt(timescale.ZoomDay))
	require.NoError(t, err)
	assert.Equal(t, date(1, 10), p.Start)
	assert.Equal(t, p.Start, p.End)
}

func TestBegin_InvalidMode(t *testing.T) {
	c := NewController()
	assert.ErrorIs(t, c.Begin(taskB(), Mode("spin"), 0, true), ErrInvalidMode)
	assert.False(t, c.Dragging())
}

func TestMove_DayZoomShiftsWholeDays(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin(taskB(), ModeMove, 100, true))

	p, err := c.Move(130, mapperAt(timescale.ZoomDay))
	require.NoError(t, err)
	assert.Equal(t, "B", p.TaskID)
	assert.Equal(t, date(1, 8), p.Start)
	assert.Equal(t, date(1, 17), p.End)

	// 1.4 days rounds down; displacement is measured from the origin.
	p, err = c.Move(114, mapperAt(timescale.ZoomDay))
	require.NoError(t, err)
	assert.Equal(t, date(1, 6), p.Start)
}

func TestMove_WeekZoomSnapsToSunday(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin(taskB(), ModeMove, 100, true))

	p, err := c.Move(130, mapperAt(timescale.ZoomWeek))
	require.NoError(t, err)

	assert.Equal(t, date(1, 12), p.Start, "Wed Jan 8 snaps forward to Sun Jan 12")
	assert.Equal(t, date(1, 19), p.End, "Fri Jan 17 snaps forward to Sun Jan 19")
	assert.Equal(t, time.Sunday, p.Start.Weekday())
	assert.Equal(t, time.Sunday, p.End.Weekday())
}

func TestMove_ResizeStartClamp(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin(taskB(), ModeResizeStart, 0, true))

	p, err := c.Move(500, mapperAt(timescale.ZoomDay))
	require.NoError(t, err)
	assert.Equal(t, date(1, 13), p.Start, "clamped to one day before end")
	assert.Equal(t, date(1, 14), p.End)
}

func TestMove_ResizeEndClamp(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin(taskB(), ModeResizeEnd, 0, true))

	p, err := c.Move(-500, mapperAt(timescale.ZoomDay))
	require.NoError(t, err)
	assert.Equal(t, date(1, 5), p.Start)
	assert.Equal(t, date(1, 6), p.End, "clamped to one day after start")
}

func TestMove_SnappedResizeKeepsEndAfterStart(t *testing.T) {
	task := &domain.Task{ID: "T", StartDate: date(1, 6), EndDate: date(1, 10)}
	c := NewController()
	require.NoError(t, c.Begin(task, ModeResizeEnd, 0, true))

	p, err := c.Move(-500, mapperAt(timescale.ZoomWeek))
	require.NoError(t, err)
	assert.Equal(t, date(1, 12), p.Start)
	assert.Equal(t, date(1, 19), p.End)
}

func TestMove_SnappedResizeStartKeepsEnd(t *testing.T) {
	cases := []struct {
		name       string
		task       *domain.Task
		dx         float64
		start, end time.Time
	}{
		{"collapsed span pulls start back", &domain.Task{ID: "T", StartDate: date(1, 6), EndDate: date(1, 8)}, 10, date(1, 5), date(1, 12)},
		{"start past end clamps then snaps", &domain.Task{ID: "T", StartDate: date(1, 6), EndDate: date(1, 8)}, 200, date(1, 5), date(1, 12)},
		{"span survives snapping", &domain.Task{ID: "T", StartDate: date(1, 6), EndDate: date(1, 22)}, 10, date(1, 12), date(1, 26)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewController()
			require.NoError(t, c.Begin(tc.task, ModeResizeStart, 0, true))

			p, err := c.Move(tc.dx, mapperAt(timescale.ZoomWeek))
			require.NoError(t, err)
			assert.Equal(t, tc.start, p.Start)
			assert.Equal(t, tc.end, p.End)
		})
	}
}

// TestMove_ResizeEndNeverReachesStart_Property drags the end handle to random
// positions and checks the end stays after the start.
func TestMove_ResizeEndNeverReachesStart_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	zooms := []int{timescale.ZoomDay, timescale.ZoomWeek, timescale.ZoomMonth}

	for trial := 0; trial < 300; trial++ {
		start := date(1, 1).AddDate(0, 0, rng.Intn(40))
		task := &domain.Task{ID: "T", StartDate: start, EndDate: start.AddDate(0, 0, rng.Intn(15)+1)}
		zoom := zooms[rng.Intn(len(zooms))]
		m := mapperAt(zoom)

		c := NewController()
		require.NoError(t, c.Begin(task, ModeResizeEnd, 0, true))
		p, err := c.Move(float64(rng.Intn(800)-600), m)
		require.NoError(t, err)

		assert.True(t, p.End.After(p.Start), "trial %d: %v !> %v", trial, p.End, p.Start)
		if zoom < SnapZoom && !p.End.After(task.StartDate.Add(domain.Day)) {
			assert.Equal(t, task.StartDate.Add(domain.Day), p.End, "trial %d", trial)
		}
	}
}

func TestEnd_ReturnsToIdle(t *testing.T) {
	c := NewController()
	require.NoError(t, c.Begin(taskB(), ModeResizeEnd, 42, true))

	finished := c.End()
	assert.Equal(t, PhaseDragging, finished.Phase)
	assert.Equal(t, "B", finished.TaskID)
	assert.Equal(t, ModeResizeEnd, finished.Mode)

	assert.Equal(t, State{Phase: PhaseIdle}, c.State())
	assert.NoError(t, c.Begin(taskB(), ModeMove, 0, true), "a new drag can start")
}

func TestState_JSON(t *testing.T) {
	c := NewController()
	data, err := json.Marshal(c.State())
	require.NoError(t, err)
	assert.JSONEq(t, `{"phase":"idle"}`, string(data))

	require.NoError(t, c.Begin(taskB(), ModeMove, 12.5, true))
	data, err = json.Marshal(c.State())
	require.NoError(t, err)
	var back State
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c.State(), back)
}

func TestProposal_Patch(t *testing.T) {
	p := Proposal{TaskID: "B", Start: date(1, 12), End: date(1, 19)}
	patch := p.Patch()
	require.NotNil(t, patch.StartDate)
	require.NotNil(t, patch.EndDate)
	assert.Equal(t, date(1, 12), *patch.StartDate)
	assert.Equal(t, []domain.Field{domain.FieldStartDate, domain.FieldEndDate}, patch.Fields())
}
