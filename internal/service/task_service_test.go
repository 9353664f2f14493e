package service

import (
	"context"
	"testing"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/repository"
	"github.com/constructbms/gantt/internal/schedule"
	"github.com/constructbms/gantt/internal/testutil"
	"github.com/constructbms/gantt/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskService(r testRepos, observers ...UseCaseObserver) TaskService {
	return NewTaskService(r.tasks, r.links, r.uow, observers...)
}

func TestTaskService_Create_AppliesDefaults(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "TSK01")
	svc := newTaskService(r)

	task := &domain.Task{
		ProjectID:   p.ID,
		Name:        "  Handover  ",
		StartDate:   testutil.Day(20),
		IsMilestone: true,
	}
	require.NoError(t, svc.Create(ctx, task))
	assert.NotEmpty(t, task.ID)

	got, err := svc.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Handover", got.Name)
	assert.Equal(t, domain.StatusNotStarted, got.Status)
	assert.Equal(t, domain.ConstraintNone, got.ConstraintType)
	assert.True(t, got.EndDate.Equal(testutil.Day(20)), "milestone end defaults to start")
}

func TestTaskService_Create_Rejects(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "TSK02")
	other := seedProject(t, r, "TSK03")
	foreign := seedTask(t, r, testutil.NewTestTask(other.ID, "Elsewhere"))
	svc := newTaskService(r)

	err := svc.Create(ctx, &domain.Task{ProjectID: p.ID, Name: "", StartDate: testutil.Day(0), EndDate: testutil.Day(1)})
	assert.ErrorIs(t, err, validate.ErrEmptyName)

	err = svc.Create(ctx, &domain.Task{ProjectID: p.ID, Name: "Backwards", StartDate: testutil.Day(3), EndDate: testutil.Day(1)})
	assert.ErrorIs(t, err, validate.ErrEndBeforeStart)

	err = svc.Create(ctx, &domain.Task{ProjectID: p.ID, Name: "Orphan", StartDate: testutil.Day(0), EndDate: testutil.Day(1), ParentID: strPtr("missing")})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = svc.Create(ctx, &domain.Task{ProjectID: p.ID, Name: "Stray", StartDate: testutil.Day(0), EndDate: testutil.Day(1), ParentID: &foreign.ID})
	assert.ErrorContains(t, err, "another project")

	tasks, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_Update(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "UPD01")
	a := seedTask(t, r, testutil.NewTestTask(p.ID, "Footings", testutil.WithDays(0, 5)))
	b := seedTask(t, r, testutil.NewTestTask(p.ID, "Slab", testutil.WithDays(5, 9)))
	require.NoError(t, r.links.Create(ctx, testutil.NewTestLink(p.ID, a.ID, b.ID)))

	var buf syncBuffer
	svc := newTaskService(r, NewLogUseCaseObserver(&buf))

	t.Run("accepted patch is stored", func(t *testing.T) {
		got, err := svc.Update(ctx, b.ID, domain.TaskPatch{Progress: floatPtr(25), AssignedTo: strPtr("Crew B")})
		require.NoError(t, err)
		assert.Equal(t, 25.0, got.Progress)
		assert.Equal(t, "Crew B", got.AssignedTo)
		assert.Contains(t, buf.String(), "use_case=update_task")
	})

	t.Run("start before predecessor finish", func(t *testing.T) {
		early := testutil.Day(3)
		_, err := svc.Update(ctx, b.ID, domain.TaskPatch{StartDate: &early})
		assert.ErrorIs(t, err, validate.ErrDependencyOrder)

		stored, err := svc.GetByID(ctx, b.ID)
		require.NoError(t, err)
		assert.True(t, stored.StartDate.Equal(testutil.Day(5)))
	})

	t.Run("start on predecessor finish", func(t *testing.T) {
		start, end := testutil.Day(6), testutil.Day(10)
		got, err := svc.Update(ctx, b.ID, domain.TaskPatch{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		assert.True(t, got.StartDate.Equal(start))
	})

	t.Run("progress out of range", func(t *testing.T) {
		_, err := svc.Update(ctx, a.ID, domain.TaskPatch{Progress: floatPtr(101)})
		assert.ErrorIs(t, err, validate.ErrProgressRange)
	})

	t.Run("unknown task", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", domain.TaskPatch{Progress: floatPtr(1)})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestTaskService_Move(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "MOV01")
	a := seedTask(t, r, testutil.NewTestTask(p.ID, "A"))
	b := seedTask(t, r, testutil.NewTestTask(p.ID, "B"))
	c := seedTask(t, r, testutil.NewTestTask(p.ID, "C"))
	svc := newTaskService(r)

	require.NoError(t, svc.Move(ctx, c.ID, a.ID, 0))

	tasks, err := svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, ids(tasks), "C now sits under A")
	require.True(t, tasks[1].HasParent())
	assert.Equal(t, a.ID, *tasks[1].ParentID)

	err = svc.Move(ctx, a.ID, c.ID, -1)
	assert.ErrorIs(t, err, schedule.ErrCycle)

	require.NoError(t, svc.Move(ctx, c.ID, "", 0))
	tasks, err = svc.ListByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID, b.ID}, ids(tasks), "a new root keeps its list position")
	assert.False(t, tasks[1].HasParent())
}

func TestTaskService_Move_RollsBackOnFailure(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "MOV02")
	a := seedTask(t, r, testutil.NewTestTask(p.ID, "A"))
	b := seedTask(t, r, testutil.NewTestTask(p.ID, "B"))

	// #1 = set parent, #2 = first reorder update.
	failUoW := &testutil.FailOnNthExecUoW{DB: r.db, FailOn: 2, Err: assert.AnError}
	svc := NewTaskService(r.tasks, r.links, failUoW)

	err := svc.Move(ctx, b.ID, a.ID, -1)
	require.ErrorIs(t, err, assert.AnError)

	stored, err := r.tasks.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, stored.HasParent(), "parent change rolled back")
}

func TestTaskService_Delete_OrphansChildren(t *testing.T) {
	r := setupRepos(t)
	ctx := context.Background()
	p := seedProject(t, r, "DEL01")
	parent := seedTask(t, r, testutil.NewTestTask(p.ID, "Phase"))
	child := seedTask(t, r, testutil.NewTestTask(p.ID, "Step", testutil.WithParent(parent.ID)))
	svc := newTaskService(r)

	require.NoError(t, svc.Delete(ctx, parent.ID))
	got, err := svc.GetByID(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, got.HasParent())

	assert.ErrorIs(t, svc.Delete(ctx, parent.ID), repository.ErrNotFound)
}

func ids(tasks []*domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
