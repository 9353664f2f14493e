package repository

import (
	"context"
	"testing"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreFixture(t *testing.T) (*SQLiteStore, string, []*domain.Task) {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Store")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))

	repo := NewSQLiteTaskRepo(db)
	a := testutil.NewTestTask(proj.ID, "A")
	b := testutil.NewTestTask(proj.ID, "B", testutil.WithParent(a.ID))
	c := testutil.NewTestTask(proj.ID, "C")
	for _, task := range []*domain.Task{a, b, c} {
		require.NoError(t, repo.Create(ctx, task))
	}
	require.NoError(t, NewSQLiteLinkRepo(db).Create(ctx, testutil.NewTestLink(proj.ID, a.ID, c.ID)))
	return NewSQLiteStore(db), proj.ID, []*domain.Task{a, b, c}
}

func TestStore_Load(t *testing.T) {
	store, projectID, tasks := newStoreFixture(t)
	ctx := context.Background()

	loaded, err := store.LoadTasks(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, tasks[0].ID, loaded[0].ID)

	links, err := store.LoadLinks(ctx, projectID)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}

func TestStore_SaveWBSNumbering(t *testing.T) {
	store, projectID, tasks := newStoreFixture(t)
	ctx := context.Background()

	tasks[0].WBSNumber = "1"
	tasks[1].WBSNumber = "1.2"
	tasks[2].WBSNumber = "3"
	require.NoError(t, store.SaveWBSNumbering(ctx, tasks))

	loaded, err := store.LoadTasks(ctx, projectID)
	require.NoError(t, err)
	got := map[string]string{}
	for _, task := range loaded {
		got[task.Name] = task.WBSNumber
	}
	assert.Equal(t, map[string]string{"A": "1", "B": "1.2", "C": "3"}, got)
}

func TestStore_SaveWBSNumbering_RollsBackOnMissingTask(t *testing.T) {
	store, projectID, tasks := newStoreFixture(t)
	ctx := context.Background()

	tasks[0].WBSNumber = "9"
	ghost := &domain.Task{ID: "ghost", WBSNumber: "2"}
	err := store.SaveWBSNumbering(ctx, []*domain.Task{tasks[0], ghost})
	assert.ErrorIs(t, err, ErrNotFound)

	loaded, err := store.LoadTasks(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, "", loaded[0].WBSNumber, "first write rolled back")
}

func TestStore_BatchUpdateTasks_CollectsFailures(t *testing.T) {
	store, projectID, tasks := newStoreFixture(t)
	ctx := context.Background()

	p := 50.0
	bad := 150.0
	res := store.BatchUpdateTasks(ctx, []domain.TaskUpdate{
		{TaskID: tasks[0].ID, Patch: domain.TaskPatch{Progress: &p}},
		{TaskID: "missing", Patch: domain.TaskPatch{Progress: &p}},
		{TaskID: tasks[1].ID, Patch: domain.TaskPatch{Progress: &bad}},
		{TaskID: tasks[2].ID, Patch: domain.TaskPatch{Progress: &p}},
	})

	assert.False(t, res.OK())
	assert.Equal(t, []string{tasks[0].ID, tasks[2].ID}, res.Updated)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "missing", res.Failures[0].TaskID)
	assert.Contains(t, res.Failures[0].Err, "not found")
	assert.Equal(t, tasks[1].ID, res.Failures[1].TaskID)

	loaded, err := store.LoadTasks(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, loaded[2].Progress)
}
