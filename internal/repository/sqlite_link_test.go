package repository

import (
	"context"
	"testing"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkRepo_CreateListDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Links")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	repo := NewSQLiteLinkRepo(db)

	l := testutil.NewTestLink(proj.ID, "a", "b", testutil.WithLinkType(domain.LinkStartToStart), testutil.WithLag(-1.5))
	require.NoError(t, repo.Create(ctx, l))

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkStartToStart, got.Type)
	assert.Equal(t, -1.5, got.Lag)
	assert.Equal(t, "a", got.SourceTaskID)

	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, l.ID))
	_, err = repo.GetByID(ctx, l.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, l.ID), ErrNotFound)
}

func TestLinkRepo_DefaultTypeAndSelfLink(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Links")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	repo := NewSQLiteLinkRepo(db)

	l := testutil.NewTestLink(proj.ID, "a", "b", testutil.WithLinkType(""))
	require.NoError(t, repo.Create(ctx, l))
	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LinkFinishToStart, got.Type)

	assert.Error(t, repo.Create(ctx, testutil.NewTestLink(proj.ID, "a", "a")))
}

func TestLinkRepo_SurvivesEndpointDeletion(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := testutil.NewTestProject("Inert")
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, proj))
	tasks := NewSQLiteTaskRepo(db)
	links := NewSQLiteLinkRepo(db)

	a := testutil.NewTestTask(proj.ID, "A")
	b := testutil.NewTestTask(proj.ID, "B")
	require.NoError(t, tasks.Create(ctx, a))
	require.NoError(t, tasks.Create(ctx, b))
	require.NoError(t, links.Create(ctx, testutil.NewTestLink(proj.ID, a.ID, b.ID)))

	require.NoError(t, tasks.Delete(ctx, a.ID))

	list, err := links.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
