package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/constructbms/gantt/internal/db"
	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/repository"
	"github.com/constructbms/gantt/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testRepos struct {
	db       *sql.DB
	uow      db.UnitOfWork
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	links    repository.LinkRepo
}

func setupRepos(t *testing.T) testRepos {
	t.Helper()
	database := testutil.NewTestDB(t)
	return testRepos{
		db:       database,
		uow:      testutil.NewTestUoW(database),
		projects: repository.NewSQLiteProjectRepo(database),
		tasks:    repository.NewSQLiteTaskRepo(database),
		links:    repository.NewSQLiteLinkRepo(database),
	}
}

// seedProject stores a project and returns it.
func seedProject(t *testing.T, r testRepos, shortID string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject("Warehouse "+shortID, testutil.WithShortID(shortID))
	require.NoError(t, r.projects.Create(context.Background(), p))
	return p
}

// seedTask stores a task and returns it.
func seedTask(t *testing.T, r testRepos, task *domain.Task) *domain.Task {
	t.Helper()
	require.NoError(t, r.tasks.Create(context.Background(), task))
	return task
}

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }
