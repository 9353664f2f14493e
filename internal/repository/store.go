package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/constructbms/gantt/internal/db"
	"github.com/constructbms/gantt/internal/domain"
)

// SQLiteStore is the storage collaborator a scheduling session loads from
// and saves to. Single-task writes go straight to the pool; multi-row
// writes run in one transaction.
type SQLiteStore struct {
	db    *sql.DB
	uow   db.UnitOfWork
	tasks *SQLiteTaskRepo
	links *SQLiteLinkRepo
}

func NewSQLiteStore(database *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:    database,
		uow:   db.NewSQLiteUnitOfWork(database),
		tasks: NewSQLiteTaskRepo(database),
		links: NewSQLiteLinkRepo(database),
	}
}

func (s *SQLiteStore) LoadTasks(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *SQLiteStore) LoadLinks(ctx context.Context, projectID string) ([]*domain.Link, error) {
	return s.links.ListByProject(ctx, projectID)
}

func (s *SQLiteStore) UpdateTask(ctx context.Context, taskID string, patch domain.TaskPatch) error {
	return s.tasks.ApplyPatch(ctx, taskID, patch)
}

// SaveWBSNumbering writes every task's WBSNumber in one transaction.
func (s *SQLiteStore) SaveWBSNumbering(ctx context.Context, tasks []*domain.Task) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := NewSQLiteTaskRepo(tx)
		for _, t := range tasks {
			if err := repo.SetWBS(ctx, t.ID, t.WBSNumber); err != nil {
				return fmt.Errorf("saving wbs numbering: %w", err)
			}
		}
		return nil
	})
}

// BatchUpdateTasks applies each update on its own. A failing entry is
// recorded and the rest still run.
func (s *SQLiteStore) BatchUpdateTasks(ctx context.Context, updates []domain.TaskUpdate) domain.BatchResult {
	var res domain.BatchResult
	for _, u := range updates {
		if err := s.tasks.ApplyPatch(ctx, u.TaskID, u.Patch); err != nil {
			res.Fail(u.TaskID, err)
			continue
		}
		res.Updated = append(res.Updated, u.TaskID)
	}
	return res
}
