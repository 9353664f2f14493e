// Package repository persists projects, tasks and links in SQLite.
package repository

import (
	"context"
	"errors"

	"github.com/constructbms/gantt/internal/domain"
)

// ErrNotFound is wrapped by every lookup that matches no row.
var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	ApplyPatch(ctx context.Context, id string, patch domain.TaskPatch) error
	SetParent(ctx context.Context, id string, parentID *string) error
	SetWBS(ctx context.Context, id, wbs string) error
	Reorder(ctx context.Context, ids []string) error
	NextOrderIndex(ctx context.Context, projectID string) (int, error)
	Delete(ctx context.Context, id string) error
}

type LinkRepo interface {
	Create(ctx context.Context, l *domain.Link) error
	GetByID(ctx context.Context, id string) (*domain.Link, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Link, error)
	Delete(ctx context.Context, id string) error
}
