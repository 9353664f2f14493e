package service

import (
	"context"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/importer"
)

// Store is the storage collaborator a Session loads from and saves to.
type Store interface {
	LoadTasks(ctx context.Context, projectID string) ([]*domain.Task, error)
	LoadLinks(ctx context.Context, projectID string) ([]*domain.Link, error)
	UpdateTask(ctx context.Context, taskID string, patch domain.TaskPatch) error
	SaveWBSNumbering(ctx context.Context, tasks []*domain.Task) error
	BatchUpdateTasks(ctx context.Context, updates []domain.TaskUpdate) domain.BatchResult
}

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	// Resolve accepts either a project id or its short id.
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type TaskService interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	// Move reparents a task under parentID ("" for the root level) at
	// index among its new siblings (-1 appends).
	Move(ctx context.Context, id, parentID string, index int) error
	Delete(ctx context.Context, id string) error
}

type LinkService interface {
	Create(ctx context.Context, l *domain.Link) error
	ListByProject(ctx context.Context, projectID string) ([]*domain.Link, error)
	Delete(ctx context.Context, id string) error
}

// ImportResult holds the outcome of a project import.
type ImportResult struct {
	Project   *domain.Project
	TaskCount int
	LinkCount int
}

type ImportService interface {
	ImportProject(ctx context.Context, filePath string) (*ImportResult, error)
	ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
