package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/constructbms/gantt/internal/db"
	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/hierarchy"
	"github.com/constructbms/gantt/internal/repository"
	"github.com/constructbms/gantt/internal/schedule"
	"github.com/constructbms/gantt/internal/validate"
	"github.com/google/uuid"
)

type taskService struct {
	tasks    repository.TaskRepo
	links    repository.LinkRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, links repository.LinkRepo, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{tasks: tasks, links: links, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *taskService) Create(ctx context.Context, t *domain.Task) error {
	t.Name = strings.TrimSpace(t.Name)
	if t.Status == "" {
		t.Status = domain.StatusNotStarted
	}
	if t.ConstraintType == "" {
		t.ConstraintType = domain.ConstraintNone
	}
	if t.IsMilestone && t.EndDate.IsZero() {
		t.EndDate = t.StartDate
	}
	if err := validate.ValidateTask(t); err != nil {
		return err
	}
	if t.HasParent() {
		parent, err := s.tasks.GetByID(ctx, *t.ParentID)
		if err != nil {
			return fmt.Errorf("parent %s: %w", *t.ParentID, err)
		}
		if parent.ProjectID != t.ProjectID {
			return fmt.Errorf("parent %s belongs to another project", parent.ID)
		}
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	return s.tasks.Create(ctx, t)
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

// Update validates the patch as an explicit edit: a new start date may not
// precede the latest predecessor finish.
func (s *taskService) Update(ctx context.Context, id string, patch domain.TaskPatch) (updated *domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id, "fields": len(patch.Fields())}
	defer func() { observe(ctx, s.observer, "update_task", startedAt, err, fields) }()

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = validate.ValidatePatch(task, patch); err != nil {
		return nil, err
	}
	if patch.StartDate != nil {
		tasks, err := s.tasks.ListByProject(ctx, task.ProjectID)
		if err != nil {
			return nil, err
		}
		links, err := s.links.ListByProject(ctx, task.ProjectID)
		if err != nil {
			return nil, err
		}
		candidate := task.Clone()
		patch.ApplyTo(candidate)
		candidate.StartDate = task.StartDate
		if err := validate.ValidateExplicitEdit(candidate, domain.FieldStartDate, *patch.StartDate, tasks, links); err != nil {
			return nil, err
		}
	}
	if err = s.tasks.ApplyPatch(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

// Move applies the reparent to the loaded project model, then persists the
// new parent and the full display order in one transaction.
func (s *taskService) Move(ctx context.Context, id, parentID string, index int) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id, "parent_id": parentID, "index": index}
	defer func() { observe(ctx, s.observer, "move_task", startedAt, err, fields) }()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteTaskRepo(tx)
		task, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		tasks, err := repo.ListByProject(ctx, task.ProjectID)
		if err != nil {
			return err
		}
		model := schedule.NewModel(tasks, nil)
		if err := model.Reparent(id, parentID, index); err != nil {
			return err
		}

		moved, _ := model.Task(id)
		if err := repo.SetParent(ctx, id, moved.ParentID); err != nil {
			return err
		}
		all := model.Tasks()
		expanded := hierarchy.NewExpandState()
		expanded.ExpandAll(all)
		return repo.Reorder(ctx, hierarchy.VisibleIDs(hierarchy.Flatten(all, expanded)))
	})
}

// Delete removes one task. Children are kept and become roots; links that
// pointed at it stay and are ignored.
func (s *taskService) Delete(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}
