package service

import (
	"context"
	"fmt"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/repository"
	"github.com/google/uuid"
)

type linkService struct {
	links repository.LinkRepo
	tasks repository.TaskRepo
}

func NewLinkService(links repository.LinkRepo, tasks repository.TaskRepo) LinkService {
	return &linkService{links: links, tasks: tasks}
}

// Create checks that both endpoints exist in the link's project. Links are
// only checked on creation; one whose task is removed later stays inert.
func (s *linkService) Create(ctx context.Context, l *domain.Link) error {
	if l.Type == "" {
		l.Type = domain.LinkFinishToStart
	}
	if !domain.ValidLinkTypes[l.Type] {
		return fmt.Errorf("invalid link type %q", l.Type)
	}
	if l.SourceTaskID == l.TargetTaskID {
		return fmt.Errorf("task %s cannot depend on itself", l.SourceTaskID)
	}
	for _, id := range []string{l.SourceTaskID, l.TargetTaskID} {
		t, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("link endpoint %s: %w", id, err)
		}
		if l.ProjectID == "" {
			l.ProjectID = t.ProjectID
		}
		if t.ProjectID != l.ProjectID {
			return fmt.Errorf("link endpoint %s belongs to another project", id)
		}
	}
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	l.CreatedAt = time.Now().UTC()
	return s.links.Create(ctx, l)
}

func (s *linkService) ListByProject(ctx context.Context, projectID string) ([]*domain.Link, error) {
	return s.links.ListByProject(ctx, projectID)
}

func (s *linkService) Delete(ctx context.Context, id string) error {
	return s.links.Delete(ctx, id)
}
