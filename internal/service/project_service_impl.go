package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	p.ShortID = strings.ToUpper(p.ShortID)
	if err := p.ValidateShortID(); err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name is required")
	}
	if p.TargetDate != nil && !p.TargetDate.After(p.StartDate) {
		return fmt.Errorf("target date %s must be after start date %s",
			p.TargetDate.Format("2006-01-02"), p.StartDate.Format("2006-01-02"))
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	p, err := s.projects.GetByShortID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	p, err = s.projects.GetByID(ctx, ref)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("project %q: %w", ref, repository.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}
