package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/google/uuid"
)

// GeneratedSchedule is a converted import ready for persistence. Tasks are
// ordered parents first.
type GeneratedSchedule struct {
	Project *domain.Project
	Tasks   []*domain.Task
	Links   []*domain.Link
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*GeneratedSchedule, error) {
	random := func() string { return uuid.New().String() }
	return convert(schema, idScheme{
		project: random,
		task:    func(string) string { return random() },
		link:    func(int) string { return random() },
	})
}

// idScheme decides the ids a conversion assigns.
type idScheme struct {
	project func() string
	task    func(ref string) string
	link    func(i int) string
}

func convert(schema *ImportSchema, ids idScheme) (*GeneratedSchedule, error) {
	now := time.Now().UTC().Truncate(time.Second)

	startDate, err := time.Parse(dateLayout, schema.Project.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	var targetDate *time.Time
	if schema.Project.TargetDate != nil {
		t, err := time.Parse(dateLayout, *schema.Project.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("parsing target_date: %w", err)
		}
		targetDate = &t
	}

	project := &domain.Project{
		ID:         ids.project(),
		ShortID:    strings.ToUpper(schema.Project.ShortID),
		Name:       schema.Project.Name,
		StartDate:  startDate,
		TargetDate: targetDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	refMap := make(map[string]string, len(schema.Tasks)) // ref -> id
	tasks := make([]*domain.Task, 0, len(schema.Tasks))
	for _, ti := range schema.Tasks {
		task, err := convertTask(ti, project.ID, now)
		if err != nil {
			return nil, err
		}
		task.ID = ids.task(ti.Ref)
		refMap[ti.Ref] = task.ID
		if ti.ParentRef != nil && *ti.ParentRef != "" {
			if pid, ok := refMap[*ti.ParentRef]; ok {
				task.ParentID = &pid
			}
		}
		tasks = append(tasks, task)
	}

	links := make([]*domain.Link, 0, len(schema.Links))
	for i, li := range schema.Links {
		linkType := domain.LinkType(li.Type)
		if linkType == "" {
			linkType = domain.LinkFinishToStart
		}
		links = append(links, &domain.Link{
			ID:           ids.link(i),
			ProjectID:    project.ID,
			SourceTaskID: refMap[li.SourceRef],
			TargetTaskID: refMap[li.TargetRef],
			Type:         linkType,
			Lag:          li.Lag,
			CreatedAt:    now,
		})
	}

	return &GeneratedSchedule{Project: project, Tasks: tasks, Links: links}, nil
}

func convertTask(ti TaskImport, projectID string, now time.Time) (*domain.Task, error) {
	start, err := time.Parse(dateLayout, ti.Start)
	if err != nil {
		return nil, fmt.Errorf("task %q: parsing start: %w", ti.Ref, err)
	}
	end := start
	if ti.End != "" {
		if end, err = time.Parse(dateLayout, ti.End); err != nil {
			return nil, fmt.Errorf("task %q: parsing end: %w", ti.Ref, err)
		}
	}

	task := &domain.Task{
		ProjectID:      projectID,
		Name:           strings.TrimSpace(ti.Name),
		StartDate:      start,
		EndDate:        end,
		IsMilestone:    ti.Milestone,
		AssignedTo:     ti.AssignedTo,
		Progress:       domain.ValueOr(ti.Progress, 0),
		Status:         domain.Coalesce(domain.TaskStatus(ti.Status), domain.StatusNotStarted),
		ConstraintType: domain.Coalesce(domain.ConstraintType(ti.ConstraintType), domain.ConstraintNone),
		WBSNumber:      ti.WBS,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if ti.ConstraintDate != nil {
		d, err := time.Parse(dateLayout, *ti.ConstraintDate)
		if err != nil {
			return nil, fmt.Errorf("task %q: parsing constraint_date: %w", ti.Ref, err)
		}
		task.ConstraintDate = &d
	}
	return task, nil
}
