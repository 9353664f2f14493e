package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/constructbms/gantt/internal/domain"
)

func resolveProject(ctx context.Context, app *App, ref string) (*domain.Project, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	p, err := app.Projects.Resolve(ctx, ref)
	if err == nil {
		return p, nil
	}

	projects, listErr := app.Projects.List(ctx)
	if listErr != nil {
		return nil, listErr
	}
	var matches []*domain.Project
	for _, p := range projects {
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return nil, err
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

// resolveTask matches ref against task ids, WBS numbers and id prefixes,
// in that order.
func resolveTask(tasks []*domain.Task, ref string) (*domain.Task, error) {
	if ref == "" {
		return nil, fmt.Errorf("task ID is required")
	}
	for _, t := range tasks {
		if t.ID == ref {
			return t, nil
		}
	}
	for _, t := range tasks {
		if t.WBSNumber != "" && t.WBSNumber == ref {
			return t, nil
		}
	}

	var matches []*domain.Task
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("task not found: %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("task ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func resolveLink(links []*domain.Link, ref string) (*domain.Link, error) {
	var matches []*domain.Link
	for _, l := range links {
		if l.ID == ref {
			return l, nil
		}
		if strings.HasPrefix(l.ID, ref) {
			matches = append(matches, l)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("link not found: %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("link ID prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func taskNames(tasks []*domain.Task) map[string]string {
	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	return names
}
