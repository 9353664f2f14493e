package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/hierarchy"
)

const dateLayout = "2006-01-02"

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(&schema.Project)...)

	taskRefs := make(map[string]bool)
	errs = append(errs, validateTasks(schema.Tasks, taskRefs)...)
	errs = append(errs, validateLinks(schema.Links, taskRefs)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	var errs []error

	if p.ShortID == "" {
		errs = append(errs, fmt.Errorf("project.short_id is required"))
	} else {
		probe := domain.Project{ShortID: strings.ToUpper(p.ShortID)}
		if err := probe.ValidateShortID(); err != nil {
			errs = append(errs, fmt.Errorf("project.short_id: %w", err))
		}
	}
	if p.Name == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	if p.StartDate == "" {
		errs = append(errs, fmt.Errorf("project.start_date is required"))
	} else if _, err := time.Parse(dateLayout, p.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("project.start_date: invalid date format %q (expected YYYY-MM-DD)", p.StartDate))
	}
	if p.TargetDate != nil {
		target, err := time.Parse(dateLayout, *p.TargetDate)
		if err != nil {
			errs = append(errs, fmt.Errorf("project.target_date: invalid date format %q (expected YYYY-MM-DD)", *p.TargetDate))
		} else if start, startErr := time.Parse(dateLayout, p.StartDate); startErr == nil && !target.After(start) {
			errs = append(errs, fmt.Errorf("project.target_date %q must be after start_date %q", *p.TargetDate, p.StartDate))
		}
	}

	return errs
}

func validateTasks(tasks []TaskImport, taskRefs map[string]bool) []error {
	var errs []error

	for i, t := range tasks {
		prefix := fmt.Sprintf("tasks[%d]", i)

		if t.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if taskRefs[t.Ref] {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, t.Ref))
		}

		if strings.TrimSpace(t.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		if t.ParentRef != nil && *t.ParentRef != "" && !taskRefs[*t.ParentRef] {
			errs = append(errs, fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in tasks list)", prefix, *t.ParentRef))
		}
		if t.Ref != "" {
			taskRefs[t.Ref] = true
		}

		errs = append(errs, validateTaskDates(prefix, t)...)

		if t.Progress != nil && (*t.Progress < 0 || *t.Progress > 100) {
			errs = append(errs, fmt.Errorf("%s.progress %v must be between 0 and 100", prefix, *t.Progress))
		}
		if t.Status != "" && !domain.ValidTaskStatuses[domain.TaskStatus(t.Status)] {
			errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
		}
		if !domain.ValidConstraintTypes[domain.ConstraintType(t.ConstraintType)] {
			errs = append(errs, fmt.Errorf("%s.constraint_type: invalid value %q", prefix, t.ConstraintType))
		} else if t.ConstraintType != "" && t.ConstraintType != string(domain.ConstraintNone) && t.ConstraintDate == nil {
			errs = append(errs, fmt.Errorf("%s.constraint_date is required for constraint %s", prefix, t.ConstraintType))
		}
		errs = append(errs, validateOptionalDate(prefix+".constraint_date", t.ConstraintDate)...)
		if t.WBS != "" && !hierarchy.ValidWBS(t.WBS) {
			errs = append(errs, fmt.Errorf("%s.wbs: invalid WBS number %q", prefix, t.WBS))
		}
	}

	return errs
}

func validateTaskDates(prefix string, t TaskImport) []error {
	start, err := time.Parse(dateLayout, t.Start)
	if t.Start == "" {
		return []error{fmt.Errorf("%s.start is required", prefix)}
	}
	if err != nil {
		return []error{fmt.Errorf("%s.start: invalid date format %q (expected YYYY-MM-DD)", prefix, t.Start)}
	}
	if t.End == "" {
		if t.Milestone {
			return nil
		}
		return []error{fmt.Errorf("%s.end is required", prefix)}
	}
	end, err := time.Parse(dateLayout, t.End)
	if err != nil {
		return []error{fmt.Errorf("%s.end: invalid date format %q (expected YYYY-MM-DD)", prefix, t.End)}
	}
	if end.Before(start) || (end.Equal(start) && !t.Milestone) {
		return []error{fmt.Errorf("%s.end %q must be after start %q", prefix, t.End, t.Start)}
	}
	return nil
}

func validateLinks(links []LinkImport, taskRefs map[string]bool) []error {
	var errs []error

	seen := make(map[[2]string]bool)
	for i, l := range links {
		prefix := fmt.Sprintf("links[%d]", i)

		if !taskRefs[l.SourceRef] {
			errs = append(errs, fmt.Errorf("%s.source_ref: ref %q not found", prefix, l.SourceRef))
		}
		if !taskRefs[l.TargetRef] {
			errs = append(errs, fmt.Errorf("%s.target_ref: ref %q not found", prefix, l.TargetRef))
		}
		if l.SourceRef == l.TargetRef {
			errs = append(errs, fmt.Errorf("%s: task %q cannot depend on itself", prefix, l.SourceRef))
		}
		if l.Type != "" && !domain.ValidLinkTypes[domain.LinkType(l.Type)] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, l.Type))
		}
		key := [2]string{l.SourceRef, l.TargetRef}
		if seen[key] {
			errs = append(errs, fmt.Errorf("%s: duplicate link %s -> %s", prefix, l.SourceRef, l.TargetRef))
		}
		seen[key] = true
	}

	errs = append(errs, detectCycles(links)...)
	return errs
}

// detectCycles uses DFS to find circular links.
func detectCycles(links []LinkImport) []error {
	graph := make(map[string][]string)
	for _, l := range links {
		if l.SourceRef == l.TargetRef {
			continue
		}
		graph[l.SourceRef] = append(graph[l.SourceRef], l.TargetRef)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var errs []error

	var dfs func(node string) bool
	dfs = func(node string) bool {
		color[node] = gray
		for _, next := range graph[node] {
			if color[next] == gray {
				errs = append(errs, fmt.Errorf("circular link detected involving %q and %q", node, next))
				return true
			}
			if color[next] == white && dfs(next) {
				return true
			}
		}
		color[node] = black
		return false
	}

	for _, l := range links {
		if color[l.SourceRef] == white {
			dfs(l.SourceRef)
		}
	}
	return errs
}

func validateOptionalDate(field string, dateStr *string) []error {
	if dateStr == nil {
		return nil
	}
	if _, err := time.Parse(dateLayout, *dateStr); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *dateStr)}
	}
	return nil
}
