// Package validate checks task edits before they reach the model.
//
// There are two entry points. ValidatePatch serves drags and API updates and
// checks only the task itself. ValidateExplicitEdit serves the table view and
// additionally refuses a start date earlier than a predecessor's finish.
// Drags are deliberately not link-checked.
package validate

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/hierarchy"
	"github.com/constructbms/gantt/internal/scheduler"
)

const dateLayout = "2006-01-02"

// Validate checks a proposed value for one field of task. The task is read
// as it currently is; value is not applied.
func Validate(task *domain.Task, field domain.Field, value any) error {
	switch field {
	case domain.FieldName:
		s, ok := value.(string)
		if !ok {
			return unsupported(field, value)
		}
		if strings.TrimSpace(s) == "" {
			return fieldErr(field, value, ErrEmptyName, "")
		}

	case domain.FieldStartDate:
		d, ok := value.(time.Time)
		if !ok {
			return unsupported(field, value)
		}
		if !beforeEnd(d, task.EndDate, task.IsMilestone) {
			return fieldErr(field, value, ErrStartAfterEnd, "end is "+task.EndDate.Format(dateLayout))
		}

	case domain.FieldEndDate:
		d, ok := value.(time.Time)
		if !ok {
			return unsupported(field, value)
		}
		if !beforeEnd(task.StartDate, d, task.IsMilestone) {
			return fieldErr(field, value, ErrEndBeforeStart, "start is "+task.StartDate.Format(dateLayout))
		}

	case domain.FieldProgress:
		p, ok := toFloat(value)
		if !ok {
			return fieldErr(field, value, ErrProgressRange, "not a number")
		}
		if math.IsNaN(p) || p < 0 || p > 100 {
			return fieldErr(field, value, ErrProgressRange, "")
		}

	case domain.FieldWBSNumber:
		s, ok := value.(string)
		if !ok {
			return unsupported(field, value)
		}
		if s != "" && !hierarchy.ValidWBS(s) {
			return fieldErr(field, value, ErrInvalidWBS, "")
		}

	case domain.FieldAssignedTo:
		if _, ok := value.(string); !ok {
			return unsupported(field, value)
		}

	case domain.FieldStatus:
		s, ok := asString[domain.TaskStatus](value)
		if !ok {
			return unsupported(field, value)
		}
		if !domain.ValidTaskStatuses[s] {
			return fieldErr(field, value, ErrInvalidStatus, "")
		}

	case domain.FieldConstraintType:
		c, ok := asString[domain.ConstraintType](value)
		if !ok {
			return unsupported(field, value)
		}
		if !domain.ValidConstraintTypes[c] {
			return fieldErr(field, value, ErrInvalidConstraint, "")
		}

	case domain.FieldConstraintDate:
		switch value.(type) {
		case time.Time, nil:
		default:
			return unsupported(field, value)
		}

	case domain.FieldMilestone:
		b, ok := value.(bool)
		if !ok {
			return unsupported(field, value)
		}
		if !b && !task.StartDate.Before(task.EndDate) {
			return fieldErr(field, value, ErrEndBeforeStart, "a task needs a positive duration")
		}

	default:
		return unsupported(field, value)
	}
	return nil
}

// ValidatePatch checks every field the patch sets against a copy of task
// with the whole patch applied, so a move that shifts both dates is judged
// on the final pair. The first failing field is returned. Dependency links
// are not consulted.
func ValidatePatch(task *domain.Task, patch domain.TaskPatch) error {
	candidate := task.Clone()
	patch.ApplyTo(candidate)
	for _, f := range patch.Fields() {
		if err := Validate(candidate, f, patch.Value(f)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateExplicitEdit checks a single-field edit made by hand. Besides the
// field rules it blocks a start date earlier than the latest finish plus lag
// of the task's predecessors.
func ValidateExplicitEdit(task *domain.Task, field domain.Field, value any, tasks []*domain.Task, links []*domain.Link) error {
	if err := Validate(task, field, value); err != nil {
		return err
	}
	if field != domain.FieldStartDate {
		return nil
	}
	start := value.(time.Time)
	if earliest, ok := scheduler.EarliestAllowedStart(task, tasks, links); ok && start.Before(earliest) {
		return fieldErr(field, value, ErrDependencyOrder, "earliest allowed is "+earliest.Format(dateLayout))
	}
	return nil
}

// ValidateTask checks a whole task, as when it is created or imported, and
// joins every failure.
func ValidateTask(t *domain.Task) error {
	checks := []struct {
		field domain.Field
		value any
	}{
		{domain.FieldName, t.Name},
		{domain.FieldEndDate, t.EndDate},
		{domain.FieldProgress, t.Progress},
		{domain.FieldWBSNumber, t.WBSNumber},
		{domain.FieldConstraintType, t.ConstraintType},
	}
	var errs []error
	for _, c := range checks {
		if err := Validate(t, c.field, c.value); err != nil {
			errs = append(errs, err)
		}
	}
	if t.Status != "" {
		if err := Validate(t, domain.FieldStatus, t.Status); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func beforeEnd(start, end time.Time, milestone bool) bool {
	if milestone {
		return !start.After(end)
	}
	return start.Before(end)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// asString accepts either the named string type or a plain string.
func asString[T ~string](v any) (T, bool) {
	switch s := v.(type) {
	case T:
		return s, true
	case string:
		return T(s), true
	}
	return "", false
}

func unsupported(f domain.Field, value any) *FieldError {
	return fieldErr(f, value, ErrUnsupportedValue, "")
}
