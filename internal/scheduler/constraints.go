package scheduler

import (
	"time"

	"github.com/constructbms/gantt/internal/domain"
)

// ConstraintViolated reports whether the task's current dates break its
// date constraint. Comparison is at day granularity. Constraints are shown,
// never enforced.
func ConstraintViolated(t *domain.Task) bool {
	if t.ConstraintDate == nil {
		return false
	}
	c := domain.TruncateDay(*t.ConstraintDate)
	start := domain.TruncateDay(t.StartDate)
	end := domain.TruncateDay(t.EndDate)

	switch t.ConstraintType {
	case domain.ConstraintMSO:
		return !start.Equal(c)
	case domain.ConstraintSNET:
		return start.Before(c)
	case domain.ConstraintFNLT:
		return end.After(c)
	case domain.ConstraintMFO:
		return !end.Equal(c)
	default:
		return false
	}
}

// EvaluateConstraints returns the violation flag for every task.
func EvaluateConstraints(tasks []*domain.Task) map[string]bool {
	out := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		out[t.ID] = ConstraintViolated(t)
	}
	return out
}

// EarliestAllowedStart is the start date a task may not precede under the
// dependency rule: the latest predecessor end plus lag. ok is false when the
// task has no resolvable predecessor.
func EarliestAllowedStart(task *domain.Task, tasks []*domain.Task, links []*domain.Link) (time.Time, bool) {
	return LatestPredecessorEnd(task, index(tasks), links)
}
