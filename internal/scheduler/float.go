// Package scheduler computes the heuristic float, critical set and
// constraint flags for a task network.
//
// The float calculation is not a CPM forward/backward pass. A task's float
// is measured only against the latest end (plus lag) of its direct
// predecessors, and link types are ignored.
package scheduler

import (
	"time"

	"github.com/constructbms/gantt/internal/domain"
)

// LatestPredecessorEnd returns the latest source.EndDate + lag over links
// targeting task whose source resolves in tasks. ok is false when no such
// link exists.
func LatestPredecessorEnd(task *domain.Task, tasks map[string]*domain.Task, links []*domain.Link) (latest time.Time, ok bool) {
	for _, l := range links {
		if l.TargetTaskID != task.ID {
			continue
		}
		src, found := tasks[l.SourceTaskID]
		if !found {
			continue
		}
		candidate := src.EndDate.Add(l.LagDuration())
		if !ok || candidate.After(latest) {
			latest = candidate
			ok = true
		}
	}
	return latest, ok
}

// Float returns max(0, task.EndDate - latest predecessor end) in days. With
// no resolvable predecessor the task's own start stands in for it.
func Float(task *domain.Task, tasks map[string]*domain.Task, links []*domain.Link) float64 {
	anchor, ok := LatestPredecessorEnd(task, tasks, links)
	if !ok {
		anchor = task.StartDate
	}
	f := domain.Days(task.EndDate.Sub(anchor))
	if f < 0 {
		return 0
	}
	return f
}

// index maps tasks by id. The first task wins on duplicate ids.
func index(tasks []*domain.Task) map[string]*domain.Task {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = t
		}
	}
	return byID
}
