package scheduler

import (
	"github.com/constructbms/gantt/internal/domain"
)

// CriticalThresholdDays is the float at or below which a task is critical.
const CriticalThresholdDays = 1.0

// Analysis is the result of one float/critical pass.
type Analysis struct {
	Float map[string]float64
	// Critical lists critical task ids in input order.
	Critical []string
}

// IsCritical reports whether id is in the critical set.
func (a Analysis) IsCritical(id string) bool {
	for _, c := range a.Critical {
		if c == id {
			return true
		}
	}
	return false
}

// Analyze computes float for every task and the critical set. Tasks with
// float <= CriticalThresholdDays are critical. When none qualify on a
// non-empty list, the single longest task is marked instead (the first one
// wins ties) so the chart always highlights something.
func Analyze(tasks []*domain.Task, links []*domain.Link) Analysis {
	byID := index(tasks)
	a := Analysis{Float: make(map[string]float64, len(tasks))}

	for _, t := range tasks {
		if _, done := a.Float[t.ID]; done {
			continue
		}
		f := Float(t, byID, links)
		a.Float[t.ID] = f
		if f <= CriticalThresholdDays {
			a.Critical = append(a.Critical, t.ID)
		}
	}

	if len(a.Critical) == 0 && len(tasks) > 0 {
		a.Critical = []string{longest(tasks).ID}
	}
	return a
}

func longest(tasks []*domain.Task) *domain.Task {
	best := tasks[0]
	for _, t := range tasks[1:] {
		if t.Duration() > best.Duration() {
			best = t
		}
	}
	return best
}
