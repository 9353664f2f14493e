package scheduler

import (
	"github.com/constructbms/gantt/internal/schedule"
)

// Recalculate runs the float, critical and constraint passes over the model
// and writes the results back onto its tasks.
func Recalculate(m *schedule.Model) Analysis {
	tasks := m.Tasks()
	a := Analyze(tasks, m.Links())

	critical := make(map[string]bool, len(a.Critical))
	for _, id := range a.Critical {
		critical[id] = true
	}
	results := make(map[string]schedule.AnalysisResult, len(a.Float))
	for id, f := range a.Float {
		results[id] = schedule.AnalysisResult{Float: f, IsCritical: critical[id]}
	}
	m.SetAnalysis(results)
	m.SetConstraintViolations(EvaluateConstraints(tasks))
	return a
}
