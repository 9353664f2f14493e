package scheduler

import (
	"testing"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
)

func constrained(ct domain.ConstraintType, on time.Time) *domain.Task {
	t := mkTask("T", date(1, 6), date(1, 10))
	t.ConstraintType = ct
	t.ConstraintDate = &on
	return t
}

func TestConstraintViolated(t *testing.T) {
	tests := []struct {
		name string
		task *domain.Task
		want bool
	}{
		{"MSO on start", constrained(domain.ConstraintMSO, date(1, 6)), false},
		{"MSO off start", constrained(domain.ConstraintMSO, date(1, 7)), true},
		{"SNET satisfied", constrained(domain.ConstraintSNET, date(1, 6)), false},
		{"SNET broken", constrained(domain.ConstraintSNET, date(1, 7)), true},
		{"FNLT satisfied", constrained(domain.ConstraintFNLT, date(1, 10)), false},
		{"FNLT broken", constrained(domain.ConstraintFNLT, date(1, 9)), true},
		{"MFO on end", constrained(domain.ConstraintMFO, date(1, 10)), false},
		{"MFO off end", constrained(domain.ConstraintMFO, date(1, 11)), true},
		{"none", constrained(domain.ConstraintNone, date(1, 1)), false},
		{"MSO time of day ignored", constrained(domain.ConstraintMSO, date(1, 6).Add(15*time.Hour)), false},
		{"no date", mkTask("T", date(1, 6), date(1, 10)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConstraintViolated(tt.task))
		})
	}
}

func TestEvaluateConstraints_CoversEveryTask(t *testing.T) {
	ok := mkTask("ok", date(1, 1), date(1, 2))
	bad := constrained(domain.ConstraintFNLT, date(1, 1))
	bad.ID = "bad"

	got := EvaluateConstraints([]*domain.Task{ok, bad})
	assert.Equal(t, map[string]bool{"ok": false, "bad": true}, got)
}

func TestEarliestAllowedStart(t *testing.T) {
	a := mkTask("A", date(1, 1), date(1, 8))
	b := mkTask("B", date(1, 9), date(1, 12))
	tasks := []*domain.Task{a, b}

	got, ok := EarliestAllowedStart(b, tasks, []*domain.Link{fs("L", "A", "B", 1)})
	assert.True(t, ok)
	assert.Equal(t, date(1, 9), got)

	_, ok = EarliestAllowedStart(a, tasks, []*domain.Link{fs("L", "A", "B", 1)})
	assert.False(t, ok)
}
