package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// BaseDate anchors fixture schedules: Wednesday 2025-01-01 UTC.
var BaseDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Day returns BaseDate shifted by n days.
func Day(n int) time.Time {
	return BaseDate.AddDate(0, 0, n)
}

// Project options
type ProjectOption func(*domain.Project)

func WithTargetDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.TargetDate = &d
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		StartDate: BaseDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &id
	}
}

// WithDays sets the task to run from Day(start) to Day(end).
func WithDays(start, end int) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = Day(start)
		t.EndDate = Day(end)
	}
}

func WithProgress(p float64) TaskOption {
	return func(t *domain.Task) {
		t.Progress = p
	}
}

func WithStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
	}
}

func WithAssignee(name string) TaskOption {
	return func(t *domain.Task) {
		t.AssignedTo = name
	}
}

func WithConstraint(c domain.ConstraintType, d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.ConstraintType = c
		t.ConstraintDate = &d
	}
}

func WithWBS(wbs string) TaskOption {
	return func(t *domain.Task) {
		t.WBSNumber = wbs
	}
}

// AsMilestone collapses the task to a single instant at its start.
func AsMilestone() TaskOption {
	return func(t *domain.Task) {
		t.IsMilestone = true
		t.EndDate = t.StartDate
	}
}

// NewTestTask returns a five-day task starting at BaseDate.
func NewTestTask(projectID, name string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC().Truncate(time.Second)
	t := &domain.Task{
		ID:             uuid.New().String(),
		ProjectID:      projectID,
		Name:           name,
		StartDate:      Day(0),
		EndDate:        Day(5),
		Status:         domain.StatusNotStarted,
		ConstraintType: domain.ConstraintNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Link options
type LinkOption func(*domain.Link)

func WithLinkType(lt domain.LinkType) LinkOption {
	return func(l *domain.Link) {
		l.Type = lt
	}
}

func WithLag(days float64) LinkOption {
	return func(l *domain.Link) {
		l.Lag = days
	}
}

// NewTestLink returns a finish-to-start link with no lag.
func NewTestLink(projectID, sourceID, targetID string, opts ...LinkOption) *domain.Link {
	l := &domain.Link{
		ID:           uuid.New().String(),
		ProjectID:    projectID,
		SourceTaskID: sourceID,
		TargetTaskID: targetID,
		Type:         domain.LinkFinishToStart,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
