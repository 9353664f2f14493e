package domain

import (
	"math"
	"time"
)

// Day is the scheduling unit used for float, lag and drag deltas.
const Day = 24 * time.Hour

type Task struct {
	ID        string
	ProjectID string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Progress  float64 // 0..100

	IsMilestone bool

	// Set by the critical path calculator; not user-editable.
	IsCritical bool
	Float      float64 // days

	// Level is derived by the hierarchy flattener and never stored.
	Level int

	ParentID *string
	Children []string // display order

	AssignedTo string
	Status     TaskStatus

	ConstraintType     ConstraintType
	ConstraintDate     *time.Time
	ConstraintViolated bool

	WBSNumber string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers can hand out tasks without exposing
// the owner's slices and pointers.
func (t *Task) Clone() *Task {
	c := *t
	if t.ParentID != nil {
		p := *t.ParentID
		c.ParentID = &p
	}
	if t.ConstraintDate != nil {
		d := *t.ConstraintDate
		c.ConstraintDate = &d
	}
	if t.Children != nil {
		c.Children = append([]string(nil), t.Children...)
	}
	return &c
}

// HasParent reports whether the task carries a non-empty parent reference.
// It does not check that the parent resolves.
func (t *Task) HasParent() bool {
	return t.ParentID != nil && *t.ParentID != ""
}

// Duration returns EndDate - StartDate.
func (t *Task) Duration() time.Duration {
	return t.EndDate.Sub(t.StartDate)
}

// DurationDays returns the task duration in fractional days.
func (t *Task) DurationDays() float64 {
	return Days(t.Duration())
}

// ProgressFraction returns progress clamped to [0,1].
func (t *Task) ProgressFraction() float64 {
	return math.Max(0, math.Min(1, t.Progress/100))
}

// FieldValue returns the task's current value for f, typed as PatchFor
// expects it. A missing constraint date is returned as nil.
func (t *Task) FieldValue(f Field) any {
	switch f {
	case FieldName:
		return t.Name
	case FieldStartDate:
		return t.StartDate
	case FieldEndDate:
		return t.EndDate
	case FieldProgress:
		return t.Progress
	case FieldWBSNumber:
		return t.WBSNumber
	case FieldAssignedTo:
		return t.AssignedTo
	case FieldStatus:
		return t.Status
	case FieldConstraintType:
		return t.ConstraintType
	case FieldConstraintDate:
		if t.ConstraintDate == nil {
			return nil
		}
		return *t.ConstraintDate
	case FieldMilestone:
		return t.IsMilestone
	}
	return nil
}

// Days converts a duration to fractional days.
func Days(d time.Duration) float64 {
	return d.Hours() / 24
}

// AddDays shifts t by a (possibly fractional, possibly negative) number of days.
func AddDays(t time.Time, days float64) time.Time {
	return t.Add(time.Duration(days * float64(Day)))
}

// TruncateDay returns midnight of t's calendar day in t's location.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
