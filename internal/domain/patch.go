package domain

import "time"

// TaskPatch carries a partial update. Nil fields are left untouched.
// ClearConstraintDate distinguishes "unset the date" from "leave it alone".
type TaskPatch struct {
	Name                *string
	StartDate           *time.Time
	EndDate             *time.Time
	Progress            *float64
	IsMilestone         *bool
	AssignedTo          *string
	Status              *TaskStatus
	ConstraintType      *ConstraintType
	ConstraintDate      *time.Time
	ClearConstraintDate bool
	WBSNumber           *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields lists the fields the patch sets, in a stable order.
func (p TaskPatch) Fields() []Field {
	var fs []Field
	if p.Name != nil {
		fs = append(fs, FieldName)
	}
	if p.StartDate != nil {
		fs = append(fs, FieldStartDate)
	}
	if p.EndDate != nil {
		fs = append(fs, FieldEndDate)
	}
	if p.Progress != nil {
		fs = append(fs, FieldProgress)
	}
	if p.WBSNumber != nil {
		fs = append(fs, FieldWBSNumber)
	}
	if p.AssignedTo != nil {
		fs = append(fs, FieldAssignedTo)
	}
	if p.Status != nil {
		fs = append(fs, FieldStatus)
	}
	if p.ConstraintType != nil {
		fs = append(fs, FieldConstraintType)
	}
	if p.ConstraintDate != nil || p.ClearConstraintDate {
		fs = append(fs, FieldConstraintDate)
	}
	if p.IsMilestone != nil {
		fs = append(fs, FieldMilestone)
	}
	return fs
}

// Value returns the patch value for f as an untyped value, or nil when the
// field is not set.
func (p TaskPatch) Value(f Field) any {
	switch f {
	case FieldName:
		if p.Name != nil {
			return *p.Name
		}
	case FieldStartDate:
		if p.StartDate != nil {
			return *p.StartDate
		}
	case FieldEndDate:
		if p.EndDate != nil {
			return *p.EndDate
		}
	case FieldProgress:
		if p.Progress != nil {
			return *p.Progress
		}
	case FieldWBSNumber:
		if p.WBSNumber != nil {
			return *p.WBSNumber
		}
	case FieldAssignedTo:
		if p.AssignedTo != nil {
			return *p.AssignedTo
		}
	case FieldStatus:
		if p.Status != nil {
			return *p.Status
		}
	case FieldConstraintType:
		if p.ConstraintType != nil {
			return *p.ConstraintType
		}
	case FieldConstraintDate:
		if p.ConstraintDate != nil {
			return *p.ConstraintDate
		}
	case FieldMilestone:
		if p.IsMilestone != nil {
			return *p.IsMilestone
		}
	}
	return nil
}

// ApplyTo writes every set field onto t.
func (p TaskPatch) ApplyTo(t *Task) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.StartDate != nil {
		t.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		t.EndDate = *p.EndDate
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	if p.IsMilestone != nil {
		t.IsMilestone = *p.IsMilestone
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.ConstraintType != nil {
		t.ConstraintType = *p.ConstraintType
	}
	if p.ClearConstraintDate {
		t.ConstraintDate = nil
	}
	if p.ConstraintDate != nil {
		d := *p.ConstraintDate
		t.ConstraintDate = &d
	}
	if p.WBSNumber != nil {
		t.WBSNumber = *p.WBSNumber
	}
}

// PatchFor builds a single-field patch from a typed value. It returns false
// when the value's type does not match the field.
func PatchFor(f Field, value any) (TaskPatch, bool) {
	var p TaskPatch
	switch f {
	case FieldName, FieldWBSNumber, FieldAssignedTo:
		s, ok := value.(string)
		if !ok {
			return p, false
		}
		switch f {
		case FieldName:
			p.Name = &s
		case FieldWBSNumber:
			p.WBSNumber = &s
		default:
			p.AssignedTo = &s
		}
	case FieldStartDate, FieldEndDate:
		d, ok := value.(time.Time)
		if !ok {
			return p, false
		}
		if f == FieldStartDate {
			p.StartDate = &d
		} else {
			p.EndDate = &d
		}
	case FieldProgress:
		v, ok := value.(float64)
		if !ok {
			return p, false
		}
		p.Progress = &v
	case FieldStatus:
		s, ok := value.(TaskStatus)
		if !ok {
			return p, false
		}
		p.Status = &s
	case FieldConstraintType:
		c, ok := value.(ConstraintType)
		if !ok {
			return p, false
		}
		p.ConstraintType = &c
	case FieldConstraintDate:
		switch v := value.(type) {
		case time.Time:
			p.ConstraintDate = &v
		case nil:
			p.ClearConstraintDate = true
		default:
			return p, false
		}
	case FieldMilestone:
		b, ok := value.(bool)
		if !ok {
			return p, false
		}
		p.IsMilestone = &b
	default:
		return p, false
	}
	return p, true
}

// TaskUpdate pairs a task id with the patch to apply to it.
type TaskUpdate struct {
	TaskID string
	Patch  TaskPatch
}

// BatchFailure is one rejected entry of a batch update.
type BatchFailure struct {
	TaskID string
	Err    string
}

// BatchResult reports a batch update. Failures never abort the remaining
// entries.
type BatchResult struct {
	Updated  []string
	Failures []BatchFailure
}

// OK reports whether every entry succeeded.
func (r BatchResult) OK() bool { return len(r.Failures) == 0 }

// Fail records a failed entry.
func (r *BatchResult) Fail(taskID string, err error) {
	r.Failures = append(r.Failures, BatchFailure{TaskID: taskID, Err: err.Error()})
}
