package domain

type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusDelayed    TaskStatus = "delayed"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[TaskStatus]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusDelayed:    true,
}

type ConstraintType string

const (
	ConstraintNone ConstraintType = "none"
	ConstraintMSO  ConstraintType = "MSO"  // must start on
	ConstraintSNET ConstraintType = "SNET" // start no earlier than
	ConstraintFNLT ConstraintType = "FNLT" // finish no later than
	ConstraintMFO  ConstraintType = "MFO"  // must finish on
)

// ValidConstraintTypes is the canonical set of accepted constraint types.
// The empty string is accepted as an alias for ConstraintNone.
var ValidConstraintTypes = map[ConstraintType]bool{
	"":             true,
	ConstraintNone: true,
	ConstraintMSO:  true,
	ConstraintSNET: true,
	ConstraintFNLT: true,
	ConstraintMFO:  true,
}

type LinkType string

const (
	LinkFinishToStart  LinkType = "finish-to-start"
	LinkStartToStart   LinkType = "start-to-start"
	LinkFinishToFinish LinkType = "finish-to-finish"
	LinkStartToFinish  LinkType = "start-to-finish"
)

// ValidLinkTypes is the canonical set of accepted dependency link types.
var ValidLinkTypes = map[LinkType]bool{
	LinkFinishToStart:  true,
	LinkStartToStart:   true,
	LinkFinishToFinish: true,
	LinkStartToFinish:  true,
}

// Field names a user-editable task field.
type Field string

const (
	FieldName           Field = "name"
	FieldStartDate      Field = "start_date"
	FieldEndDate        Field = "end_date"
	FieldProgress       Field = "progress"
	FieldWBSNumber      Field = "wbs_number"
	FieldAssignedTo     Field = "assigned_to"
	FieldStatus         Field = "status"
	FieldConstraintType Field = "constraint_type"
	FieldConstraintDate Field = "constraint_date"
	FieldMilestone      Field = "milestone"
)

// ParseField maps a user-supplied field name to a Field. Both the snake_case
// names and the short aliases used on the command line are accepted.
func ParseField(s string) (Field, bool) {
	switch s {
	case "name":
		return FieldName, true
	case "start", "start_date", "startDate":
		return FieldStartDate, true
	case "end", "end_date", "endDate":
		return FieldEndDate, true
	case "progress":
		return FieldProgress, true
	case "wbs", "wbs_number", "wbsNumber":
		return FieldWBSNumber, true
	case "assigned", "assigned_to", "assignedTo":
		return FieldAssignedTo, true
	case "status":
		return FieldStatus, true
	case "constraint", "constraint_type", "constraintType":
		return FieldConstraintType, true
	case "constraint_date", "constraintDate":
		return FieldConstraintDate, true
	case "milestone", "is_milestone":
		return FieldMilestone, true
	}
	return "", false
}
