package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/validate"
)

const dateLayout = "2006-01-02"

// Column identifies a table column. Editable columns share their name with
// the task field they edit.
type Column string

const (
	ColWBS            Column = Column(domain.FieldWBSNumber)
	ColName           Column = Column(domain.FieldName)
	ColStart          Column = Column(domain.FieldStartDate)
	ColEnd            Column = Column(domain.FieldEndDate)
	ColDuration       Column = "duration"
	ColProgress       Column = Column(domain.FieldProgress)
	ColAssignedTo     Column = Column(domain.FieldAssignedTo)
	ColStatus         Column = Column(domain.FieldStatus)
	ColConstraintType Column = Column(domain.FieldConstraintType)
	ColConstraintDate Column = Column(domain.FieldConstraintDate)
	ColMilestone      Column = Column(domain.FieldMilestone)
	ColFloat          Column = "float"
	ColCritical       Column = "critical"
	ColLevel          Column = "level"
)

// Columns is the display order.
var Columns = []Column{
	ColWBS, ColName, ColStart, ColEnd, ColDuration, ColProgress, ColAssignedTo,
	ColStatus, ColConstraintType, ColConstraintDate, ColMilestone, ColFloat, ColCritical,
}

var columnTitles = map[Column]string{
	ColWBS:            "WBS",
	ColName:           "Name",
	ColStart:          "Start",
	ColEnd:            "End",
	ColDuration:       "Days",
	ColProgress:       "Progress",
	ColAssignedTo:     "Assigned",
	ColStatus:         "Status",
	ColConstraintType: "Constraint",
	ColConstraintDate: "Constraint Date",
	ColMilestone:      "Milestone",
	ColFloat:          "Float",
	ColCritical:       "Critical",
	ColLevel:          "Level",
}

// Title returns the column header.
func (c Column) Title() string {
	if t, ok := columnTitles[c]; ok {
		return t
	}
	return string(c)
}

// Field returns the task field an editable column writes. Computed columns
// (duration, float, critical, level) report false.
func (c Column) Field() (domain.Field, bool) {
	switch c {
	case ColDuration, ColFloat, ColCritical, ColLevel:
		return "", false
	}
	f, ok := domain.ParseField(string(c))
	return f, ok
}

// Editable reports whether cells in the column accept inline edits.
func (c Column) Editable() bool {
	_, ok := c.Field()
	return ok
}

// ParseColumn accepts column names and the field aliases ParseField knows.
func ParseColumn(s string) (Column, bool) {
	switch c := Column(strings.ToLower(s)); c {
	case ColDuration, ColFloat, ColCritical, ColLevel:
		return c, true
	}
	if f, ok := domain.ParseField(s); ok {
		return Column(f), true
	}
	return "", false
}

// Format renders a task's value for c as cell text.
func Format(c Column, t *domain.Task) string {
	switch c {
	case ColWBS:
		return t.WBSNumber
	case ColName:
		return t.Name
	case ColStart:
		return t.StartDate.Format(dateLayout)
	case ColEnd:
		return t.EndDate.Format(dateLayout)
	case ColDuration:
		return strconv.FormatFloat(t.DurationDays(), 'f', -1, 64)
	case ColProgress:
		return strconv.FormatFloat(t.Progress, 'f', -1, 64)
	case ColAssignedTo:
		return t.AssignedTo
	case ColStatus:
		return string(t.Status)
	case ColConstraintType:
		return string(t.ConstraintType)
	case ColConstraintDate:
		if t.ConstraintDate == nil {
			return ""
		}
		return t.ConstraintDate.Format(dateLayout)
	case ColMilestone:
		return yesNo(t.IsMilestone)
	case ColFloat:
		return fmt.Sprintf("%.1f", t.Float)
	case ColCritical:
		return yesNo(t.IsCritical)
	case ColLevel:
		return strconv.Itoa(t.Level)
	}
	return ""
}

// Parse converts cell text into a typed value for f. Dates use YYYY-MM-DD
// in loc. Progress text that is not a number is passed through unparsed so
// the validator reports it as a range error.
func Parse(f domain.Field, text string, loc *time.Location) (any, error) {
	text = strings.TrimSpace(text)
	switch f {
	case domain.FieldName, domain.FieldWBSNumber, domain.FieldAssignedTo:
		return text, nil
	case domain.FieldStartDate, domain.FieldEndDate:
		return parseDate(f, text, loc)
	case domain.FieldConstraintDate:
		if text == "" {
			return nil, nil
		}
		return parseDate(f, text, loc)
	case domain.FieldProgress:
		v, err := strconv.ParseFloat(strings.TrimSuffix(text, "%"), 64)
		if err != nil {
			return text, nil
		}
		return v, nil
	case domain.FieldStatus:
		return domain.TaskStatus(text), nil
	case domain.FieldConstraintType:
		return domain.ConstraintType(text), nil
	case domain.FieldMilestone:
		switch strings.ToLower(text) {
		case "yes", "y", "true", "1":
			return true, nil
		case "no", "n", "false", "0", "":
			return false, nil
		}
		return nil, &validate.FieldError{Field: f, Value: text, Reason: "expected yes or no", Err: validate.ErrUnsupportedValue}
	}
	return nil, &validate.FieldError{Field: f, Value: text, Err: validate.ErrUnsupportedValue}
}

func parseDate(f domain.Field, text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(dateLayout, text, loc)
	if err != nil {
		return time.Time{}, &validate.FieldError{Field: f, Value: text, Reason: "expected YYYY-MM-DD", Err: validate.ErrUnsupportedValue}
	}
	return d, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
