package table

import (
	"errors"
	"fmt"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/validate"
)

// CellState is the inline-edit state of the active cell.
type CellState string

const (
	CellDisplay CellState = "display"
	CellEditing CellState = "editing"
	// CellError shows the cell's stored value with the rejection message.
	CellError CellState = "error"
)

var (
	ErrReadOnlyColumn = errors.New("column is read-only")
	ErrNotEditing     = errors.New("no cell is being edited")
)

// Edit is the active cell. Outside editing and error states TaskID and
// Column are empty.
type Edit struct {
	TaskID string
	Column Column
	State  CellState
	Input  string
	Err    error
}

// Editing returns the active cell.
func (v *View) Editing() Edit { return v.edit }

// CellState reports the state of one cell.
func (v *View) CellState(taskID string, c Column) CellState {
	if v.edit.TaskID == taskID && v.edit.Column == c {
		return v.edit.State
	}
	return CellDisplay
}

// BeginEdit puts a cell into editing state, seeding the input with the
// current value. Any other active edit is discarded.
func (v *View) BeginEdit(taskID string, c Column) error {
	if !c.Editable() {
		return fmt.Errorf("edit %s: %w", c, ErrReadOnlyColumn)
	}
	t, ok := v.model.Task(taskID)
	if !ok {
		return fmt.Errorf("edit %s: task %q not found", c, taskID)
	}
	v.edit = Edit{TaskID: taskID, Column: c, State: CellEditing, Input: Format(c, t)}
	return nil
}

// Input replaces the pending text. Typing into an errored cell resumes
// editing.
func (v *View) Input(text string) error {
	if v.edit.State == CellDisplay {
		return ErrNotEditing
	}
	v.edit.State = CellEditing
	v.edit.Input = text
	v.edit.Err = nil
	return nil
}

// Commit parses and validates the pending text. An accepted value goes
// through the commit path and the cell returns to display. A rejected
// value leaves the model untouched and puts the cell in error state with
// its stored value shown.
func (v *View) Commit() error {
	if v.edit.State != CellEditing {
		return ErrNotEditing
	}
	id, c := v.edit.TaskID, v.edit.Column
	t, ok := v.model.Task(id)
	if !ok {
		v.reset()
		return fmt.Errorf("commit %s: task %q not found", c, id)
	}
	field, _ := c.Field()

	value, err := Parse(field, v.edit.Input, t.StartDate.Location())
	if err == nil {
		err = validate.ValidateExplicitEdit(t, field, value, v.model.Tasks(), v.model.Links())
	}
	if err == nil {
		patch, ok := domain.PatchFor(field, value)
		if !ok {
			err = &validate.FieldError{Field: field, Value: value, Err: validate.ErrUnsupportedValue}
		} else {
			err = v.commit(id, patch)
		}
	}
	if err != nil {
		v.edit = Edit{TaskID: id, Column: c, State: CellError, Input: Format(c, t), Err: err}
		return err
	}
	v.reset()
	return nil
}

// Cancel discards the pending edit. The model is not touched.
func (v *View) Cancel() {
	v.reset()
}

func (v *View) reset() {
	v.edit = Edit{State: CellDisplay}
}
