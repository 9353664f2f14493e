package validate

import (
	"errors"
	"fmt"

	"github.com/constructbms/gantt/internal/domain"
)

var (
	ErrEmptyName         = errors.New("name must not be empty")
	ErrStartAfterEnd     = errors.New("start date must be before end date")
	ErrEndBeforeStart    = errors.New("end date must be after start date")
	ErrProgressRange     = errors.New("progress must be a number between 0 and 100")
	ErrInvalidWBS        = errors.New("wbs number must look like 1.2.3")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidConstraint = errors.New("invalid constraint type")
	ErrDependencyOrder   = errors.New("start date precedes a predecessor's finish")
	ErrUnsupportedValue  = errors.New("unsupported value")
)

// FieldError is a rejected edit to one field. It unwraps to one of the
// package sentinels so callers can branch with errors.Is.
type FieldError struct {
	Field  domain.Field
	Value  any
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Field, e.Err, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(f domain.Field, value any, err error, reason string) *FieldError {
	return &FieldError{Field: f, Value: value, Reason: reason, Err: err}
}
