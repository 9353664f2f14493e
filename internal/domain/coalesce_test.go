package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesce(t *testing.T) {
	assert.Equal(t, StatusInProgress, Coalesce(TaskStatus(""), StatusInProgress, StatusDelayed))
	assert.Equal(t, ConstraintNone, Coalesce(ConstraintType(""), ConstraintNone))
	assert.Equal(t, "", Coalesce[string]())
}

func TestValueOr(t *testing.T) {
	p := 40.0
	assert.Equal(t, 40.0, ValueOr(&p, 0))
	assert.Equal(t, 0.0, ValueOr[float64](nil, 0))
}
