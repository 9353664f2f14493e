package table

import (
	"testing"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumn_Editable(t *testing.T) {
	for _, c := range []Column{ColWBS, ColName, ColStart, ColEnd, ColProgress, ColAssignedTo, ColStatus, ColConstraintType, ColConstraintDate, ColMilestone} {
		assert.True(t, c.Editable(), "%s", c)
	}
	for _, c := range []Column{ColDuration, ColFloat, ColCritical, ColLevel} {
		assert.False(t, c.Editable(), "%s", c)
	}
}

func TestParseColumn(t *testing.T) {
	c, ok := ParseColumn("start")
	require.True(t, ok)
	assert.Equal(t, ColStart, c)

	c, ok = ParseColumn("Float")
	require.True(t, ok)
	assert.Equal(t, ColFloat, c)

	_, ok = ParseColumn("colour")
	assert.False(t, ok)
}

func TestFormat(t *testing.T) {
	task := mk("A", "1.2", date(1, 6), 3, 12.5)
	task.Float = 2.34
	task.IsCritical = true

	assert.Equal(t, "2025-01-06", Format(ColStart, task))
	assert.Equal(t, "3", Format(ColDuration, task))
	assert.Equal(t, "12.5", Format(ColProgress, task))
	assert.Equal(t, "2.3", Format(ColFloat, task))
	assert.Equal(t, "yes", Format(ColCritical, task))
	assert.Equal(t, "no", Format(ColMilestone, task))
	assert.Equal(t, "", Format(ColConstraintDate, task))
	assert.Equal(t, "Days", ColDuration.Title())
}

func TestParse(t *testing.T) {
	loc := time.FixedZone("site", 2*3600)
	v, err := Parse(domain.FieldStartDate, " 2025-03-04 ", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, loc), v)

	v, err = Parse(domain.FieldMilestone, "Yes", nil)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = Parse(domain.FieldMilestone, "maybe", nil)
	assert.Error(t, err)

	v, err = Parse(domain.FieldStatus, "delayed", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelayed, v)

	v, err = Parse(domain.FieldConstraintDate, "", nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}
