package importer

import (
	"testing"
	"time"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_MinimalProject(t *testing.T) {
	gen, err := Convert(validMinimalSchema())
	require.NoError(t, err)

	assert.NotEmpty(t, gen.Project.ID)
	assert.Equal(t, "SITE01", gen.Project.ShortID)
	assert.Nil(t, gen.Project.TargetDate)

	require.Len(t, gen.Tasks, 1)
	task := gen.Tasks[0]
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, gen.Project.ID, task.ProjectID)
	assert.Equal(t, domain.StatusNotStarted, task.Status)
	assert.Equal(t, domain.ConstraintNone, task.ConstraintType)
	assert.Equal(t, time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), task.StartDate)
	assert.Equal(t, 4.0, task.DurationDays())
	assert.Empty(t, gen.Links)
}

func TestConvert_ResolvesRefs(t *testing.T) {
	schema := &ImportSchema{
		Project: ProjectImport{ShortID: "site02", Name: "Site", StartDate: "2025-02-03"},
		Tasks: []TaskImport{
			{Ref: "p", Name: "Phase", Start: "2025-02-03", End: "2025-03-01"},
			{Ref: "a", ParentRef: ptrStr("p"), Name: " A ", Start: "2025-02-03", End: "2025-02-10", Progress: ptrFloat(25)},
			{Ref: "m", Name: "Done", Start: "2025-03-01", Milestone: true, ConstraintType: "MSO", ConstraintDate: ptrStr("2025-03-01")},
		},
		Links: []LinkImport{{SourceRef: "a", TargetRef: "m", Lag: -1}},
	}
	gen, err := Convert(schema)
	require.NoError(t, err)

	assert.Equal(t, "SITE02", gen.Project.ShortID)
	require.Len(t, gen.Tasks, 3)
	phase, a, m := gen.Tasks[0], gen.Tasks[1], gen.Tasks[2]

	require.NotNil(t, a.ParentID)
	assert.Equal(t, phase.ID, *a.ParentID)
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, 25.0, a.Progress)

	assert.True(t, m.IsMilestone)
	assert.True(t, m.StartDate.Equal(m.EndDate))
	require.NotNil(t, m.ConstraintDate)
	assert.Equal(t, domain.ConstraintMSO, m.ConstraintType)

	require.Len(t, gen.Links, 1)
	l := gen.Links[0]
	assert.Equal(t, a.ID, l.SourceTaskID)
	assert.Equal(t, m.ID, l.TargetTaskID)
	assert.Equal(t, domain.LinkFinishToStart, l.Type)
	assert.Equal(t, -1.0, l.Lag)
	assert.Equal(t, gen.Project.ID, l.ProjectID)
}

func TestDemo(t *testing.T) {
	demo, err := Demo()
	require.NoError(t, err)

	assert.Equal(t, DemoProjectID, demo.Project.ID)
	assert.NotEmpty(t, demo.Tasks)
	ids := map[string]bool{}
	for _, task := range demo.Tasks {
		ids[task.ID] = true
		assert.Equal(t, DemoProjectID, task.ProjectID)
	}
	assert.True(t, ids["survey"], "task ids are refs")
	for _, l := range demo.Links {
		assert.True(t, ids[l.SourceTaskID] && ids[l.TargetTaskID], "link %s resolves", l.ID)
	}
	assert.Equal(t, "link-1", demo.Links[0].ID)

	again, err := Demo()
	require.NoError(t, err)
	again.Tasks[0].Name = "changed"
	assert.NotEqual(t, "changed", demo.Tasks[0].Name, "each call returns a fresh copy")
}
