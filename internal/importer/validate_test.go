package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrStr(s string) *string       { return &s }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{
			ShortID:   "SITE01",
			Name:      "Test Project",
			StartDate: "2025-02-03",
		},
		Tasks: []TaskImport{
			{Ref: "t1", Name: "Task 1", Start: "2025-02-03", End: "2025-02-07"},
		},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	errs := ValidateImportSchema(validMinimalSchema())
	assert.Empty(t, errs)
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	schema := &ImportSchema{
		Project: ProjectImport{
			ShortID:    "bldg0234",
			Name:       "Building",
			StartDate:  "2025-02-03",
			TargetDate: ptrStr("2025-06-01"),
		},
		Tasks: []TaskImport{
			{Ref: "p", Name: "Phase", Start: "2025-02-03", End: "2025-03-01", WBS: "1"},
			{Ref: "a", ParentRef: ptrStr("p"), Name: "A", Start: "2025-02-03", End: "2025-02-10", Progress: ptrFloat(100), Status: "completed"},
			{Ref: "b", ParentRef: ptrStr("p"), Name: "B", Start: "2025-02-10", End: "2025-02-20", ConstraintType: "SNET", ConstraintDate: ptrStr("2025-02-10")},
			{Ref: "m", Name: "Handover", Start: "2025-03-01", Milestone: true},
		},
		Links: []LinkImport{
			{SourceRef: "a", TargetRef: "b", Type: "finish-to-start", Lag: 1},
			{SourceRef: "b", TargetRef: "m"},
		},
	}
	errs := ValidateImportSchema(schema)
	assert.Empty(t, errs)
}

func TestValidateImportSchema_MissingProjectFields(t *testing.T) {
	schema := &ImportSchema{Project: ProjectImport{}}
	errs := ValidateImportSchema(schema)

	assertHasError(t, errs, "project.short_id is required")
	assertHasError(t, errs, "project.name is required")
	assertHasError(t, errs, "project.start_date is required")
}

func TestValidateImportSchema_CollectsEveryError(t *testing.T) {
	schema := validMinimalSchema()
	schema.Project.ShortID = "X1"
	schema.Tasks = append(schema.Tasks,
		TaskImport{Ref: "t1", Name: " ", Start: "2025-02-10", End: "2025-02-05"},
		TaskImport{Ref: "t3", Name: "Bad", Start: "03/02/2025", Progress: ptrFloat(120), Status: "paused"},
	)

	errs := ValidateImportSchema(schema)

	assertHasError(t, errs, "project.short_id")
	assertHasError(t, errs, `tasks[1].ref: duplicate ref "t1"`)
	assertHasError(t, errs, "tasks[1].name is required")
	assertHasError(t, errs, "tasks[1].end")
	assertHasError(t, errs, "tasks[2].start: invalid date format")
	assertHasError(t, errs, "tasks[2].progress")
	assertHasError(t, errs, `tasks[2].status: invalid value "paused"`)
}

func TestValidateImportSchema_TaskDates(t *testing.T) {
	cases := []struct {
		name    string
		task    TaskImport
		wantMsg string
	}{
		{"missing end", TaskImport{Ref: "x", Name: "x", Start: "2025-02-03"}, "tasks[1].end is required"},
		{"zero length", TaskImport{Ref: "x", Name: "x", Start: "2025-02-03", End: "2025-02-03"}, "must be after start"},
		{"missing start", TaskImport{Ref: "x", Name: "x"}, "tasks[1].start is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			schema := validMinimalSchema()
			schema.Tasks = append(schema.Tasks, tc.task)
			assertHasError(t, ValidateImportSchema(schema), tc.wantMsg)
		})
	}

	schema := validMinimalSchema()
	schema.Tasks = append(schema.Tasks,
		TaskImport{Ref: "m1", Name: "m1", Start: "2025-02-03", Milestone: true},
		TaskImport{Ref: "m2", Name: "m2", Start: "2025-02-03", End: "2025-02-03", Milestone: true},
	)
	assert.Empty(t, ValidateImportSchema(schema), "milestones may start and end together")
}

func TestValidateImportSchema_ParentMustComeFirst(t *testing.T) {
	schema := validMinimalSchema()
	schema.Tasks = []TaskImport{
		{Ref: "child", ParentRef: ptrStr("parent"), Name: "Child", Start: "2025-02-03", End: "2025-02-04"},
		{Ref: "parent", Name: "Parent", Start: "2025-02-03", End: "2025-02-04"},
		{Ref: "self", ParentRef: ptrStr("self"), Name: "Self", Start: "2025-02-03", End: "2025-02-04"},
	}
	errs := ValidateImportSchema(schema)
	assertHasError(t, errs, `tasks[0].parent_ref: ref "parent" not found`)
	assertHasError(t, errs, `tasks[2].parent_ref: ref "self" not found`)
}

func TestValidateImportSchema_Constraints(t *testing.T) {
	schema := validMinimalSchema()
	schema.Tasks = append(schema.Tasks,
		TaskImport{Ref: "a", Name: "a", Start: "2025-02-03", End: "2025-02-04", ConstraintType: "ASAP"},
		TaskImport{Ref: "b", Name: "b", Start: "2025-02-03", End: "2025-02-04", ConstraintType: "MFO"},
		TaskImport{Ref: "c", Name: "c", Start: "2025-02-03", End: "2025-02-04", ConstraintType: "MSO", ConstraintDate: ptrStr("soon")},
		TaskImport{Ref: "d", Name: "d", Start: "2025-02-03", End: "2025-02-04", WBS: "1..2"},
	)
	errs := ValidateImportSchema(schema)
	assertHasError(t, errs, `tasks[1].constraint_type: invalid value "ASAP"`)
	assertHasError(t, errs, "tasks[2].constraint_date is required for constraint MFO")
	assertHasError(t, errs, "tasks[3].constraint_date: invalid date format")
	assertHasError(t, errs, `tasks[4].wbs: invalid WBS number "1..2"`)
}

func TestValidateImportSchema_Links(t *testing.T) {
	schema := validMinimalSchema()
	schema.Tasks = append(schema.Tasks, TaskImport{Ref: "t2", Name: "Task 2", Start: "2025-02-07", End: "2025-02-10"})
	schema.Links = []LinkImport{
		{SourceRef: "t1", TargetRef: "ghost"},
		{SourceRef: "t1", TargetRef: "t1"},
		{SourceRef: "t1", TargetRef: "t2", Type: "after"},
		{SourceRef: "t1", TargetRef: "t2"},
	}
	errs := ValidateImportSchema(schema)
	assertHasError(t, errs, `links[0].target_ref: ref "ghost" not found`)
	assertHasError(t, errs, `links[1]: task "t1" cannot depend on itself`)
	assertHasError(t, errs, `links[2].type: invalid value "after"`)
	assertHasError(t, errs, "links[3]: duplicate link t1 -> t2")
}

func TestValidateImportSchema_CircularLinks(t *testing.T) {
	schema := validMinimalSchema()
	schema.Tasks = append(schema.Tasks,
		TaskImport{Ref: "t2", Name: "Task 2", Start: "2025-02-07", End: "2025-02-10"},
		TaskImport{Ref: "t3", Name: "Task 3", Start: "2025-02-10", End: "2025-02-12"},
	)
	schema.Links = []LinkImport{
		{SourceRef: "t1", TargetRef: "t2"},
		{SourceRef: "t2", TargetRef: "t3"},
		{SourceRef: "t3", TargetRef: "t1"},
	}
	assertHasError(t, ValidateImportSchema(schema), "circular link detected")
}

func assertHasError(t *testing.T, errs []error, substr string) {
	t.Helper()
	for _, e := range errs {
		if strings.Contains(e.Error(), substr) {
			return
		}
	}
	assert.Fail(t, "missing validation error", "expected error containing %q, got %v", substr, errs)
}
