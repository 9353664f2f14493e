package table

import (
	"errors"
	"testing"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/schedule"
	"github.com/constructbms/gantt/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	model *schedule.Model
	calls []string
	fail  error
}

func (r *recorder) commit(id string, p domain.TaskPatch) error {
	r.calls = append(r.calls, id)
	if r.fail != nil {
		return r.fail
	}
	_, err := r.model.ApplyPatch(id, p)
	return err
}

func newEditView() (*View, *recorder) {
	m := flatModel()
	rec := &recorder{model: m}
	return New(m, nil, rec.commit), rec
}

func TestBeginEdit_SeedsInput(t *testing.T) {
	v, _ := newEditView()
	require.NoError(t, v.BeginEdit("B", ColStart))
	e := v.Editing()
	assert.Equal(t, CellEditing, e.State)
	assert.Equal(t, "2025-01-02", e.Input)
	assert.Equal(t, CellEditing, v.CellState("B", ColStart))
	assert.Equal(t, CellDisplay, v.CellState("B", ColEnd))
}

func TestBeginEdit_ReadOnlyColumns(t *testing.T) {
	v, _ := newEditView()
	for _, c := range []Column{ColFloat, ColCritical, ColLevel, ColDuration} {
		assert.ErrorIs(t, v.BeginEdit("A", c), ErrReadOnlyColumn, "%s", c)
	}
	assert.Error(t, v.BeginEdit("missing", ColName))
	assert.Equal(t, CellDisplay, v.Editing().State)
}

func TestCommit_AcceptedEditFiresUpdate(t *testing.T) {
	v, rec := newEditView()
	require.NoError(t, v.BeginEdit("A", ColName))
	require.NoError(t, v.Input("Excavate footings"))
	require.NoError(t, v.Commit())

	assert.Equal(t, []string{"A"}, rec.calls)
	got, _ := rec.model.Task("A")
	assert.Equal(t, "Excavate footings", got.Name)
	assert.Equal(t, CellDisplay, v.Editing().State)
}

func TestCommit_EmptyNameRejected(t *testing.T) {
	v, rec := newEditView()
	require.NoError(t, v.BeginEdit("A", ColName))
	require.NoError(t, v.Input(""))

	err := v.Commit()
	require.ErrorIs(t, err, validate.ErrEmptyName)

	assert.Empty(t, rec.calls, "no update callback")
	got, _ := rec.model.Task("A")
	assert.Equal(t, "Task A", got.Name, "model unchanged")

	e := v.Editing()
	assert.Equal(t, CellError, e.State)
	assert.Equal(t, "Task A", e.Input, "cell shows the previous value")
	assert.ErrorIs(t, e.Err, validate.ErrEmptyName)
}

func TestCommit_DependencyOrderBlocksExplicitEdit(t *testing.T) {
	m := schedule.NewModel([]*domain.Task{
		mk("A", "1", date(1, 1), 7, 100),
		mk("B", "2", date(1, 5), 9, 0),
	}, []*domain.Link{{ID: "L1", SourceTaskID: "A", TargetTaskID: "B", Type: domain.LinkFinishToStart}})
	v := New(m, nil, nil)

	require.NoError(t, v.BeginEdit("B", ColStart))
	require.NoError(t, v.Input("2025-01-07"))
	assert.ErrorIs(t, v.Commit(), validate.ErrDependencyOrder)

	require.NoError(t, v.Input("2025-01-08"))
	require.NoError(t, v.Commit())
	got, _ := m.Task("B")
	assert.Equal(t, date(1, 8), got.StartDate)
}

func TestCommit_BadDateText(t *testing.T) {
	v, rec := newEditView()
	require.NoError(t, v.BeginEdit("A", ColEnd))
	require.NoError(t, v.Input("next tuesday"))

	err := v.Commit()
	var fe *validate.FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, domain.FieldEndDate, fe.Field)
	assert.Empty(t, rec.calls)
}

func TestCommit_ProgressParsing(t *testing.T) {
	v, rec := newEditView()
	require.NoError(t, v.BeginEdit("A", ColProgress))
	require.NoError(t, v.Input("75%"))
	require.NoError(t, v.Commit())
	got, _ := rec.model.Task("A")
	assert.InDelta(t, 75.0, got.Progress, 1e-9)

	require.NoError(t, v.BeginEdit("A", ColProgress))
	require.NoError(t, v.Input("lots"))
	assert.ErrorIs(t, v.Commit(), validate.ErrProgressRange)
}

func TestCommit_PersistPathFailureShowsError(t *testing.T) {
	v, rec := newEditView()
	rec.fail = errors.New("read-only session")
	require.NoError(t, v.BeginEdit("A", ColAssignedTo))
	require.NoError(t, v.Input("crew-1"))

	assert.EqualError(t, v.Commit(), "read-only session")
	assert.Equal(t, CellError, v.Editing().State)
}

func TestCancel_DiscardsInput(t *testing.T) {
	v, rec := newEditView()
	require.NoError(t, v.BeginEdit("A", ColName))
	require.NoError(t, v.Input("Something else"))
	v.Cancel()

	assert.Equal(t, CellDisplay, v.Editing().State)
	assert.ErrorIs(t, v.Commit(), ErrNotEditing)
	assert.ErrorIs(t, v.Input("x"), ErrNotEditing)
	assert.Empty(t, rec.calls)
	got, _ := rec.model.Task("A")
	assert.Equal(t, "Task A", got.Name)
}

func TestInput_ResumesFromErrorState(t *testing.T) {
	v, _ := newEditView()
	require.NoError(t, v.BeginEdit("A", ColName))
	require.NoError(t, v.Input(" "))
	require.Error(t, v.Commit())
	require.Equal(t, CellError, v.Editing().State)

	require.NoError(t, v.Input("Fixed"))
	assert.Equal(t, CellEditing, v.Editing().State)
	assert.NoError(t, v.Commit())
}

func TestCommit_ClearConstraintDate(t *testing.T) {
	v, rec := newEditView()
	require.NoError(t, v.BeginEdit("A", ColConstraintDate))
	require.NoError(t, v.Input("2025-01-12"))
	require.NoError(t, v.Commit())
	got, _ := rec.model.Task("A")
	require.NotNil(t, got.ConstraintDate)

	require.NoError(t, v.BeginEdit("A", ColConstraintDate))
	assert.Equal(t, "2025-01-12", v.Editing().Input)
	require.NoError(t, v.Input(""))
	require.NoError(t, v.Commit())
	got, _ = rec.model.Task("A")
	assert.Nil(t, got.ConstraintDate)
}
