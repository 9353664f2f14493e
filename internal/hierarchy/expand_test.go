package hierarchy

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandState_ToggleAffectsOnlyThatID(t *testing.T) {
	s := NewExpandState("A")
	assert.True(t, s.Toggle("B"))
	assert.True(t, s.IsExpanded("A"))
	assert.True(t, s.IsExpanded("B"))

	assert.False(t, s.Toggle("A"))
	assert.False(t, s.IsExpanded("A"))
	assert.True(t, s.IsExpanded("B"))
}

func TestExpandState_ZeroValueUsable(t *testing.T) {
	var s ExpandState
	assert.False(t, s.IsExpanded("A"))
	s.Expand("A")
	assert.True(t, s.IsExpanded("A"))
	s.Collapse("A")
	assert.False(t, s.IsExpanded("A"))

	var nilState *ExpandState
	assert.False(t, nilState.IsExpanded("A"))
}

func TestExpandState_ExpandAllAndCollapseAll(t *testing.T) {
	s := NewExpandState()
	s.ExpandAll(sampleTree())
	assert.Equal(t, []string{"A", "B"}, s.IDs())

	s.CollapseAll()
	assert.Empty(t, s.IDs())
}

func TestExpandState_JSONRoundTrip(t *testing.T) {
	s := NewExpandState("B", "A")
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `["A","B"]`, string(data))

	var back ExpandState
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.IsExpanded("A"))
	assert.True(t, back.IsExpanded("B"))
	assert.False(t, back.IsExpanded("C"))
}

func TestExpandState_UnmarshalRejectsNonArray(t *testing.T) {
	var s ExpandState
	assert.Error(t, json.Unmarshal([]byte(`{"A":true}`), &s))
}
