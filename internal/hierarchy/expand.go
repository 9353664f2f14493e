package hierarchy

import (
	"encoding/json"
	"sort"

	"github.com/constructbms/gantt/internal/domain"
)

// ExpandState is the set of expanded task ids. It is shared by reference
// between the chart and the table so both views collapse together.
type ExpandState struct {
	ids map[string]bool
}

// NewExpandState returns a state with the given ids expanded.
func NewExpandState(ids ...string) *ExpandState {
	s := &ExpandState{ids: make(map[string]bool, len(ids))}
	for _, id := range ids {
		s.ids[id] = true
	}
	return s
}

// IsExpanded reports whether id is in the set. A nil state expands nothing.
func (s *ExpandState) IsExpanded(id string) bool {
	if s == nil {
		return false
	}
	return s.ids[id]
}

// Toggle flips membership of id and reports the new state.
func (s *ExpandState) Toggle(id string) bool {
	s.ensure()
	if s.ids[id] {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = true
	return true
}

func (s *ExpandState) Expand(id string) {
	s.ensure()
	s.ids[id] = true
}
func (s *ExpandState) Collapse(id string) { delete(s.ids, id) }

// ExpandAll adds every task that has children.
func (s *ExpandState) ExpandAll(tasks []*domain.Task) {
	s.ensure()
	for _, id := range parentsOf(tasks) {
		s.ids[id] = true
	}
}

// CollapseAll empties the set.
func (s *ExpandState) CollapseAll() {
	clear(s.ids)
}

// IDs returns the expanded ids sorted lexically.
func (s *ExpandState) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s *ExpandState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *ExpandState) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	s.ids = make(map[string]bool, len(ids))
	for _, id := range ids {
		s.ids[id] = true
	}
	return nil
}

func (s *ExpandState) ensure() {
	if s.ids == nil {
		s.ids = make(map[string]bool)
	}
}

// parentsOf returns ids of tasks that at least one other task names as parent.
func parentsOf(tasks []*domain.Task) []string {
	present := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		present[t.ID] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, t := range tasks {
		if t.HasParent() && present[*t.ParentID] && !seen[*t.ParentID] {
			seen[*t.ParentID] = true
			out = append(out, *t.ParentID)
		}
	}
	return out
}
