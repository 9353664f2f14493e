// Package schedule holds the in-memory task network for one project.
//
// The Model owns the parent/child relationship in both directions. Every
// structural edit goes through a single method that updates ParentID and the
// parent's Children together, so callers never see one side without the other.
// Field edits (ApplyPatch) are written as-is; validation belongs to the caller.
package schedule

import (
	"errors"
	"fmt"
	"slices"

	"github.com/constructbms/gantt/internal/domain"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrDuplicateTask = errors.New("duplicate task id")
	ErrCycle         = errors.New("reparent would create a cycle")
	ErrLinkNotFound  = errors.New("link not found")
	ErrDuplicateLink = errors.New("duplicate link id")
)

// Model is not safe for concurrent use. It is driven from a single event loop.
type Model struct {
	order []string
	tasks map[string]*domain.Task
	links []*domain.Link
}

// NewModel builds a model from copies of tasks and links. Children lists are
// reconciled with ParentID: listed children keep their order, children that
// only declare the parent are appended, and entries that do not point back
// are dropped.
func NewModel(tasks []*domain.Task, links []*domain.Link) *Model {
	m := &Model{tasks: make(map[string]*domain.Task, len(tasks))}
	for _, t := range tasks {
		if t == nil || t.ID == "" {
			continue
		}
		if _, dup := m.tasks[t.ID]; dup {
			continue
		}
		m.tasks[t.ID] = t.Clone()
		m.order = append(m.order, t.ID)
	}
	m.reconcileChildren()
	for _, l := range links {
		if l == nil {
			continue
		}
		c := *l
		m.links = append(m.links, &c)
	}
	return m
}

func (m *Model) reconcileChildren() {
	declared := make(map[string][]string)
	for _, id := range m.order {
		t := m.tasks[id]
		if t.HasParent() {
			if _, ok := m.tasks[*t.ParentID]; ok {
				declared[*t.ParentID] = append(declared[*t.ParentID], id)
			}
		}
	}
	for _, id := range m.order {
		t := m.tasks[id]
		want := declared[id]
		kids := make([]string, 0, len(want))
		seen := make(map[string]bool, len(want))
		for _, c := range t.Children {
			if slices.Contains(want, c) && !seen[c] {
				kids = append(kids, c)
				seen[c] = true
			}
		}
		for _, c := range want {
			if !seen[c] {
				kids = append(kids, c)
				seen[c] = true
			}
		}
		t.Children = kids
	}
}

// Len returns the number of tasks.
func (m *Model) Len() int { return len(m.order) }

// Task returns a copy of the task with the given id.
func (m *Model) Task(id string) (*domain.Task, bool) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Tasks returns copies of all tasks in list order.
func (m *Model) Tasks() []*domain.Task {
	out := make([]*domain.Task, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.tasks[id].Clone())
	}
	return out
}

// Roots returns copies of tasks without a resolvable parent, in list order.
func (m *Model) Roots() []*domain.Task {
	var out []*domain.Task
	for _, id := range m.order {
		t := m.tasks[id]
		if !m.hasResolvedParent(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (m *Model) hasResolvedParent(t *domain.Task) bool {
	if !t.HasParent() {
		return false
	}
	_, ok := m.tasks[*t.ParentID]
	return ok
}

// Links returns copies of all links.
func (m *Model) Links() []*domain.Link {
	out := make([]*domain.Link, 0, len(m.links))
	for _, l := range m.links {
		c := *l
		out = append(out, &c)
	}
	return out
}

// IncomingLinks returns copies of links whose target is taskID.
func (m *Model) IncomingLinks(taskID string) []*domain.Link {
	var out []*domain.Link
	for _, l := range m.links {
		if l.TargetTaskID == taskID {
			c := *l
			out = append(out, &c)
		}
	}
	return out
}

// AddTask inserts a copy of t at the end of the list. When t names a parent
// that exists, t is appended to that parent's children.
func (m *Model) AddTask(t *domain.Task) error {
	if t == nil || t.ID == "" {
		return fmt.Errorf("adding task: %w", ErrTaskNotFound)
	}
	if _, dup := m.tasks[t.ID]; dup {
		return fmt.Errorf("adding task %s: %w", t.ID, ErrDuplicateTask)
	}
	c := t.Clone()
	c.Children = nil
	m.tasks[c.ID] = c
	m.order = append(m.order, c.ID)
	if m.hasResolvedParent(c) {
		p := m.tasks[*c.ParentID]
		p.Children = append(p.Children, c.ID)
	}
	// Tasks added earlier may already name this one as their parent.
	for _, id := range m.order {
		o := m.tasks[id]
		if id != c.ID && o.HasParent() && *o.ParentID == c.ID {
			c.Children = append(c.Children, id)
		}
	}
	return nil
}

// Reparent moves a task under parentID at index (-1 appends). An empty
// parentID makes the task a root. Both sides of the relationship are updated
// together.
func (m *Model) Reparent(id, parentID string, index int) error {
	t, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("reparenting %s: %w", id, ErrTaskNotFound)
	}
	var parent *domain.Task
	if parentID != "" {
		parent, ok = m.tasks[parentID]
		if !ok {
			return fmt.Errorf("reparenting %s under %s: %w", id, parentID, ErrTaskNotFound)
		}
		if parentID == id || m.isDescendant(parentID, id) {
			return fmt.Errorf("reparenting %s under %s: %w", id, parentID, ErrCycle)
		}
	}

	m.detach(t)

	if parent == nil {
		t.ParentID = nil
		return nil
	}
	pid := parentID
	t.ParentID = &pid
	if index < 0 || index > len(parent.Children) {
		index = len(parent.Children)
	}
	parent.Children = slices.Insert(parent.Children, index, id)
	return nil
}

// isDescendant reports whether candidate sits somewhere below ancestor.
func (m *Model) isDescendant(candidate, ancestor string) bool {
	seen := make(map[string]bool)
	cur, ok := m.tasks[candidate]
	for ok && cur.HasParent() && !seen[cur.ID] {
		seen[cur.ID] = true
		if *cur.ParentID == ancestor {
			return true
		}
		cur, ok = m.tasks[*cur.ParentID]
	}
	return false
}

func (m *Model) detach(t *domain.Task) {
	if !m.hasResolvedParent(t) {
		return
	}
	p := m.tasks[*t.ParentID]
	p.Children = slices.DeleteFunc(p.Children, func(c string) bool { return c == t.ID })
}

// RemoveTask deletes a task without cascading. Its children become roots and
// links that reference it are kept; they are inert until the task returns.
func (m *Model) RemoveTask(id string) error {
	t, ok := m.tasks[id]
	if !ok {
		return fmt.Errorf("removing %s: %w", id, ErrTaskNotFound)
	}
	m.detach(t)
	for _, c := range t.Children {
		if child, ok := m.tasks[c]; ok {
			child.ParentID = nil
		}
	}
	delete(m.tasks, id)
	m.order = slices.DeleteFunc(m.order, func(o string) bool { return o == id })
	return nil
}

// ApplyPatch writes the patch onto the stored task and returns a copy of the
// result. No validation is performed.
func (m *Model) ApplyPatch(id string, patch domain.TaskPatch) (*domain.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, fmt.Errorf("updating %s: %w", id, ErrTaskNotFound)
	}
	patch.ApplyTo(t)
	return t.Clone(), nil
}

// AnalysisResult is the calculator output for one task.
type AnalysisResult struct {
	Float      float64
	IsCritical bool
}

// SetAnalysis stores float and critical flags. Tasks missing from results
// are reset to zero float and non-critical.
func (m *Model) SetAnalysis(results map[string]AnalysisResult) {
	for _, id := range m.order {
		r := results[id]
		m.tasks[id].Float = r.Float
		m.tasks[id].IsCritical = r.IsCritical
	}
}

// SetWBS stores WBS numbers by task id. Tasks not in numbers keep theirs.
func (m *Model) SetWBS(numbers map[string]string) {
	for id, n := range numbers {
		if t, ok := m.tasks[id]; ok {
			t.WBSNumber = n
		}
	}
}

// SetConstraintViolations stores the display-only violation flag.
func (m *Model) SetConstraintViolations(violated map[string]bool) {
	for _, id := range m.order {
		m.tasks[id].ConstraintViolated = violated[id]
	}
}

// AddLink stores a copy of l. Endpoints are not required to exist.
func (m *Model) AddLink(l *domain.Link) error {
	for _, existing := range m.links {
		if existing.ID == l.ID {
			return fmt.Errorf("adding link %s: %w", l.ID, ErrDuplicateLink)
		}
	}
	c := *l
	m.links = append(m.links, &c)
	return nil
}

// RemoveLink deletes the link with the given id.
func (m *Model) RemoveLink(id string) error {
	n := len(m.links)
	m.links = slices.DeleteFunc(m.links, func(l *domain.Link) bool { return l.ID == id })
	if len(m.links) == n {
		return fmt.Errorf("removing link %s: %w", id, ErrLinkNotFound)
	}
	return nil
}
