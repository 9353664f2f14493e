// Package hierarchy turns the task tree into ordered, indented rows and
// assigns WBS numbers.
package hierarchy

import (
	"github.com/constructbms/gantt/internal/domain"
)

// Row is one visible line of the flattened tree. Task is a copy with Level
// set; the caller's tasks are never modified.
type Row struct {
	Task        *domain.Task
	Level       int
	HasChildren bool
	Expanded    bool
}

// tree is the parent -> ordered children index shared by Flatten and the
// WBS walk.
type tree struct {
	roots    []*domain.Task
	children map[string][]*domain.Task
}

// buildTree indexes tasks. Roots are tasks with no parent or an unresolved
// parent, in list order. A parent's children follow its Children list first,
// then any remaining tasks naming it as parent, in list order.
func buildTree(tasks []*domain.Task) tree {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; !dup {
			byID[t.ID] = t
		}
	}

	claimed := make(map[string][]*domain.Task)
	for _, t := range tasks {
		if t.HasParent() {
			if _, ok := byID[*t.ParentID]; ok {
				claimed[*t.ParentID] = append(claimed[*t.ParentID], t)
			}
		}
	}

	tr := tree{children: make(map[string][]*domain.Task, len(claimed))}
	for _, t := range tasks {
		if !t.HasParent() || byID[*t.ParentID] == nil {
			tr.roots = append(tr.roots, t)
		}
	}
	for pid, kids := range claimed {
		parent := byID[pid]
		ordered := make([]*domain.Task, 0, len(kids))
		used := make(map[string]bool, len(kids))
		for _, cid := range parent.Children {
			for _, k := range kids {
				if k.ID == cid && !used[cid] {
					ordered = append(ordered, k)
					used[cid] = true
				}
			}
		}
		for _, k := range kids {
			if !used[k.ID] {
				ordered = append(ordered, k)
				used[k.ID] = true
			}
		}
		tr.children[pid] = ordered
	}

	// Tasks caught in a parent cycle are unreachable from every root. The
	// first such task in list order is promoted to a root so the cycle stays
	// visible; walk's visited set stops the loop.
	reached := make(map[string]bool, len(tasks))
	var mark func(t *domain.Task)
	mark = func(t *domain.Task) {
		if reached[t.ID] {
			return
		}
		reached[t.ID] = true
		for _, c := range tr.children[t.ID] {
			mark(c)
		}
	}
	for _, r := range tr.roots {
		mark(r)
	}
	for _, t := range tasks {
		if !reached[t.ID] {
			tr.roots = append(tr.roots, t)
			mark(t)
		}
	}
	return tr
}

// walk visits tasks depth-first in display order. descend decides whether
// the children of a visited task are walked. Each task is visited at most
// once.
func (tr tree) walk(descend func(t *domain.Task) bool, visit func(t *domain.Task, level int)) {
	seen := make(map[string]bool)
	var rec func(t *domain.Task, level int)
	rec = func(t *domain.Task, level int) {
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		visit(t, level)
		if !descend(t) {
			return
		}
		for _, c := range tr.children[t.ID] {
			rec(c, level+1)
		}
	}
	for _, r := range tr.roots {
		rec(r, 0)
	}
}

// Flatten returns the visible rows: every root, and the children of each
// expanded task directly after it, recursively.
func Flatten(tasks []*domain.Task, expanded *ExpandState) []Row {
	tr := buildTree(tasks)
	rows := make([]Row, 0, len(tasks))
	tr.walk(
		func(t *domain.Task) bool { return expanded.IsExpanded(t.ID) },
		func(t *domain.Task, level int) {
			c := t.Clone()
			c.Level = level
			rows = append(rows, Row{
				Task:        c,
				Level:       level,
				HasChildren: len(tr.children[t.ID]) > 0,
				Expanded:    expanded.IsExpanded(t.ID),
			})
		},
	)
	return rows
}

// VisibleIDs returns the task ids of rows in order.
func VisibleIDs(rows []Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Task.ID
	}
	return ids
}
