package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/constructbms/gantt/internal/domain"
)

// TreeItem is one task line in a tree display.
type TreeItem struct {
	Title  string
	WBS    string
	Level  int
	IsLast bool
	Status domain.TaskStatus
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree with box-drawing connectors.
// Completed tasks get a green ✔ prefix, tasks in progress an amber ▶, and
// detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}
	lines := make([]lineInfo, len(items))
	widest := 0

	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.WBS != "" {
			title = StyleDim.Render(item.WBS+" ") + title
		}
		marker := ""
		switch item.Status {
		case domain.StatusCompleted:
			marker = StyleGreen.Render("✔ ")
			title = Dim(title)
		case domain.StatusInProgress:
			marker = StyleYellowBold.Render("▶ ")
			title = StyleYellowBold.Render(title)
		case domain.StatusDelayed:
			marker = StyleRed.Render("▲ ")
		}

		lines[idx].content = prefix + marker + title
		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		widest = max(widest, lipgloss.Width(lines[idx].content))
	}

	var b strings.Builder
	for _, li := range lines {
		b.WriteString(li.content)
		if li.badge != "" {
			pad := max(0, widest-lipgloss.Width(li.content))
			b.WriteString(strings.Repeat(" ", pad) + "  " + li.badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// TreeItems converts flattened rows into tree items, marking the last child
// of each parent. detail supplies the right-hand badge.
func TreeItems(tasks []*domain.Task, levels []int, detail func(*domain.Task) string) []TreeItem {
	items := make([]TreeItem, len(tasks))
	for i, t := range tasks {
		items[i] = TreeItem{
			Title:  t.Name,
			WBS:    t.WBSNumber,
			Level:  levels[i],
			Status: t.Status,
			IsLast: isLastSibling(levels, i),
		}
		if detail != nil {
			items[i].Detail = detail(t)
		}
	}
	return items
}

// isLastSibling reports whether no later row at the same level appears
// before the tree climbs above it.
func isLastSibling(levels []int, i int) bool {
	for j := i + 1; j < len(levels); j++ {
		if levels[j] < levels[i] {
			return true
		}
		if levels[j] == levels[i] {
			return false
		}
	}
	return true
}
