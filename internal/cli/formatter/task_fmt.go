package formatter

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/table"
)

// FormatTaskTable renders table rows with the given columns. Group header
// rows carry their summary in the name column.
func FormatTaskTable(rows []table.Row, cols []table.Column) string {
	if len(cols) == 0 {
		return ""
	}
	headers := make([]string, len(cols))
	var right []int
	for i, c := range cols {
		headers[i] = strings.ToUpper(c.Title())
		switch c {
		case table.ColDuration, table.ColProgress, table.ColFloat:
			right = append(right, i)
		}
	}

	nameCol := max(0, slices.Index(cols, table.ColName))
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.Kind == table.RowGroup {
			g := r.Group
			cells := make([]string, len(cols))
			cells[nameCol] = StyleHeader.Render(fmt.Sprintf("%s (%d tasks, %s, avg %.0f%%)",
				g.Key, g.Count, FormatDays(g.TotalDays), g.AvgProgress))
			out = append(out, cells)
			continue
		}
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = formatCell(c, r)
		}
		out = append(out, cells)
	}
	return RenderTable(headers, out, right...)
}

func formatCell(c table.Column, r table.Row) string {
	t := r.Task
	text := table.Format(c, t)
	switch c {
	case table.ColName:
		glyph := "  "
		if r.HasChildren {
			glyph = "▸ "
			if r.Expanded {
				glyph = "▾ "
			}
		}
		name := strings.Repeat("  ", r.Level) + glyph + text
		if t.IsCritical {
			return StyleRed.Render(name)
		}
		return name
	case table.ColStatus:
		return StatusPill(t.Status)
	case table.ColCritical:
		return CriticalBadge(t.IsCritical)
	case table.ColFloat:
		return FloatLabel(t.Float, t.IsCritical)
	case table.ColProgress:
		return text + "%"
	case table.ColMilestone:
		if t.IsMilestone {
			return StylePurple.Render("◆")
		}
		return ""
	}
	if text == "" {
		return Dim("--")
	}
	return text
}

// FormatAnalysis lists per-task float and the critical set, most critical
// first.
func FormatAnalysis(tasks []*domain.Task) string {
	sorted := append([]*domain.Task(nil), tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].IsCritical != sorted[j].IsCritical {
			return sorted[i].IsCritical
		}
		return sorted[i].Float < sorted[j].Float
	})

	headers := []string{"WBS", "TASK", "DATES", "FLOAT", "CRITICAL", "CONSTRAINT"}
	rows := make([][]string, 0, len(sorted))
	critical := 0
	for _, t := range sorted {
		if t.IsCritical {
			critical++
		}
		constraint := Dim("--")
		if t.ConstraintType != domain.ConstraintNone && t.ConstraintType != "" {
			constraint = string(t.ConstraintType)
			if t.ConstraintViolated {
				constraint = StyleYellowBold.Render(constraint + " !")
			}
		}
		rows = append(rows, []string{
			Dim(t.WBSNumber),
			Bold(t.Name),
			DateRange(t.StartDate, t.EndDate),
			FloatLabel(t.Float, t.IsCritical),
			CriticalBadge(t.IsCritical),
			constraint,
		})
	}
	summary := fmt.Sprintf("%d tasks, %d critical", len(tasks), critical)
	return RenderBox("Schedule analysis", RenderTable(headers, rows, 3)+"\n"+Dim(summary))
}

// FormatLinkList renders dependency links with task names resolved.
func FormatLinkList(links []*domain.Link, names map[string]string) string {
	headers := []string{"ID", "FROM", "TO", "TYPE", "LAG"}
	rows := make([][]string, 0, len(links))
	for _, l := range links {
		rows = append(rows, []string{
			TruncID(l.ID),
			nameOrMissing(names, l.SourceTaskID),
			nameOrMissing(names, l.TargetTaskID),
			string(l.Type),
			FormatDays(l.Lag),
		})
	}
	return RenderTable(headers, rows, 4)
}

func nameOrMissing(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return StyleRed.Render(TruncID(id) + " (missing)")
}

// FormatBatchResult summarizes a batch update.
func FormatBatchResult(res domain.BatchResult) string {
	var b strings.Builder
	b.WriteString(StyleGreen.Render(fmt.Sprintf("%d updated", len(res.Updated))))
	if len(res.Failures) > 0 {
		b.WriteString(", " + StyleRed.Render(fmt.Sprintf("%d failed", len(res.Failures))))
		for _, f := range res.Failures {
			b.WriteString(fmt.Sprintf("\n  %s %s: %s", StyleRed.Render("✖"), TruncID(f.TaskID), f.Err))
		}
	}
	return b.String()
}
