package formatter

import (
	"fmt"
	"strings"

	"github.com/constructbms/gantt/internal/domain"
)

// FormatProjectList renders a styled project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"ID", "NAME", "START", "TARGET"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		id := p.ShortID
		if strings.TrimSpace(id) == "" {
			id = TruncID(p.ID)
		}
		target := Dim("--")
		if p.TargetDate != nil {
			target = HumanDate(*p.TargetDate)
		}
		rows = append(rows, []string{id, Bold(p.Name), HumanDate(p.StartDate), target})
	}
	return RenderBox("Projects", RenderTable(headers, rows))
}

// ProjectSummary holds the figures shown by `project show`.
type ProjectSummary struct {
	Project     *domain.Project
	TaskCount   int
	LinkCount   int
	Milestones  int
	CriticalIDs []string
	Finish      string
	AvgProgress float64
}

// FormatProjectSummary renders a project metadata card.
func FormatProjectSummary(s ProjectSummary) string {
	p := s.Project
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n\n")
	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s  %s\n", StyleDim.Render(fmt.Sprintf("%-9s", label)), value))
	}
	field("ID", p.DisplayID())
	field("START", HumanDate(p.StartDate))
	if p.TargetDate != nil {
		field("TARGET", HumanDate(*p.TargetDate))
	}
	if s.Finish != "" {
		field("FINISH", s.Finish)
	}
	field("TASKS", fmt.Sprintf("%d (%d milestones)", s.TaskCount, s.Milestones))
	field("LINKS", fmt.Sprintf("%d", s.LinkCount))
	field("CRITICAL", fmt.Sprintf("%d", len(s.CriticalIDs)))
	field("PROGRESS", RenderProgress(s.AvgProgress, 20))
	return RenderBox("", b.String())
}
