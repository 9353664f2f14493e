package cli

import (
	"fmt"
	"strings"

	"github.com/constructbms/gantt/internal/cli/formatter"
	"github.com/constructbms/gantt/internal/config"
	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/render"
	"github.com/constructbms/gantt/internal/service"
	"github.com/constructbms/gantt/internal/table"
	"github.com/spf13/cobra"
)

// chartLabelWidth is the task-name column of painted charts.
const chartLabelWidth = 24

// chartWidth is the timeline width left after the label column.
func chartWidth(total int) int {
	return max(total-chartLabelWidth, 10)
}

func newWBSCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "wbs PROJECT",
		Short: "Regenerate and save WBS numbers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			changed := 0
			s := app.openSession(ctx, cmd, p.ID, app.Config.Width, service.Callbacks{
				OnTaskUpdate: func(string, domain.TaskPatch) { changed++ },
			})
			if err := s.RenumberWBS(ctx); err != nil {
				return err
			}

			rows := s.Rows()
			tasks := make([]*domain.Task, len(rows))
			levels := make([]int, len(rows))
			for i, r := range rows {
				tasks[i], levels[i] = r.Task, r.Level
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(formatter.TreeItems(tasks, levels, nil)))
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim(fmt.Sprintf("%d of %d numbers changed", changed, len(tasks))))
			return nil
		},
	}
}

func newAnalyzeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze PROJECT",
		Short: "Show float and the critical path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			s := app.openSession(ctx, cmd, p.ID, app.Config.Width, service.Callbacks{})
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAnalysis(s.Model().Tasks()))
			return nil
		},
	}
}

func newTableCmd(app *App) *cobra.Command {
	var sortBy, columns string
	var desc, group bool

	cmd := &cobra.Command{
		Use:   "table PROJECT",
		Short: "Print the task table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			cols, err := parseColumns(columns)
			if err != nil {
				return err
			}

			s := app.openSession(ctx, cmd, p.ID, app.Config.Width, service.Callbacks{})
			tv := s.Table()
			if sortBy != "" {
				c, ok := table.ParseColumn(sortBy)
				if !ok {
					return fmt.Errorf("unknown sort column %q", sortBy)
				}
				dir := table.Asc
				if desc {
					dir = table.Desc
				}
				tv.Sort(c, dir)
			}
			tv.SetGroupByWBS(group)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTaskTable(tv.Rows(), cols))
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort by column (e.g. start, float, progress)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().BoolVar(&group, "group", false, "Group rows by top-level WBS number")
	cmd.Flags().StringVar(&columns, "columns", "wbs,name,start,end,duration,progress,float,critical",
		"Comma-separated columns to show")

	return cmd
}

func parseColumns(s string) ([]table.Column, error) {
	var cols []table.Column
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		c, ok := table.ParseColumn(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("at least one column is required")
	}
	return cols, nil
}

func newChartCmd(app *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "chart PROJECT",
		Short: "Print a static Gantt chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			s := app.openSession(ctx, cmd, p.ID, chartWidth(app.Config.Width), service.Callbacks{})

			theme := render.DefaultTheme()
			if plain {
				theme = render.PlainTheme()
			}
			start, end := s.Window()
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n",
				formatter.Bold(p.Name),
				formatter.Dim(formatter.DateRange(start, end)),
				formatter.Dim("zoom "+config.ZoomName(s.Zoom())))
			fmt.Fprint(cmd.OutOrStdout(), render.Paint(s.Frame(), render.PaintOptions{
				LabelWidth: chartLabelWidth,
				Theme:      theme,
			}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Disable colors")

	return cmd
}
