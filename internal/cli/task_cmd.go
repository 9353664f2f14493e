package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/constructbms/gantt/internal/cli/formatter"
	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/hierarchy"
	"github.com/constructbms/gantt/internal/service"
	"github.com/constructbms/gantt/internal/table"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskUpdateCmd(app),
		newTaskMoveCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var (
		name, start, end, parent, assigned string
		days                               int
		milestone                          bool
	)

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a task to a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}

			if name == "" && app.interactive() {
				v := taskFormValues{Start: start}
				if days > 0 {
					v.Days = strconv.Itoa(days)
				}
				if err := taskForm(&v).Run(); err != nil {
					return err
				}
				name, start, milestone = v.Name, v.Start, v.Milestone
				if v.Days != "" {
					days, _ = strconv.Atoi(v.Days)
				}
			}
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("task name is required (use --name)")
			}

			t := &domain.Task{
				ProjectID:   p.ID,
				Name:        name,
				StartDate:   p.StartDate,
				AssignedTo:  assigned,
				IsMilestone: milestone,
			}
			if start != "" {
				if t.StartDate, err = time.Parse(time.DateOnly, start); err != nil {
					return fmt.Errorf("invalid start date %q: %w", start, err)
				}
			}
			switch {
			case milestone:
				t.EndDate = t.StartDate
			case end != "":
				if t.EndDate, err = time.Parse(time.DateOnly, end); err != nil {
					return fmt.Errorf("invalid end date %q: %w", end, err)
				}
			default:
				t.EndDate = t.StartDate.AddDate(0, 0, max(days, 1))
			}

			if parent != "" {
				tasks, err := app.Tasks.ListByProject(ctx, p.ID)
				if err != nil {
					return err
				}
				pt, err := resolveTask(tasks, parent)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				t.ParentID = &pt.ID
			}

			if err := app.Tasks.Create(ctx, t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added task %s [%s] %s\n",
				t.Name, formatter.TruncID(t.ID), formatter.DateRange(t.StartDate, t.EndDate))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, default project start)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 1, "Duration in days when --end is not given")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task ID or WBS number")
	cmd.Flags().StringVar(&assigned, "assigned", "", "Assignee")
	cmd.Flags().BoolVar(&milestone, "milestone", false, "Create a zero-length milestone")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's tasks as a tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No tasks. Add one with `gantt task add`."))
				return nil
			}

			expanded := hierarchy.NewExpandState()
			expanded.ExpandAll(tasks)
			rows := hierarchy.Flatten(tasks, expanded)
			ordered := make([]*domain.Task, len(rows))
			levels := make([]int, len(rows))
			for i, r := range rows {
				ordered[i], levels[i] = r.Task, r.Level
			}
			items := formatter.TreeItems(ordered, levels, func(t *domain.Task) string {
				return formatter.TruncID(t.ID) + " " + formatter.DateRange(t.StartDate, t.EndDate)
			})
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTree(items))
			return nil
		},
	}
}

// newTaskUpdateCmd edits fields given as field=value pairs. A single task
// goes through the explicit-edit path, one field at a time; several
// comma-separated tasks are updated as one batch.
func newTaskUpdateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update PROJECT TASK[,TASK...] FIELD=VALUE...",
		Short: "Update task fields",
		Long: `Update task fields given as FIELD=VALUE pairs.

Fields: name, start, end, progress, wbs, assigned, status, constraint,
constraint_date, milestone. Dates use YYYY-MM-DD.`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			pairs, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}

			var persistErr error
			s := app.openSession(ctx, cmd, p.ID, app.Config.Width, service.Callbacks{
				OnPersistError: func(taskID string, err error) { persistErr = err },
			})
			tasks := s.Model().Tasks()
			refs := strings.Split(args[1], ",")
			ids := make([]string, len(refs))
			for i, ref := range refs {
				t, err := resolveTask(tasks, strings.TrimSpace(ref))
				if err != nil {
					return err
				}
				ids[i] = t.ID
			}

			if len(ids) == 1 {
				err = editFields(s.Table(), ids[0], pairs)
				s.Wait()
				if err != nil {
					return err
				}
				if persistErr != nil {
					return fmt.Errorf("saving task: %w", persistErr)
				}
				t, _ := s.Model().Task(ids[0])
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", t.Name)
				return nil
			}

			updates, err := batchUpdates(s, ids, pairs)
			if err != nil {
				return err
			}
			res := s.BatchUpdate(ctx, updates)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatBatchResult(res))
			if !res.OK() {
				return fmt.Errorf("%d of %d updates failed", len(res.Failures), len(updates))
			}
			return nil
		},
	}
}

type assignment struct {
	field domain.Field
	text  string
}

func parseAssignments(args []string) ([]assignment, error) {
	out := make([]assignment, 0, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected FIELD=VALUE, got %q", arg)
		}
		f, ok := domain.ParseField(strings.TrimSpace(k))
		if !ok {
			return nil, fmt.Errorf("unknown field %q", k)
		}
		out = append(out, assignment{field: f, text: v})
	}
	return out, nil
}

// editFields commits each pair as a table cell edit, stopping at the first
// rejection.
func editFields(tv *table.View, taskID string, pairs []assignment) error {
	for _, a := range pairs {
		if err := tv.BeginEdit(taskID, table.Column(a.field)); err != nil {
			return err
		}
		if err := tv.Input(a.text); err != nil {
			return err
		}
		if err := tv.Commit(); err != nil {
			return fmt.Errorf("%s: %w", a.field, err)
		}
	}
	return nil
}

func batchUpdates(s *service.Session, ids []string, pairs []assignment) ([]domain.TaskUpdate, error) {
	var updates []domain.TaskUpdate
	for _, id := range ids {
		t, _ := s.Model().Task(id)
		for _, a := range pairs {
			value, err := table.Parse(a.field, a.text, t.StartDate.Location())
			if err != nil {
				return nil, err
			}
			patch, ok := domain.PatchFor(a.field, value)
			if !ok {
				return nil, fmt.Errorf("invalid value %q for %s", a.text, a.field)
			}
			updates = append(updates, domain.TaskUpdate{TaskID: id, Patch: patch})
		}
	}
	return updates, nil
}

func newTaskMoveCmd(app *App) *cobra.Command {
	var parent string
	var index int

	cmd := &cobra.Command{
		Use:   "move PROJECT TASK",
		Short: "Reparent a task or change its position among siblings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, tasks, err := projectTasks(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := resolveTask(tasks, args[1])
			if err != nil {
				return err
			}
			parentID := ""
			if parent != "" {
				pt, err := resolveTask(tasks, parent)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				parentID = pt.ID
			}
			if err := app.Tasks.Move(ctx, t.ID, parentID, index); err != nil {
				return err
			}
			where := "the root level"
			if parentID != "" {
				where = parent
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s under %s in %s\n", t.Name, where, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "New parent task ID or WBS number (empty for the root level)")
	cmd.Flags().IntVar(&index, "index", -1, "Position among the new siblings (-1 appends)")

	return cmd
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT TASK",
		Short: "Delete a task; its children move to the root level",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, tasks, err := projectTasks(ctx, app, args[0])
			if err != nil {
				return err
			}
			t, err := resolveTask(tasks, args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", t.Name)
			return nil
		},
	}
}

func projectTasks(ctx context.Context, app *App, ref string) (*domain.Project, []*domain.Task, error) {
	p, err := resolveProject(ctx, app, ref)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := app.Tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return nil, nil, err
	}
	return p, tasks, nil
}
