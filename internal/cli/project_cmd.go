package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/constructbms/gantt/internal/cli/formatter"
	"github.com/constructbms/gantt/internal/domain"
	"github.com/constructbms/gantt/internal/service"
	"github.com/spf13/cobra"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, start, target, shortID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse(time.DateOnly, start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}

			p := &domain.Project{
				ShortID:   strings.ToUpper(shortID),
				Name:      name,
				StartDate: startDate,
			}
			if target != "" {
				targetDate, err := time.Parse(time.DateOnly, target)
				if err != nil {
					return fmt.Errorf("invalid target date %q: %w", target, err)
				}
				p.TargetDate = &targetDate
			}

			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. SITE01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&target, "target", "", "Target finish date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No projects. Create one with `gantt project add` or `gantt import`."))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show project details and schedule figures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			s := app.openSession(ctx, cmd, p.ID, app.Config.Width, service.Callbacks{})
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectSummary(summarize(p, s)))
			return nil
		},
	}
}

func summarize(p *domain.Project, s *service.Session) formatter.ProjectSummary {
	tasks := s.Model().Tasks()
	sum := formatter.ProjectSummary{
		Project:     p,
		TaskCount:   len(tasks),
		LinkCount:   len(s.Model().Links()),
		CriticalIDs: s.Analysis().Critical,
	}
	var finish time.Time
	var progress float64
	for _, t := range tasks {
		if t.IsMilestone {
			sum.Milestones++
		}
		if t.EndDate.After(finish) {
			finish = t.EndDate
		}
		progress += t.Progress
	}
	if len(tasks) > 0 {
		sum.Finish = formatter.HumanDate(finish)
		if p.Overruns(finish) {
			sum.Finish += " " + formatter.StyleRed.Render("(past target)")
		}
		sum.AvgProgress = progress / float64(len(tasks))
	}
	return sum
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Delete a project with its tasks and links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s [%s]\n", p.Name, p.DisplayID())
			return nil
		},
	}
}
