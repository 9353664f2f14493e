package cli

import (
	"fmt"
	"strings"

	"github.com/constructbms/gantt/internal/cli/formatter"
	"github.com/constructbms/gantt/internal/domain"
	"github.com/spf13/cobra"
)

func newLinkCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage dependency links between tasks",
	}

	cmd.AddCommand(
		newLinkAddCmd(app),
		newLinkListCmd(app),
		newLinkRemoveCmd(app),
	)

	return cmd
}

// parseLinkType accepts the full type names and their two-letter forms.
func parseLinkType(s string) (domain.LinkType, error) {
	switch strings.ToLower(s) {
	case "fs", string(domain.LinkFinishToStart):
		return domain.LinkFinishToStart, nil
	case "ss", string(domain.LinkStartToStart):
		return domain.LinkStartToStart, nil
	case "ff", string(domain.LinkFinishToFinish):
		return domain.LinkFinishToFinish, nil
	case "sf", string(domain.LinkStartToFinish):
		return domain.LinkStartToFinish, nil
	}
	return "", fmt.Errorf("invalid link type %q (use fs, ss, ff or sf)", s)
}

func newLinkAddCmd(app *App) *cobra.Command {
	var linkType string
	var lag float64

	cmd := &cobra.Command{
		Use:   "add PROJECT FROM TO",
		Short: "Make TO depend on FROM",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, tasks, err := projectTasks(ctx, app, args[0])
			if err != nil {
				return err
			}
			from, err := resolveTask(tasks, args[1])
			if err != nil {
				return err
			}
			to, err := resolveTask(tasks, args[2])
			if err != nil {
				return err
			}
			lt, err := parseLinkType(linkType)
			if err != nil {
				return err
			}

			l := &domain.Link{
				ProjectID:    p.ID,
				SourceTaskID: from.ID,
				TargetTaskID: to.ID,
				Type:         lt,
				Lag:          lag,
			}
			if err := app.Links.Create(ctx, l); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked %s → %s (%s, lag %s)\n",
				from.Name, to.Name, l.Type, formatter.FormatDays(l.Lag))
			return nil
		},
	}

	cmd.Flags().StringVar(&linkType, "type", "fs", "Link type: fs, ss, ff or sf")
	cmd.Flags().Float64Var(&lag, "lag", 0, "Lag in days (negative for lead time)")

	return cmd
}

func newLinkListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list PROJECT",
		Short: "List a project's dependency links",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, tasks, err := projectTasks(ctx, app, args[0])
			if err != nil {
				return err
			}
			links, err := app.Links.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(links) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No links."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatLinkList(links, taskNames(tasks)))
			return nil
		},
	}
}

func newLinkRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove PROJECT LINK",
		Short: "Delete a dependency link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			links, err := app.Links.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			l, err := resolveLink(links, args[1])
			if err != nil {
				return err
			}
			if err := app.Links.Delete(ctx, l.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed link %s\n", formatter.TruncID(l.ID))
			return nil
		},
	}
}
