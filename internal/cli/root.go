package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/constructbms/gantt/internal/config"
	"github.com/constructbms/gantt/internal/service"
	"github.com/spf13/cobra"
)

// App holds the configuration and service interfaces used by CLI commands.
type App struct {
	Config *config.Config

	Projects service.ProjectService
	Tasks    service.TaskService
	Links    service.LinkService
	Import   service.ImportService
	Store    service.Store
	Observer service.UseCaseObserver

	// IsInteractive reports whether stdin is a terminal. Forms are only
	// shown when it returns true.
	IsInteractive func() bool

	// RunProgram runs a bubbletea model to completion. Tests replace it to
	// avoid taking over the terminal.
	RunProgram func(m tea.Model) error

	// Connect wires storage and services once flags are parsed. It is
	// skipped when Store is already set.
	Connect func(app *App) error
}

// NewRootCmd creates the top-level "gantt" command and registers all
// subcommands against the provided App. Persistent flags override app.Config
// in place.
func NewRootCmd(app *App) *cobra.Command {
	if app.Config == nil {
		cfg := config.DefaultConfig()
		app.Config = &cfg
	}

	root := &cobra.Command{
		Use:           "gantt",
		Short:         "Interactive project scheduler with critical path analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.Validate(); err != nil {
				return err
			}
			if app.Store == nil && app.Connect != nil {
				return app.Connect(app)
			}
			return nil
		},
	}
	app.Config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newProjectCmd(app),
		newTaskCmd(app),
		newLinkCmd(app),
		newWBSCmd(app),
		newAnalyzeCmd(app),
		newTableCmd(app),
		newChartCmd(app),
		newImportCmd(app),
		newTUICmd(app),
	)

	return root
}

func (app *App) interactive() bool {
	return app.IsInteractive != nil && app.IsInteractive()
}

// openSession loads a scheduling session for projectID with the configured
// role, zoom and view toggles. width is the chart width in cells.
func (app *App) openSession(ctx context.Context, cmd *cobra.Command, projectID string, width int, cb service.Callbacks) *service.Session {
	cfg := app.Config
	s := service.NewSession(ctx, app.Store, service.SessionConfig{
		ProjectID: projectID,
		UserRole:  cfg.Role,
		Zoom:      cfg.Zoom,
		Width:     float64(width),
		View:      cfg.View,
	}, cb, app.Observer)
	if s.IsDemo() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: showing demo schedule: %v\n", s.LoadError())
	}
	return s
}
