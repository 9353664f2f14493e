package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/constructbms/gantt/internal/cli"
	"github.com/constructbms/gantt/internal/config"
	"github.com/constructbms/gantt/internal/db"
	"github.com/constructbms/gantt/internal/repository"
	"github.com/constructbms/gantt/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Defaults, then ~/.gantt/config.yaml or GANTT_CONFIG, then GANTT_* env.
	// Flags are applied on top by the root command.
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{Config: &cfg}

	// The database path may come from --db, so storage is opened after
	// flag parsing.
	app.Connect = func(app *cli.App) error {
		database, err = db.OpenDB(app.Config.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
		if app.Config.Log {
			observer = service.NewLogUseCaseObserver(os.Stderr)
		}

		// Wire repositories
		projectRepo := repository.NewSQLiteProjectRepo(database)
		taskRepo := repository.NewSQLiteTaskRepo(database)
		linkRepo := repository.NewSQLiteLinkRepo(database)

		// Wire unit of work for transactional operations
		uow := db.NewSQLiteUnitOfWork(database)

		app.Projects = service.NewProjectService(projectRepo)
		app.Tasks = service.NewTaskService(taskRepo, linkRepo, uow, observer)
		app.Links = service.NewLinkService(linkRepo, taskRepo)
		app.Import = service.NewImportService(uow, observer)
		app.Store = repository.NewSQLiteStore(database)
		app.Observer = observer
		return nil
	}

	// Forms are only offered on an interactive terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
