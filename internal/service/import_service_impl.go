package service

import (
	"context"
	"fmt"
	"time"

	"github.com/constructbms/gantt/internal/db"
	"github.com/constructbms/gantt/internal/importer"
	"github.com/constructbms/gantt/internal/repository"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

// NewImportService creates an import service. The whole import runs in one
// transaction: any failing insert leaves the database untouched.
func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportProject(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.importSchema(ctx, schema)
}

func (s *importService) ImportProjectFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error) {
	return s.importSchema(ctx, schema)
}

func (s *importService) importSchema(ctx context.Context, schema *importer.ImportSchema) (result *ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project": schema.Project.ShortID}
	defer func() { observe(ctx, s.observer, "import_project", startedAt, err, fields) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting import schema: %w", err)
	}
	fields["task_count"] = len(generated.Tasks)
	fields["link_count"] = len(generated.Links)

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Create(ctx, generated.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		tasks := repository.NewSQLiteTaskRepo(tx)
		for _, t := range generated.Tasks {
			if err := tasks.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Name, err)
			}
		}
		links := repository.NewSQLiteLinkRepo(tx)
		for _, l := range generated.Links {
			if err := links.Create(ctx, l); err != nil {
				return fmt.Errorf("creating link: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Project:   generated.Project,
		TaskCount: len(generated.Tasks),
		LinkCount: len(generated.Links),
	}, nil
}

func formatValidationErrors(errs []error) error {
	msg := fmt.Sprintf("import validation failed (%d errors):", len(errs))
	for _, e := range errs {
		msg += "\n  - " + e.Error()
	}
	return fmt.Errorf("%s", msg)
}
