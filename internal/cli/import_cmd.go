package cli

import (
	"errors"
	"fmt"

	"github.com/constructbms/gantt/internal/importer"
	"github.com/constructbms/gantt/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var demo bool

	cmd := &cobra.Command{
		Use:   "import [FILE]",
		Short: "Import a project from a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				result *service.ImportResult
				err    error
			)
			switch {
			case demo:
				schema, serr := importer.DemoSchema()
				if serr != nil {
					return serr
				}
				result, err = app.Import.ImportProjectFromSchema(ctx, schema)
			case len(args) == 1:
				result, err = app.Import.ImportProject(ctx, args[0])
			default:
				return errors.New("an import file is required (or use --demo)")
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported project %s [%s]: %d tasks, %d links\n",
				result.Project.Name, result.Project.ShortID, result.TaskCount, result.LinkCount)
			return nil
		},
	}

	cmd.Flags().BoolVar(&demo, "demo", false, "Import the built-in demo schedule")

	return cmd
}
