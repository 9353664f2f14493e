package importer

import (
	_ "embed"
	"fmt"
)

// DemoProjectID is the project id of the embedded demo schedule. Demo task
// ids are their refs.
const DemoProjectID = "demo"

//go:embed demo.json
var demoJSON []byte

// Demo returns a fresh copy of the embedded demo schedule. It is shown when
// a project cannot be loaded.
func Demo() (*GeneratedSchedule, error) {
	schema, err := DemoSchema()
	if err != nil {
		return nil, err
	}
	if errs := ValidateImportSchema(schema); len(errs) > 0 {
		return nil, fmt.Errorf("demo schedule: %w", errs[0])
	}
	return convert(schema, idScheme{
		project: func() string { return DemoProjectID },
		task:    func(ref string) string { return ref },
		link:    func(i int) string { return fmt.Sprintf("link-%d", i+1) },
	})
}

// DemoSchema parses the embedded demo file, for importing it as a real
// project.
func DemoSchema() (*ImportSchema, error) {
	schema, err := ParseImportSchema(demoJSON)
	if err != nil {
		return nil, fmt.Errorf("demo schedule: %w", err)
	}
	return schema, nil
}
