package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for project import.
type ImportSchema struct {
	Project ProjectImport `json:"project"`
	Tasks   []TaskImport  `json:"tasks"`
	Links   []LinkImport  `json:"links,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	ShortID    string  `json:"short_id"`
	Name       string  `json:"name"`
	StartDate  string  `json:"start_date"`
	TargetDate *string `json:"target_date,omitempty"`
}

// TaskImport defines one task. Parents must appear before their children.
// Dates are YYYY-MM-DD; a milestone may omit end, which then equals start.
type TaskImport struct {
	Ref            string   `json:"ref"`
	ParentRef      *string  `json:"parent_ref,omitempty"`
	Name           string   `json:"name"`
	Start          string   `json:"start"`
	End            string   `json:"end,omitempty"`
	Progress       *float64 `json:"progress,omitempty"`
	Milestone      bool     `json:"milestone,omitempty"`
	AssignedTo     string   `json:"assigned_to,omitempty"`
	Status         string   `json:"status,omitempty"`
	ConstraintType string   `json:"constraint_type,omitempty"`
	ConstraintDate *string  `json:"constraint_date,omitempty"`
	WBS            string   `json:"wbs,omitempty"`
}

// LinkImport defines a dependency between two tasks.
type LinkImport struct {
	SourceRef string  `json:"source_ref"`
	TargetRef string  `json:"target_ref"`
	Type      string  `json:"type,omitempty"`
	Lag       float64 `json:"lag,omitempty"`
}

// LoadImportSchema reads and parses a project import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

// ParseImportSchema parses import JSON already in memory.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
