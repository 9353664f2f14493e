package db

import (
	"database/sql"
	"fmt"
)

// Migrate applies the schema. Every statement is idempotent, so it is safe
// to run on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		target_date TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(UPPER(short_id))`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id              TEXT PRIMARY KEY,
		project_id      TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id       TEXT REFERENCES tasks(id) ON DELETE SET NULL,
		order_index     INTEGER NOT NULL DEFAULT 0,
		name            TEXT NOT NULL,
		start_date      TEXT NOT NULL,
		end_date        TEXT NOT NULL,
		progress        REAL NOT NULL DEFAULT 0 CHECK(progress >= 0 AND progress <= 100),
		is_milestone    INTEGER NOT NULL DEFAULT 0,
		assigned_to     TEXT NOT NULL DEFAULT '',
		status          TEXT NOT NULL DEFAULT 'not-started'
		                CHECK(status IN ('not-started','in-progress','completed','delayed')),
		constraint_type TEXT NOT NULL DEFAULT 'none'
		                CHECK(constraint_type IN ('none','MSO','SNET','FNLT','MFO')),
		constraint_date TEXT,
		wbs_number      TEXT NOT NULL DEFAULT '',
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id, order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id)`,

	// Link endpoints are not foreign keys: a link whose task was removed
	// stays in place and is ignored by layout and analysis.
	`CREATE TABLE IF NOT EXISTS links (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		source_task_id TEXT NOT NULL,
		target_task_id TEXT NOT NULL,
		type           TEXT NOT NULL DEFAULT 'finish-to-start'
		               CHECK(type IN ('finish-to-start','start-to-start','finish-to-finish','start-to-finish')),
		lag            REAL NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		CHECK(source_task_id <> target_task_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_links_project ON links(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_links_target ON links(target_task_id)`,
}
