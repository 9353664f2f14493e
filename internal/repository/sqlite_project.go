package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/constructbms/gantt/internal/db"
	"github.com/constructbms/gantt/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

const projectColumns = `id, short_id, name, start_date, target_date, created_at, updated_at`

func (r *SQLiteProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (` + projectColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ShortID,
		p.Name,
		p.StartDate.Format(dateLayout),
		nullableTimeToString(p.TargetDate, dateLayout),
		p.CreatedAt.UTC().Format(time.RFC3339),
		p.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByShortID matches case-insensitively.
func (r *SQLiteProjectRepo) GetByShortID(ctx context.Context, shortID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE UPPER(short_id) = UPPER(?)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, shortID))
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at, short_id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

// Delete removes the project; its tasks and links go with it.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return requireAffected(res, "project", id)
}

func (r *SQLiteProjectRepo) scanOne(row *sql.Row) (*domain.Project, error) {
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return p, nil
}

func scanProject(s scanner) (*domain.Project, error) {
	var p domain.Project
	var startDateStr, createdAtStr, updatedAtStr string
	var targetDateStr sql.NullString

	if err := s.Scan(&p.ID, &p.ShortID, &p.Name, &startDateStr, &targetDateStr, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}

	var parseErr error
	p.StartDate, parseErr = time.Parse(dateLayout, startDateStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing start_date: %w", parseErr)
	}
	if p.CreatedAt, parseErr = parseTime(createdAtStr, "created_at"); parseErr != nil {
		return nil, parseErr
	}
	if p.UpdatedAt, parseErr = parseTime(updatedAtStr, "updated_at"); parseErr != nil {
		return nil, parseErr
	}
	p.TargetDate = parseNullableTime(targetDateStr, dateLayout)
	return &p, nil
}
