package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/constructbms/gantt/internal/db"
	"github.com/constructbms/gantt/internal/domain"
)

// SQLiteLinkRepo implements LinkRepo using a SQLite database.
type SQLiteLinkRepo struct {
	db db.DBTX
}

// NewSQLiteLinkRepo creates a new SQLiteLinkRepo.
func NewSQLiteLinkRepo(conn db.DBTX) *SQLiteLinkRepo {
	return &SQLiteLinkRepo{db: conn}
}

const linkColumns = `id, project_id, source_task_id, target_task_id, type, lag, created_at`

func (r *SQLiteLinkRepo) Create(ctx context.Context, l *domain.Link) error {
	linkType := l.Type
	if linkType == "" {
		linkType = domain.LinkFinishToStart
	}
	query := `INSERT INTO links (` + linkColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.ID,
		l.ProjectID,
		l.SourceTaskID,
		l.TargetTaskID,
		string(linkType),
		l.Lag,
		formatTime(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting link: %w", err)
	}
	return nil
}

func (r *SQLiteLinkRepo) GetByID(ctx context.Context, id string) (*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = ?`
	l, err := scanLink(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("link: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning link: %w", err)
	}
	return l, nil
}

// ListByProject returns every link of the project, including inert ones
// whose endpoints no longer exist.
func (r *SQLiteLinkRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE project_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}
	defer rows.Close()

	var links []*domain.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning link row: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return links, nil
}

func (r *SQLiteLinkRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting link: %w", err)
	}
	return requireAffected(res, "link", id)
}

func scanLink(s scanner) (*domain.Link, error) {
	var l domain.Link
	var linkType, createdStr string
	if err := s.Scan(&l.ID, &l.ProjectID, &l.SourceTaskID, &l.TargetTaskID, &linkType, &l.Lag, &createdStr); err != nil {
		return nil, err
	}
	l.Type = domain.LinkType(linkType)
	var err error
	if l.CreatedAt, err = parseTime(createdStr, "created_at"); err != nil {
		return nil, err
	}
	return &l, nil
}
