package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/constructbms/gantt/internal/db"
	"github.com/constructbms/gantt/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database. Tasks are
// listed in order_index order, which is the display order of siblings.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

const taskColumns = `id, project_id, parent_id, name, start_date, end_date, progress, is_milestone,
	assigned_to, status, constraint_type, constraint_date, wbs_number, created_at, updated_at`

// Create inserts t at the end of its project's order.
func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `, order_index)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(order_index), -1) + 1 FROM tasks WHERE project_id = ?))`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		nullableString(t.ParentID),
		t.Name,
		formatTime(t.StartDate),
		formatTime(t.EndDate),
		t.Progress,
		boolToInt(t.IsMilestone),
		t.AssignedTo,
		string(statusOrDefault(t.Status)),
		string(constraintOrDefault(t.ConstraintType)),
		nullableTimeToString(t.ConstraintDate, timeLayout),
		t.WBSNumber,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
		t.ProjectID,
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	return t, nil
}

func (r *SQLiteTaskRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ? ORDER BY order_index, created_at, id`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

// Update writes every stored column of t except its order.
func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET parent_id = ?, name = ?, start_date = ?, end_date = ?, progress = ?,
		is_milestone = ?, assigned_to = ?, status = ?, constraint_type = ?, constraint_date = ?,
		wbs_number = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableString(t.ParentID),
		t.Name,
		formatTime(t.StartDate),
		formatTime(t.EndDate),
		t.Progress,
		boolToInt(t.IsMilestone),
		t.AssignedTo,
		string(statusOrDefault(t.Status)),
		string(constraintOrDefault(t.ConstraintType)),
		nullableTimeToString(t.ConstraintDate, timeLayout),
		t.WBSNumber,
		nowUTC(),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

// ApplyPatch updates only the columns the patch sets.
func (r *SQLiteTaskRepo) ApplyPatch(ctx context.Context, id string, patch domain.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	sets, args := patchAssignments(patch)
	sets = append(sets, "updated_at = ?")
	args = append(args, nowUTC(), id)

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("patching task %s: %w", id, err)
	}
	return requireAffected(res, "task", id)
}

func patchAssignments(p domain.TaskPatch) ([]string, []any) {
	var sets []string
	var args []any
	for _, f := range p.Fields() {
		switch f {
		case domain.FieldName:
			sets, args = append(sets, "name = ?"), append(args, *p.Name)
		case domain.FieldStartDate:
			sets, args = append(sets, "start_date = ?"), append(args, formatTime(*p.StartDate))
		case domain.FieldEndDate:
			sets, args = append(sets, "end_date = ?"), append(args, formatTime(*p.EndDate))
		case domain.FieldProgress:
			sets, args = append(sets, "progress = ?"), append(args, *p.Progress)
		case domain.FieldWBSNumber:
			sets, args = append(sets, "wbs_number = ?"), append(args, *p.WBSNumber)
		case domain.FieldAssignedTo:
			sets, args = append(sets, "assigned_to = ?"), append(args, *p.AssignedTo)
		case domain.FieldStatus:
			sets, args = append(sets, "status = ?"), append(args, string(statusOrDefault(*p.Status)))
		case domain.FieldConstraintType:
			sets, args = append(sets, "constraint_type = ?"), append(args, string(constraintOrDefault(*p.ConstraintType)))
		case domain.FieldConstraintDate:
			sets, args = append(sets, "constraint_date = ?"), append(args, nullableTimeToString(p.ConstraintDate, timeLayout))
		case domain.FieldMilestone:
			sets, args = append(sets, "is_milestone = ?"), append(args, boolToInt(*p.IsMilestone))
		}
	}
	return sets, args
}

// SetParent moves the task under parentID, or to the root level when
// parentID is nil or empty.
func (r *SQLiteTaskRepo) SetParent(ctx context.Context, id string, parentID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET parent_id = ?, updated_at = ? WHERE id = ?`,
		nullableString(parentID), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("setting parent of task %s: %w", id, err)
	}
	return requireAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) SetWBS(ctx context.Context, id, wbs string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET wbs_number = ?, updated_at = ? WHERE id = ?`,
		wbs, nowUTC(), id)
	if err != nil {
		return fmt.Errorf("setting wbs of task %s: %w", id, err)
	}
	return requireAffected(res, "task", id)
}

// Reorder assigns order_index by position in ids. Ids not listed keep
// their index.
func (r *SQLiteTaskRepo) Reorder(ctx context.Context, ids []string) error {
	for i, id := range ids {
		if _, err := r.db.ExecContext(ctx, `UPDATE tasks SET order_index = ? WHERE id = ?`, i, id); err != nil {
			return fmt.Errorf("reordering task %s: %w", id, err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) NextOrderIndex(ctx context.Context, projectID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index), -1) + 1 FROM tasks WHERE project_id = ?`, projectID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("reading order index for project %s: %w", projectID, err)
	}
	return next, nil
}

// Delete removes one task. Its children are kept and become roots.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	var parentID, constraintDate sql.NullString
	var startStr, endStr, createdStr, updatedStr, status, constraint string
	var milestone int

	err := s.Scan(
		&t.ID, &t.ProjectID, &parentID, &t.Name,
		&startStr, &endStr, &t.Progress, &milestone,
		&t.AssignedTo, &status, &constraint, &constraintDate,
		&t.WBSNumber, &createdStr, &updatedStr,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid && parentID.String != "" {
		p := parentID.String
		t.ParentID = &p
	}
	t.IsMilestone = intToBool(milestone)
	t.Status = domain.TaskStatus(status)
	t.ConstraintType = domain.ConstraintType(constraint)
	t.ConstraintDate = parseNullableTime(constraintDate, timeLayout)

	if t.StartDate, err = parseTime(startStr, "start_date"); err != nil {
		return nil, err
	}
	if t.EndDate, err = parseTime(endStr, "end_date"); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdStr, "created_at"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedStr, "updated_at"); err != nil {
		return nil, err
	}
	return &t, nil
}

func statusOrDefault(s domain.TaskStatus) domain.TaskStatus {
	if s == "" {
		return domain.StatusNotStarted
	}
	return s
}

func constraintOrDefault(c domain.ConstraintType) domain.ConstraintType {
	if c == "" {
		return domain.ConstraintNone
	}
	return c
}

func requireAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking %s update: %w", entity, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return nil
}
