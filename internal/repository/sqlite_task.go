package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, backlog_item_id, sprint_backlog_item_id, assignee_id, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		nullableString(t.BacklogItemID),
		nullableString(t.SprintBacklogItemID),
		nullableString(t.AssigneeID),
		formatTimestamp(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var t domain.Task
	var itemID, sprintItemID, assigneeID sql.NullString
	var createdAt string
	err := r.db.QueryRowContext(ctx, `SELECT id, backlog_item_id, sprint_backlog_item_id, assignee_id, created_at
		FROM tasks WHERE id = ?`, id).Scan(&t.ID, &itemID, &sprintItemID, &assigneeID, &createdAt)
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	t.BacklogItemID = stringPtr(itemID)
	t.SprintBacklogItemID = stringPtr(sprintItemID)
	t.AssigneeID = stringPtr(assigneeID)
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &t, nil
}

func (r *SQLiteTaskRepo) Assign(ctx context.Context, id string, assigneeID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tasks SET assignee_id = ? WHERE id = ?`, nullableString(assigneeID), id)
	if err != nil {
		return fmt.Errorf("assigning task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) GetPlacement(ctx context.Context, taskID string) (*domain.ColumnTask, error) {
	var ct domain.ColumnTask
	var movedAt string
	err := r.db.QueryRowContext(ctx, `SELECT task_id, column_id, position, moved_at
		FROM columns_tasks WHERE task_id = ?`, taskID).Scan(&ct.TaskID, &ct.ColumnID, &ct.Position, &movedAt)
	if err != nil {
		return nil, notFound(err, "column placement for task", taskID)
	}
	if ct.MovedAt, err = parseTimestamp(movedAt); err != nil {
		return nil, fmt.Errorf("parsing moved_at: %w", err)
	}
	return &ct, nil
}
