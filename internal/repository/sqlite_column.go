package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

const columnColumns = `id, name, position, space_id, sprint_id, wip_limit, created_at`

// taskCardSelect resolves a placed task through its direct backlog item
// link. It reads no sprint table.
const taskCardSelect = `SELECT t.id,
		COALESCE(bi.sequence_number, 0),
		COALESCE(bi.title, ''),
		t.assignee_id,
		COALESCE(assignee.name, ''),
		NULL,
		ct.position,
		ct.moved_at
	FROM columns_tasks ct
	JOIN tasks t ON ct.task_id = t.id
	LEFT JOIN backlog_items bi ON t.backlog_item_id = bi.id
	LEFT JOIN users assignee ON t.assignee_id = assignee.id`

// sprintTaskCardSelect also resolves tasks linked through a sprint backlog
// item, which carries the story points.
const sprintTaskCardSelect = `SELECT t.id,
		COALESCE(bi.sequence_number, sbi_bi.sequence_number, 0),
		COALESCE(bi.title, sbi_bi.title, ''),
		t.assignee_id,
		COALESCE(assignee.name, ''),
		sbi.story_points,
		ct.position,
		ct.moved_at
	FROM columns_tasks ct
	JOIN tasks t ON ct.task_id = t.id
	LEFT JOIN backlog_items bi ON t.backlog_item_id = bi.id
	LEFT JOIN sprint_backlog_items sbi ON t.sprint_backlog_item_id = sbi.id
	LEFT JOIN backlog_items sbi_bi ON sbi.backlog_item_id = sbi_bi.id
	LEFT JOIN users assignee ON t.assignee_id = assignee.id`

// SQLiteColumnRepo implements ColumnRepo using a SQLite database.
type SQLiteColumnRepo struct {
	db db.DBTX
}

// NewSQLiteColumnRepo creates a new SQLiteColumnRepo.
func NewSQLiteColumnRepo(conn db.DBTX) *SQLiteColumnRepo {
	return &SQLiteColumnRepo{db: conn}
}

func (r *SQLiteColumnRepo) Create(ctx context.Context, c *domain.Column) error {
	query := `INSERT INTO columns (id, name, position, space_id, sprint_id, wip_limit, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Name,
		c.Position,
		nullableString(c.SpaceID),
		nullableString(c.SprintID),
		nullableIntToValue(c.WIPLimit),
		formatTimestamp(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting column: %w", err)
	}
	return nil
}

func (r *SQLiteColumnRepo) GetByID(ctx context.Context, id string) (*domain.Column, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columnColumns+` FROM columns WHERE id = ?`, id)
	c, err := scanColumn(row)
	if err != nil {
		return nil, notFound(err, "column", id)
	}
	return c, nil
}

func (r *SQLiteColumnRepo) ListBySpace(ctx context.Context, spaceID string) ([]*domain.Column, error) {
	return r.list(ctx, `SELECT `+columnColumns+` FROM columns WHERE space_id = ? ORDER BY position ASC, created_at ASC`, spaceID)
}

func (r *SQLiteColumnRepo) ListBySprint(ctx context.Context, sprintID string) ([]*domain.Column, error) {
	return r.list(ctx, `SELECT `+columnColumns+` FROM columns WHERE sprint_id = ? ORDER BY position ASC, created_at ASC`, sprintID)
}

func (r *SQLiteColumnRepo) FirstForSpace(ctx context.Context, spaceID string) (*domain.Column, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columnColumns+` FROM columns
		WHERE space_id = ? ORDER BY position ASC, created_at ASC LIMIT 1`, spaceID)
	c, err := scanColumn(row)
	if err != nil {
		return nil, notFound(err, "first column for space", spaceID)
	}
	return c, nil
}

func (r *SQLiteColumnRepo) FirstForSprint(ctx context.Context, sprintID string) (*domain.Column, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columnColumns+` FROM columns
		WHERE sprint_id = ? ORDER BY position ASC, created_at ASC LIMIT 1`, sprintID)
	c, err := scanColumn(row)
	if err != nil {
		return nil, notFound(err, "first column for sprint", sprintID)
	}
	return c, nil
}

// FindByName matches a space column by exact name.
func (r *SQLiteColumnRepo) FindByName(ctx context.Context, spaceID, name string) (*domain.Column, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columnColumns+` FROM columns
		WHERE space_id = ? AND name = ? ORDER BY position ASC LIMIT 1`, spaceID, name)
	c, err := scanColumn(row)
	if err != nil {
		return nil, notFound(err, "column", name)
	}
	return c, nil
}

func (r *SQLiteColumnRepo) Update(ctx context.Context, id string, patch domain.ColumnPatch) error {
	var set setClause
	if patch.Name.Set {
		set.add("name", patch.Name.Value)
	}
	if patch.Position.Set {
		set.add("position", patch.Position.Value)
	}
	if patch.WIPLimit.Set {
		set.add("wip_limit", nullableIntToValue(patch.WIPLimit.Value))
	}
	if set.empty() {
		return nil
	}

	res, err := r.db.ExecContext(ctx, `UPDATE columns SET `+set.sql()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("updating column: %w", err)
	}
	return requireAffected(res, "column", id)
}

func (r *SQLiteColumnRepo) CountTasks(ctx context.Context, columnID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM columns_tasks WHERE column_id = ?`, columnID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting column tasks: %w", err)
	}
	return n, nil
}

func (r *SQLiteColumnRepo) ListTasks(ctx context.Context, columnID string) ([]domain.TaskCard, error) {
	return r.listCards(ctx, taskCardSelect, columnID)
}

func (r *SQLiteColumnRepo) ListSprintTasks(ctx context.Context, columnID string) ([]domain.TaskCard, error) {
	return r.listCards(ctx, sprintTaskCardSelect, columnID)
}

func (r *SQLiteColumnRepo) listCards(ctx context.Context, selectClause, columnID string) ([]domain.TaskCard, error) {
	rows, err := r.db.QueryContext(ctx, selectClause+`
		WHERE ct.column_id = ?
		ORDER BY ct.position ASC, ct.moved_at ASC`, columnID)
	if err != nil {
		return nil, fmt.Errorf("listing column tasks: %w", err)
	}
	defer rows.Close()

	var cards []domain.TaskCard
	for rows.Next() {
		var c domain.TaskCard
		var assigneeID sql.NullString
		var points sql.NullInt64
		var movedAt string
		if err := rows.Scan(&c.TaskID, &c.Sequence, &c.Title, &assigneeID, &c.AssigneeName, &points, &c.Position, &movedAt); err != nil {
			return nil, fmt.Errorf("scanning column task row: %w", err)
		}
		c.AssigneeID = stringPtr(assigneeID)
		c.StoryPoints = intPtr(points)
		if c.MovedAt, err = parseTimestamp(movedAt); err != nil {
			return nil, fmt.Errorf("parsing moved_at: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column tasks: %w", err)
	}
	return cards, nil
}

// MoveTask upserts on task_id, so the mapping is replaced rather than
// appended and moved_at is rewritten even when the column is unchanged.
func (r *SQLiteColumnRepo) MoveTask(ctx context.Context, p domain.ColumnTask) error {
	query := `INSERT INTO columns_tasks (task_id, column_id, position, moved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			column_id = excluded.column_id,
			position = excluded.position,
			moved_at = excluded.moved_at`
	if _, err := r.db.ExecContext(ctx, query, p.TaskID, p.ColumnID, p.Position, formatTimestamp(p.MovedAt)); err != nil {
		return fmt.Errorf("moving task %s to column %s: %w", p.TaskID, p.ColumnID, err)
	}
	return nil
}

func (r *SQLiteColumnRepo) list(ctx context.Context, query string, arg string) ([]*domain.Column, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing columns: %w", err)
	}
	defer rows.Close()

	var cols []*domain.Column
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating columns: %w", err)
	}
	return cols, nil
}

func scanColumn(row rowScanner) (*domain.Column, error) {
	var c domain.Column
	var spaceID, sprintID sql.NullString
	var wip sql.NullInt64
	var createdAt string
	if err := row.Scan(&c.ID, &c.Name, &c.Position, &spaceID, &sprintID, &wip, &createdAt); err != nil {
		return nil, err
	}
	c.SpaceID = stringPtr(spaceID)
	c.SprintID = stringPtr(sprintID)
	c.WIPLimit = intPtr(wip)
	var err error
	if c.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &c, nil
}
