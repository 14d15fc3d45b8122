package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

const sprintBacklogItemSelect = `SELECT sbi.id, sbi.sprint_id, sbi.backlog_item_id, sbi.story_points,
		sbi.position, sbi.added_at, bi.title, bi.sequence_number, COALESCE(assignee.name, '')
	FROM sprint_backlog_items sbi
	JOIN backlog_items bi ON sbi.backlog_item_id = bi.id
	LEFT JOIN users assignee ON bi.assignee_id = assignee.id`

// SQLiteSprintBacklogItemRepo implements SprintBacklogItemRepo using a SQLite database.
type SQLiteSprintBacklogItemRepo struct {
	db db.DBTX
}

// NewSQLiteSprintBacklogItemRepo creates a new SQLiteSprintBacklogItemRepo.
func NewSQLiteSprintBacklogItemRepo(conn db.DBTX) *SQLiteSprintBacklogItemRepo {
	return &SQLiteSprintBacklogItemRepo{db: conn}
}

func (r *SQLiteSprintBacklogItemRepo) Add(ctx context.Context, item *domain.SprintBacklogItem) error {
	query := `INSERT INTO sprint_backlog_items (id, sprint_id, backlog_item_id, story_points, position, added_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.SprintID,
		item.BacklogItemID,
		nullableIntToValue(item.StoryPoints),
		item.Position,
		formatTimestamp(item.AddedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting sprint backlog item: %w", err)
	}
	return nil
}

func (r *SQLiteSprintBacklogItemRepo) GetByID(ctx context.Context, id string) (*domain.SprintBacklogItem, error) {
	row := r.db.QueryRowContext(ctx, sprintBacklogItemSelect+` WHERE sbi.id = ?`, id)
	item, err := scanSprintBacklogItem(row)
	if err != nil {
		return nil, notFound(err, "sprint backlog item", id)
	}
	return item, nil
}

func (r *SQLiteSprintBacklogItemRepo) Exists(ctx context.Context, sprintID, backlogItemID string) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM sprint_backlog_items WHERE sprint_id = ? AND backlog_item_id = ?`,
		sprintID, backlogItemID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking sprint membership: %w", err)
	}
	return true, nil
}

func (r *SQLiteSprintBacklogItemRepo) FindBySprintAndItem(ctx context.Context, sprintID, backlogItemID string) (*domain.SprintBacklogItem, error) {
	row := r.db.QueryRowContext(ctx, sprintBacklogItemSelect+` WHERE sbi.sprint_id = ? AND sbi.backlog_item_id = ?`,
		sprintID, backlogItemID)
	item, err := scanSprintBacklogItem(row)
	if err != nil {
		return nil, notFound(err, "sprint backlog item for", backlogItemID)
	}
	return item, nil
}

func (r *SQLiteSprintBacklogItemRepo) ListBySprint(ctx context.Context, sprintID string) ([]*domain.SprintBacklogItem, error) {
	rows, err := r.db.QueryContext(ctx, sprintBacklogItemSelect+`
		WHERE sbi.sprint_id = ?
		ORDER BY sbi.position ASC, bi.sequence_number ASC`, sprintID)
	if err != nil {
		return nil, fmt.Errorf("listing sprint backlog: %w", err)
	}
	defer rows.Close()

	var items []*domain.SprintBacklogItem
	for rows.Next() {
		item, err := scanSprintBacklogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sprint backlog row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprint backlog: %w", err)
	}
	return items, nil
}

func (r *SQLiteSprintBacklogItemRepo) Summary(ctx context.Context, sprintID string) (domain.SprintSummary, error) {
	var s domain.SprintSummary
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(COALESCE(story_points, 0)), 0)
		FROM sprint_backlog_items WHERE sprint_id = ?`, sprintID).Scan(&s.ItemCount, &s.StoryPoints)
	if err != nil {
		return domain.SprintSummary{}, fmt.Errorf("summarizing sprint backlog: %w", err)
	}
	return s, nil
}

func (r *SQLiteSprintBacklogItemRepo) Update(ctx context.Context, id string, patch domain.SprintBacklogItemPatch) error {
	var set setClause
	if patch.StoryPoints.Set {
		set.add("story_points", nullableIntToValue(patch.StoryPoints.Value))
	}
	if patch.Position.Set {
		set.add("position", patch.Position.Value)
	}
	if set.empty() {
		return nil
	}

	res, err := r.db.ExecContext(ctx, `UPDATE sprint_backlog_items SET `+set.sql()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("updating sprint backlog item: %w", err)
	}
	return requireAffected(res, "sprint backlog item", id)
}

func scanSprintBacklogItem(row rowScanner) (*domain.SprintBacklogItem, error) {
	var item domain.SprintBacklogItem
	var points sql.NullInt64
	var addedAt string
	err := row.Scan(
		&item.ID, &item.SprintID, &item.BacklogItemID, &points,
		&item.Position, &addedAt, &item.Title, &item.Sequence, &item.AssigneeName,
	)
	if err != nil {
		return nil, err
	}
	item.StoryPoints = intPtr(points)
	if item.AddedAt, err = parseTimestamp(addedAt); err != nil {
		return nil, fmt.Errorf("parsing added_at: %w", err)
	}
	return &item, nil
}
