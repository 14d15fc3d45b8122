package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// backlogItemSelect joins creator and assignee names onto backlog items.
const backlogItemSelect = `SELECT bi.id, bi.space_id, bi.title, bi.description, bi.created_by_id,
		bi.assignee_id, bi.sequence_number, bi.position, bi.created_at,
		COALESCE(creator.name, ''), COALESCE(assignee.name, '')
	FROM backlog_items bi
	LEFT JOIN users creator ON bi.created_by_id = creator.id
	LEFT JOIN users assignee ON bi.assignee_id = assignee.id`

// SQLiteBacklogItemRepo implements BacklogItemRepo using a SQLite database.
type SQLiteBacklogItemRepo struct {
	db db.DBTX
}

// NewSQLiteBacklogItemRepo creates a new SQLiteBacklogItemRepo.
func NewSQLiteBacklogItemRepo(conn db.DBTX) *SQLiteBacklogItemRepo {
	return &SQLiteBacklogItemRepo{db: conn}
}

// Create inserts b. b.Sequence must already be allocated.
func (r *SQLiteBacklogItemRepo) Create(ctx context.Context, b *domain.BacklogItem) error {
	query := `INSERT INTO backlog_items (id, space_id, title, description, created_by_id, assignee_id,
		sequence_number, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		b.ID,
		b.SpaceID,
		b.Title,
		nullableString(b.Description),
		b.CreatedByID,
		nullableString(b.AssigneeID),
		b.Sequence,
		b.Position,
		formatTimestamp(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting backlog item: %w", err)
	}
	return nil
}

func (r *SQLiteBacklogItemRepo) GetByID(ctx context.Context, id string) (*domain.BacklogItem, error) {
	row := r.db.QueryRowContext(ctx, backlogItemSelect+` WHERE bi.id = ?`, id)
	b, err := scanBacklogItem(row)
	if err != nil {
		return nil, notFound(err, "backlog item", id)
	}
	return b, nil
}

func (r *SQLiteBacklogItemRepo) FindBySequence(ctx context.Context, spaceID string, seq int) (*domain.BacklogItem, error) {
	row := r.db.QueryRowContext(ctx, backlogItemSelect+` WHERE bi.space_id = ? AND bi.sequence_number = ?`, spaceID, seq)
	b, err := scanBacklogItem(row)
	if err != nil {
		return nil, notFound(err, "backlog item", "#"+strconv.Itoa(seq))
	}
	return b, nil
}

// ListBySpace returns the product backlog in priority order.
func (r *SQLiteBacklogItemRepo) ListBySpace(ctx context.Context, spaceID string) ([]*domain.BacklogItem, error) {
	rows, err := r.db.QueryContext(ctx, backlogItemSelect+`
		WHERE bi.space_id = ?
		ORDER BY bi.position ASC, bi.sequence_number ASC`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("listing backlog items: %w", err)
	}
	defer rows.Close()

	var items []*domain.BacklogItem
	for rows.Next() {
		b, err := scanBacklogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning backlog item row: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backlog items: %w", err)
	}
	return items, nil
}

func (r *SQLiteBacklogItemRepo) CountBySpace(ctx context.Context, spaceID string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM backlog_items WHERE space_id = ?`, spaceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting backlog items: %w", err)
	}
	return n, nil
}

func (r *SQLiteBacklogItemRepo) CountUnpromoted(ctx context.Context, spaceID string) (int, error) {
	query := `SELECT COUNT(*) FROM backlog_items bi
		WHERE bi.space_id = ?
		AND NOT EXISTS (SELECT 1 FROM tasks t WHERE t.backlog_item_id = bi.id)`
	var n int
	if err := r.db.QueryRowContext(ctx, query, spaceID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting unpromoted backlog items: %w", err)
	}
	return n, nil
}

// Update applies the set fields of patch. An empty patch issues no statement.
func (r *SQLiteBacklogItemRepo) Update(ctx context.Context, id string, patch domain.BacklogItemPatch) error {
	var set setClause
	if patch.Title.Set {
		set.add("title", patch.Title.Value)
	}
	if patch.Description.Set {
		set.add("description", nullableString(patch.Description.Value))
	}
	if patch.AssigneeID.Set {
		set.add("assignee_id", nullableString(patch.AssigneeID.Value))
	}
	if patch.Position.Set {
		set.add("position", patch.Position.Value)
	}
	if set.empty() {
		return nil
	}

	res, err := r.db.ExecContext(ctx, `UPDATE backlog_items SET `+set.sql()+` WHERE id = ?`, append(set.args, id)...)
	if err != nil {
		return fmt.Errorf("updating backlog item: %w", err)
	}
	return requireAffected(res, "backlog item", id)
}

func scanBacklogItem(row rowScanner) (*domain.BacklogItem, error) {
	var b domain.BacklogItem
	var description, assigneeID sql.NullString
	var createdAt string
	err := row.Scan(
		&b.ID, &b.SpaceID, &b.Title, &description, &b.CreatedByID,
		&assigneeID, &b.Sequence, &b.Position, &createdAt,
		&b.CreatedByName, &b.AssigneeName,
	)
	if err != nil {
		return nil, err
	}
	b.Description = stringPtr(description)
	b.AssigneeID = stringPtr(assigneeID)
	if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &b, nil
}
