package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

const sprintColumns = `id, space_id, name, start_date, end_date, status, goal, created_at`

// SQLiteSprintRepo implements SprintRepo using a SQLite database.
type SQLiteSprintRepo struct {
	db db.DBTX
}

// NewSQLiteSprintRepo creates a new SQLiteSprintRepo.
func NewSQLiteSprintRepo(conn db.DBTX) *SQLiteSprintRepo {
	return &SQLiteSprintRepo{db: conn}
}

func (r *SQLiteSprintRepo) Create(ctx context.Context, s *domain.Sprint) error {
	query := `INSERT INTO sprints (id, space_id, name, start_date, end_date, status, goal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.SpaceID,
		s.Name,
		s.StartDate.Format(dateLayout),
		s.EndDate.Format(dateLayout),
		string(s.Status),
		nullableString(s.Goal),
		formatTimestamp(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting sprint: %w", err)
	}
	return nil
}

func (r *SQLiteSprintRepo) GetByID(ctx context.Context, id string) (*domain.Sprint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sprintColumns+` FROM sprints WHERE id = ?`, id)
	s, err := scanSprint(row)
	if err != nil {
		return nil, notFound(err, "sprint", id)
	}
	return s, nil
}

func (r *SQLiteSprintRepo) ListBySpace(ctx context.Context, spaceID string) ([]*domain.Sprint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sprintColumns+` FROM sprints
		WHERE space_id = ?
		ORDER BY start_date DESC, created_at DESC`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("listing sprints: %w", err)
	}
	defer rows.Close()

	var sprints []*domain.Sprint
	for rows.Next() {
		s, err := scanSprint(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sprint row: %w", err)
		}
		sprints = append(sprints, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sprints: %w", err)
	}
	return sprints, nil
}

// GetActive picks the most recently started ACTIVE sprint when more than one
// is marked active.
func (r *SQLiteSprintRepo) GetActive(ctx context.Context, spaceID string) (*domain.Sprint, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sprintColumns+` FROM sprints
		WHERE space_id = ? AND status = 'ACTIVE'
		ORDER BY start_date DESC, created_at DESC
		LIMIT 1`, spaceID)
	s, err := scanSprint(row)
	if err != nil {
		return nil, notFound(err, "active sprint for space", spaceID)
	}
	return s, nil
}

func (r *SQLiteSprintRepo) UpdateStatus(ctx context.Context, id string, status domain.SprintStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sprints SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("updating sprint status: %w", err)
	}
	return requireAffected(res, "sprint", id)
}

func scanSprint(row rowScanner) (*domain.Sprint, error) {
	var s domain.Sprint
	var startDate, endDate, status, createdAt string
	var goal sql.NullString
	if err := row.Scan(&s.ID, &s.SpaceID, &s.Name, &startDate, &endDate, &status, &goal, &createdAt); err != nil {
		return nil, err
	}
	s.Status = domain.SprintStatus(status)
	s.Goal = stringPtr(goal)

	var err error
	if s.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if s.EndDate, err = time.Parse(dateLayout, endDate); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &s, nil
}
