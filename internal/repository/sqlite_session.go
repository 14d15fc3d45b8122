package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Get(ctx context.Context, userID string) (*domain.Session, error) {
	var s domain.Session
	var spaceID, sprintID sql.NullString
	var updatedAt string
	err := r.db.QueryRowContext(ctx, `SELECT user_id, space_id, sprint_id, updated_at FROM sessions WHERE user_id = ?`, userID).
		Scan(&s.UserID, &spaceID, &sprintID, &updatedAt)
	if err != nil {
		return nil, notFound(err, "session for user", userID)
	}
	s.SpaceID = stringPtr(spaceID)
	s.SprintID = stringPtr(sprintID)
	if s.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}

func (r *SQLiteSessionRepo) Upsert(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (user_id, space_id, sprint_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			space_id = excluded.space_id,
			sprint_id = excluded.sprint_id,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		s.UserID,
		nullableString(s.SpaceID),
		nullableString(s.SprintID),
		formatTimestamp(s.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upserting session: %w", err)
	}
	return nil
}
