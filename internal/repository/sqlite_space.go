package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

const spaceColumns = `id, name, methodology, owner_id, git_repo_url, created_at`

// SQLiteSpaceRepo implements SpaceRepo using a SQLite database.
type SQLiteSpaceRepo struct {
	db db.DBTX
}

// NewSQLiteSpaceRepo creates a new SQLiteSpaceRepo.
func NewSQLiteSpaceRepo(conn db.DBTX) *SQLiteSpaceRepo {
	return &SQLiteSpaceRepo{db: conn}
}

func (r *SQLiteSpaceRepo) Create(ctx context.Context, s *domain.Space) error {
	query := `INSERT INTO spaces (id, name, methodology, owner_id, git_repo_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		string(s.Methodology),
		s.OwnerID,
		nullableString(s.GitRepoURL),
		formatTimestamp(s.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting space: %w", err)
	}
	return nil
}

func (r *SQLiteSpaceRepo) GetByID(ctx context.Context, id string) (*domain.Space, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+spaceColumns+` FROM spaces WHERE id = ?`, id)
	s, err := scanSpace(row)
	if err != nil {
		return nil, notFound(err, "space", id)
	}
	return s, nil
}

func (r *SQLiteSpaceRepo) First(ctx context.Context) (*domain.Space, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+spaceColumns+` FROM spaces ORDER BY created_at ASC, id ASC LIMIT 1`)
	s, err := scanSpace(row)
	if err != nil {
		return nil, notFound(err, "space", "(any)")
	}
	return s, nil
}

// ListByUser returns spaces the user owns or belongs to, newest first.
func (r *SQLiteSpaceRepo) ListByUser(ctx context.Context, userID string) ([]*domain.Space, error) {
	query := `SELECT DISTINCT s.id, s.name, s.methodology, s.owner_id, s.git_repo_url, s.created_at
		FROM spaces s
		LEFT JOIN space_members sm ON s.id = sm.space_id
		WHERE s.owner_id = ? OR sm.user_id = ?
		ORDER BY s.created_at DESC, s.id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing spaces for user: %w", err)
	}
	defer rows.Close()

	var spaces []*domain.Space
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning space row: %w", err)
		}
		spaces = append(spaces, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating spaces: %w", err)
	}
	return spaces, nil
}

func (r *SQLiteSpaceRepo) ListMembers(ctx context.Context, spaceID string) ([]domain.SpaceMember, error) {
	query := `SELECT sm.id, sm.space_id, sm.user_id, u.name, u.email, sm.scrum_role, sm.joined_at
		FROM space_members sm
		JOIN users u ON sm.user_id = u.id
		WHERE sm.space_id = ?
		ORDER BY sm.joined_at ASC, sm.id ASC`
	rows, err := r.db.QueryContext(ctx, query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("listing space members: %w", err)
	}
	defer rows.Close()

	var members []domain.SpaceMember
	for rows.Next() {
		var m domain.SpaceMember
		var role sql.NullString
		var joinedAt string
		if err := rows.Scan(&m.ID, &m.SpaceID, &m.UserID, &m.UserName, &m.UserEmail, &role, &joinedAt); err != nil {
			return nil, fmt.Errorf("scanning space member row: %w", err)
		}
		if role.Valid {
			sr := domain.ScrumRole(role.String)
			m.ScrumRole = &sr
		}
		if m.JoinedAt, err = parseTimestamp(joinedAt); err != nil {
			return nil, fmt.Errorf("parsing joined_at: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating space members: %w", err)
	}
	return members, nil
}

func (r *SQLiteSpaceRepo) AddMember(ctx context.Context, spaceID, userID string, role *domain.ScrumRole, joinedAt time.Time) error {
	var roleVal interface{}
	if role != nil {
		roleVal = string(*role)
	}
	query := `INSERT INTO space_members (space_id, user_id, scrum_role, joined_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, spaceID, userID, roleVal, formatTimestamp(joinedAt)); err != nil {
		return fmt.Errorf("adding member %s to space %s: %w", userID, spaceID, err)
	}
	return nil
}

func scanSpace(row rowScanner) (*domain.Space, error) {
	var s domain.Space
	var methodology, createdAt string
	var gitURL sql.NullString
	if err := row.Scan(&s.ID, &s.Name, &methodology, &s.OwnerID, &gitURL, &createdAt); err != nil {
		return nil, err
	}
	s.Methodology = domain.Methodology(methodology)
	s.GitRepoURL = stringPtr(gitURL)
	var err error
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &s, nil
}
