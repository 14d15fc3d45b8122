package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type contextService struct {
	sessions repository.SessionRepo
	spaces   repository.SpaceRepo
	sprints  repository.SprintRepo
	users    repository.UserRepo
	columns  repository.ColumnRepo
	uow      db.UnitOfWork
}

func NewContextService(
	sessions repository.SessionRepo,
	spaces repository.SpaceRepo,
	sprints repository.SprintRepo,
	users repository.UserRepo,
	columns repository.ColumnRepo,
	uow db.UnitOfWork,
) ContextService {
	return &contextService{
		sessions: sessions,
		spaces:   spaces,
		sprints:  sprints,
		users:    users,
		columns:  columns,
		uow:      uow,
	}
}

func (s *contextService) Session(ctx context.Context, userID string) (*domain.Session, error) {
	return s.sessions.Get(ctx, userID)
}

func (s *contextService) SaveSession(ctx context.Context, sess *domain.Session) error {
	if sess.UserID == "" {
		return fmt.Errorf("session user is required: %w", domain.ErrInvalid)
	}
	sess.UpdatedAt = utcNow()
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if sess.SpaceID != nil {
			if _, err := repository.NewSQLiteSpaceRepo(tx).GetByID(ctx, *sess.SpaceID); err != nil {
				return err
			}
		}
		if sess.SprintID != nil {
			sprint, err := repository.NewSQLiteSprintRepo(tx).GetByID(ctx, *sess.SprintID)
			if err != nil {
				return err
			}
			if sess.SpaceID != nil && sprint.SpaceID != *sess.SpaceID {
				return fmt.Errorf("sprint %q belongs to another workspace: %w", sprint.Name, domain.ErrInvalid)
			}
		}
		return repository.NewSQLiteSessionRepo(tx).Upsert(ctx, sess)
	})
}

// DefaultWorkspace returns the session's space, falling back to the oldest
// space when the user has no session or the session names none.
func (s *contextService) DefaultWorkspace(ctx context.Context, userID string) (*domain.Space, error) {
	spaceID, err := s.sessionSpaceID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if spaceID == "" {
		return s.spaces.First(ctx)
	}
	return s.spaces.GetByID(ctx, spaceID)
}

// ActiveSprint returns the sprint recorded in the user's session. A missing
// session, an empty sprint or a dangling id all report domain.ErrNotFound.
func (s *contextService) ActiveSprint(ctx context.Context, userID string) (*domain.Sprint, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess.SprintID == nil {
		return nil, fmt.Errorf("sprint for user %s: %w", userID, domain.ErrNotFound)
	}
	return s.sprints.GetByID(ctx, *sess.SprintID)
}

func (s *contextService) AvailableUsers(ctx context.Context, spaceID string) ([]*domain.User, error) {
	if spaceID == "" {
		return s.users.List(ctx)
	}
	return s.users.ListBySpace(ctx, spaceID)
}

// ColumnByName looks in spaceID, or in the user's default workspace when
// spaceID is empty.
func (s *contextService) ColumnByName(ctx context.Context, userID, spaceID, name string) (*domain.Column, error) {
	if spaceID == "" {
		space, err := s.DefaultWorkspace(ctx, userID)
		if err != nil {
			return nil, err
		}
		spaceID = space.ID
	}
	return s.columns.FindByName(ctx, spaceID, name)
}

func (s *contextService) sessionSpaceID(ctx context.Context, userID string) (string, error) {
	sess, err := s.sessions.Get(ctx, userID)
	if isNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if sess.SpaceID == nil {
		return "", nil
	}
	return *sess.SpaceID, nil
}
