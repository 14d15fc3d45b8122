package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type spaceService struct {
	spaces   repository.SpaceRepo
	sprints  repository.SprintRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSpaceService(
	spaces repository.SpaceRepo,
	sprints repository.SprintRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SpaceService {
	return &spaceService{
		spaces:   spaces,
		sprints:  sprints,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *spaceService) Create(ctx context.Context, space *domain.Space) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": space.Name, "methodology": string(space.Methodology)}
	defer func() { observe(ctx, s.observer, "create-space", startedAt, fields, err) }()

	if space.ID == "" {
		space.ID = newID()
	}
	if space.Methodology == "" {
		space.Methodology = domain.MethodologyKanban
	}
	space.CreatedAt = utcNow()
	if err = space.Validate(); err != nil {
		return err
	}
	fields["space_id"] = space.ID

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSpaceRepo(tx).Create(ctx, space)
	})
}

func (s *spaceService) GetByID(ctx context.Context, id string) (*domain.Space, error) {
	return s.spaces.GetByID(ctx, id)
}

func (s *spaceService) ListByUser(ctx context.Context, userID string) ([]*domain.Space, error) {
	return s.spaces.ListByUser(ctx, userID)
}

func (s *spaceService) Info(ctx context.Context, id string) (*SpaceInfo, error) {
	space, err := s.spaces.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.spaces.ListMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	info := &SpaceInfo{Space: space, Members: members}
	if space.IsScrum() {
		active, err := s.sprints.GetActive(ctx, id)
		switch {
		case err == nil:
			info.ActiveSprint = active
		case !isNotFound(err):
			return nil, err
		}
	}
	return info, nil
}

func (s *spaceService) AddMember(ctx context.Context, spaceID, userID string, role *domain.ScrumRole) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		spaces := repository.NewSQLiteSpaceRepo(tx)
		if _, err := spaces.GetByID(ctx, spaceID); err != nil {
			return err
		}
		if _, err := repository.NewSQLiteUserRepo(tx).GetByID(ctx, userID); err != nil {
			return err
		}
		members, err := spaces.ListMembers(ctx, spaceID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if m.UserID == userID {
				return fmt.Errorf("user %s is already a member of space %s: %w", userID, spaceID, domain.ErrConflict)
			}
		}
		return spaces.AddMember(ctx, spaceID, userID, role, utcNow())
	})
}
