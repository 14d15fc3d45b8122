package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type sprintService struct {
	sprints     repository.SprintRepo
	sprintItems repository.SprintBacklogItemRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewSprintService(
	sprints repository.SprintRepo,
	sprintItems repository.SprintBacklogItemRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) SprintService {
	return &sprintService{
		sprints:     sprints,
		sprintItems: sprintItems,
		uow:         uow,
		observer:    useCaseObserverOrNoop(observers),
	}
}

func (s *sprintService) Create(ctx context.Context, sp *domain.Sprint) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"space_id": sp.SpaceID, "name": sp.Name}
	defer func() { observe(ctx, s.observer, "create-sprint", startedAt, fields, err) }()

	if sp.ID == "" {
		sp.ID = newID()
	}
	if sp.Status == "" {
		sp.Status = domain.SprintPlanning
	}
	sp.CreatedAt = utcNow()
	if err = sp.Validate(); err != nil {
		return err
	}

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteSpaceRepo(tx).GetByID(ctx, sp.SpaceID); err != nil {
			return err
		}
		return repository.NewSQLiteSprintRepo(tx).Create(ctx, sp)
	})
}

func (s *sprintService) GetByID(ctx context.Context, id string) (*domain.Sprint, error) {
	return s.sprints.GetByID(ctx, id)
}

func (s *sprintService) ListBySpace(ctx context.Context, spaceID string) ([]*domain.Sprint, error) {
	return s.sprints.ListBySpace(ctx, spaceID)
}

func (s *sprintService) GetActive(ctx context.Context, spaceID string) (*domain.Sprint, error) {
	return s.sprints.GetActive(ctx, spaceID)
}

func (s *sprintService) AddItem(ctx context.Context, item *domain.SprintBacklogItem) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"sprint_id": item.SprintID, "backlog_item_id": item.BacklogItemID}
	defer func() { observe(ctx, s.observer, "add-to-sprint-backlog", startedAt, fields, err) }()

	if item.StoryPoints != nil && *item.StoryPoints < 0 {
		return fmt.Errorf("story points must not be negative: %w", domain.ErrInvalid)
	}
	if item.ID == "" {
		item.ID = newID()
	}
	item.AddedAt = utcNow()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sprint, err := repository.NewSQLiteSprintRepo(tx).GetByID(ctx, item.SprintID)
		if err != nil {
			return err
		}
		backlogItem, err := repository.NewSQLiteBacklogItemRepo(tx).GetByID(ctx, item.BacklogItemID)
		if err != nil {
			return err
		}
		if backlogItem.SpaceID != sprint.SpaceID {
			return fmt.Errorf("backlog item %s belongs to another workspace: %w", backlogItem.Ref(), domain.ErrInvalid)
		}

		sprintItems := repository.NewSQLiteSprintBacklogItemRepo(tx)
		exists, err := sprintItems.Exists(ctx, item.SprintID, item.BacklogItemID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("backlog item %s is already in sprint %s: %w", backlogItem.Ref(), sprint.Name, domain.ErrConflict)
		}
		if err := sprintItems.Add(ctx, item); err != nil {
			return err
		}
		item.Title = backlogItem.Title
		item.Sequence = backlogItem.Sequence
		item.AssigneeName = backlogItem.AssigneeName
		return nil
	})
}

func (s *sprintService) Backlog(ctx context.Context, sprintID string) (*SprintBacklog, error) {
	sprint, err := s.sprints.GetByID(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	items, err := s.sprintItems.ListBySprint(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	summary, err := s.sprintItems.Summary(ctx, sprintID)
	if err != nil {
		return nil, err
	}
	return &SprintBacklog{Sprint: sprint, Items: items, Summary: summary}, nil
}

// Start marks the sprint ACTIVE. It refuses while a different sprint of the
// same space is ACTIVE; starting the already active sprint is a no-op.
func (s *sprintService) Start(ctx context.Context, id string) (sp *domain.Sprint, err error) {
	startedAt := time.Now()
	fields := map[string]any{"sprint_id": id}
	defer func() { observe(ctx, s.observer, "start-sprint", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sprints := repository.NewSQLiteSprintRepo(tx)
		var err error
		if sp, err = sprints.GetByID(ctx, id); err != nil {
			return err
		}
		active, err := sprints.GetActive(ctx, sp.SpaceID)
		switch {
		case err == nil && active.ID != sp.ID:
			return fmt.Errorf("sprint %q is already active in this workspace: %w", active.Name, domain.ErrConflict)
		case err != nil && !isNotFound(err):
			return err
		}
		if err := sprints.UpdateStatus(ctx, id, domain.SprintActive); err != nil {
			return err
		}
		sp.Status = domain.SprintActive
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}

func (s *sprintService) Complete(ctx context.Context, id string) (sp *domain.Sprint, err error) {
	startedAt := time.Now()
	fields := map[string]any{"sprint_id": id}
	defer func() { observe(ctx, s.observer, "complete-sprint", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sprints := repository.NewSQLiteSprintRepo(tx)
		var err error
		if sp, err = sprints.GetByID(ctx, id); err != nil {
			return err
		}
		if err := sprints.UpdateStatus(ctx, id, domain.SprintCompleted); err != nil {
			return err
		}
		sp.Status = domain.SprintCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sp, nil
}
