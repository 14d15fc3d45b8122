package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type columnService struct {
	columns  repository.ColumnRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewColumnService(columns repository.ColumnRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ColumnService {
	return &columnService{columns: columns, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *columnService) Create(ctx context.Context, in NewColumn) (col *domain.Column, err error) {
	startedAt := time.Now()
	fields := map[string]any{"space_id": in.SpaceID, "name": in.Name}
	defer func() { observe(ctx, s.observer, "create-column", startedAt, fields, err) }()

	col = &domain.Column{
		ID:        newID(),
		Name:      in.Name,
		Position:  in.Position,
		WIPLimit:  in.WIPLimit,
		CreatedAt: utcNow(),
	}
	if in.SprintID != "" {
		sprintID := in.SprintID
		col.SprintID = &sprintID
		fields["sprint_id"] = sprintID
	} else {
		spaceID := in.SpaceID
		col.SpaceID = &spaceID
	}
	if err = col.Validate(); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteSpaceRepo(tx).GetByID(ctx, in.SpaceID); err != nil {
			return err
		}
		if in.SprintID != "" {
			sprint, err := repository.NewSQLiteSprintRepo(tx).GetByID(ctx, in.SprintID)
			if err != nil {
				return err
			}
			if sprint.SpaceID != in.SpaceID {
				return fmt.Errorf("sprint %q belongs to another workspace: %w", sprint.Name, domain.ErrInvalid)
			}
		}
		return repository.NewSQLiteColumnRepo(tx).Create(ctx, col)
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (s *columnService) GetByID(ctx context.Context, id string) (*domain.Column, error) {
	return s.columns.GetByID(ctx, id)
}

func (s *columnService) Tasks(ctx context.Context, columnID string) (*domain.Column, []domain.TaskCard, error) {
	col, err := s.columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, nil, err
	}
	cards, err := s.columns.ListSprintTasks(ctx, columnID)
	if err != nil {
		return nil, nil, err
	}
	return col, cards, nil
}

func (s *columnService) FindByName(ctx context.Context, spaceID, name string) (*domain.Column, error) {
	return s.columns.FindByName(ctx, spaceID, name)
}
