package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

type backlogService struct {
	items    repository.BacklogItemRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewBacklogService(items repository.BacklogItemRepo, uow db.UnitOfWork, observers ...UseCaseObserver) BacklogService {
	return &backlogService{items: items, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *backlogService) Create(ctx context.Context, b *domain.BacklogItem) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"space_id": b.SpaceID}
	defer func() { observe(ctx, s.observer, "create-backlog-item", startedAt, fields, err) }()

	if b.ID == "" {
		b.ID = newID()
	}
	b.CreatedAt = utcNow()

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		space, err := repository.NewSQLiteSpaceRepo(tx).GetByID(ctx, b.SpaceID)
		if err != nil {
			return err
		}
		if b.CreatedByID == "" {
			b.CreatedByID = space.OwnerID
			fields["creator_fallback"] = true
		}
		if err := b.Validate(); err != nil {
			return err
		}

		seq, err := repository.NewSQLiteBacklogSequenceRepo(tx).NextSequence(ctx, b.SpaceID)
		if err != nil {
			return err
		}
		b.Sequence = seq
		fields["sequence"] = seq

		itemRepo := repository.NewSQLiteBacklogItemRepo(tx)
		if err := itemRepo.Create(ctx, b); err != nil {
			return err
		}
		// Reload for the joined creator and assignee names.
		created, err := itemRepo.GetByID(ctx, b.ID)
		if err != nil {
			return err
		}
		*b = *created
		return nil
	})
}

func (s *backlogService) GetByID(ctx context.Context, id string) (*domain.BacklogItem, error) {
	return s.items.GetByID(ctx, id)
}

func (s *backlogService) FindBySequence(ctx context.Context, spaceID string, seq int) (*domain.BacklogItem, error) {
	return s.items.FindBySequence(ctx, spaceID, seq)
}

func (s *backlogService) List(ctx context.Context, spaceID string) ([]*domain.BacklogItem, error) {
	return s.items.ListBySpace(ctx, spaceID)
}

func (s *backlogService) Update(ctx context.Context, id string, patch domain.BacklogItemPatch) (updated *domain.BacklogItem, err error) {
	startedAt := time.Now()
	fields := map[string]any{"item_id": id, "empty_patch": patch.IsEmpty()}
	defer func() { observe(ctx, s.observer, "update-backlog-item", startedAt, fields, err) }()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		itemRepo := repository.NewSQLiteBacklogItemRepo(tx)
		if _, err := itemRepo.GetByID(ctx, id); err != nil {
			return err
		}
		if err := patch.Validate(); err != nil {
			return err
		}
		if err := itemRepo.Update(ctx, id, patch); err != nil {
			return err
		}
		var err error
		updated, err = itemRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
