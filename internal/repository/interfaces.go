package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*domain.User, error)
}

type SpaceRepo interface {
	Create(ctx context.Context, s *domain.Space) error
	GetByID(ctx context.Context, id string) (*domain.Space, error)
	// First returns the oldest space, used when a session names none.
	First(ctx context.Context) (*domain.Space, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Space, error)
	ListMembers(ctx context.Context, spaceID string) ([]domain.SpaceMember, error)
	AddMember(ctx context.Context, spaceID, userID string, role *domain.ScrumRole, joinedAt time.Time) error
}

type BacklogItemRepo interface {
	Create(ctx context.Context, b *domain.BacklogItem) error
	GetByID(ctx context.Context, id string) (*domain.BacklogItem, error)
	FindBySequence(ctx context.Context, spaceID string, seq int) (*domain.BacklogItem, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*domain.BacklogItem, error)
	CountBySpace(ctx context.Context, spaceID string) (int, error)
	// CountUnpromoted counts items that no task references directly.
	CountUnpromoted(ctx context.Context, spaceID string) (int, error)
	Update(ctx context.Context, id string, patch domain.BacklogItemPatch) error
}

type BacklogSequenceRepo interface {
	NextSequence(ctx context.Context, spaceID string) (int, error)
}

type SprintRepo interface {
	Create(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*domain.Sprint, error)
	// GetActive returns the ACTIVE sprint with the latest start date.
	GetActive(ctx context.Context, spaceID string) (*domain.Sprint, error)
	UpdateStatus(ctx context.Context, id string, status domain.SprintStatus) error
}

type SprintBacklogItemRepo interface {
	Add(ctx context.Context, item *domain.SprintBacklogItem) error
	GetByID(ctx context.Context, id string) (*domain.SprintBacklogItem, error)
	Exists(ctx context.Context, sprintID, backlogItemID string) (bool, error)
	FindBySprintAndItem(ctx context.Context, sprintID, backlogItemID string) (*domain.SprintBacklogItem, error)
	ListBySprint(ctx context.Context, sprintID string) ([]*domain.SprintBacklogItem, error)
	Summary(ctx context.Context, sprintID string) (domain.SprintSummary, error)
	Update(ctx context.Context, id string, patch domain.SprintBacklogItemPatch) error
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Assign(ctx context.Context, id string, assigneeID *string) error
	// GetPlacement returns the task's current column mapping.
	GetPlacement(ctx context.Context, taskID string) (*domain.ColumnTask, error)
}

type ColumnRepo interface {
	Create(ctx context.Context, c *domain.Column) error
	GetByID(ctx context.Context, id string) (*domain.Column, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*domain.Column, error)
	ListBySprint(ctx context.Context, sprintID string) ([]*domain.Column, error)
	FirstForSpace(ctx context.Context, spaceID string) (*domain.Column, error)
	FirstForSprint(ctx context.Context, sprintID string) (*domain.Column, error)
	FindByName(ctx context.Context, spaceID, name string) (*domain.Column, error)
	Update(ctx context.Context, id string, patch domain.ColumnPatch) error
	CountTasks(ctx context.Context, columnID string) (int, error)
	// ListTasks returns the column's cards ordered by position, resolving
	// only tasks linked straight to a backlog item.
	ListTasks(ctx context.Context, columnID string) ([]domain.TaskCard, error)
	// ListSprintTasks is ListTasks that also resolves sprint-linked tasks.
	ListSprintTasks(ctx context.Context, columnID string) ([]domain.TaskCard, error)
	// MoveTask writes or overwrites the task's single column mapping.
	MoveTask(ctx context.Context, placement domain.ColumnTask) error
}

type SessionRepo interface {
	Get(ctx context.Context, userID string) (*domain.Session, error)
	Upsert(ctx context.Context, s *domain.Session) error
}
