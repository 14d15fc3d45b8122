package service

import (
	"context"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

type UserService interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*domain.User, error)
}

type SpaceService interface {
	Create(ctx context.Context, s *domain.Space) error
	GetByID(ctx context.Context, id string) (*domain.Space, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Space, error)
	Info(ctx context.Context, id string) (*SpaceInfo, error)
	AddMember(ctx context.Context, spaceID, userID string, role *domain.ScrumRole) error
}

// SpaceInfo is a space with its members and, for SCRUM, the active sprint.
type SpaceInfo struct {
	Space        *domain.Space
	Members      []domain.SpaceMember
	ActiveSprint *domain.Sprint
}

type BacklogService interface {
	// Create allocates the item's sequence number. An empty CreatedByID
	// falls back to the space owner.
	Create(ctx context.Context, b *domain.BacklogItem) error
	GetByID(ctx context.Context, id string) (*domain.BacklogItem, error)
	FindBySequence(ctx context.Context, spaceID string, seq int) (*domain.BacklogItem, error)
	List(ctx context.Context, spaceID string) ([]*domain.BacklogItem, error)
	Update(ctx context.Context, id string, patch domain.BacklogItemPatch) (*domain.BacklogItem, error)
}

type SprintService interface {
	Create(ctx context.Context, s *domain.Sprint) error
	GetByID(ctx context.Context, id string) (*domain.Sprint, error)
	ListBySpace(ctx context.Context, spaceID string) ([]*domain.Sprint, error)
	GetActive(ctx context.Context, spaceID string) (*domain.Sprint, error)
	// AddItem pulls a backlog item into a sprint. A second add of the same
	// pair fails with domain.ErrConflict.
	AddItem(ctx context.Context, item *domain.SprintBacklogItem) error
	Backlog(ctx context.Context, sprintID string) (*SprintBacklog, error)
	Start(ctx context.Context, id string) (*domain.Sprint, error)
	Complete(ctx context.Context, id string) (*domain.Sprint, error)
}

// SprintBacklog is a sprint with its ordered items and totals.
type SprintBacklog struct {
	Sprint  *domain.Sprint
	Items   []*domain.SprintBacklogItem
	Summary domain.SprintSummary
}

// NewTask names the backlog item a task is created for. Exactly one of
// SprintBacklogItemID, BacklogItemID or Sequence is used, in that order.
type NewTask struct {
	SpaceID             string
	BacklogItemID       string
	Sequence            int
	SprintBacklogItemID string
	AssigneeID          *string
}

// CreatedTask reports where a new task landed. Column is nil when the board
// has no column yet; Sprint is set when the task joined a sprint board.
type CreatedTask struct {
	Task   *domain.Task
	Item   *domain.BacklogItem
	Sprint *domain.Sprint
	Column *domain.Column
}

type TaskService interface {
	Create(ctx context.Context, in NewTask) (*CreatedTask, error)
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	Move(ctx context.Context, taskID, columnID string, position int) (*domain.Column, error)
	Assign(ctx context.Context, taskID string, assigneeID *string) error
}

// NewColumn describes a column for a space board, or for one of the space's
// sprint boards when SprintID is set.
type NewColumn struct {
	SpaceID  string
	SprintID string
	Name     string
	Position int
	WIPLimit *int
}

type ColumnService interface {
	Create(ctx context.Context, in NewColumn) (*domain.Column, error)
	GetByID(ctx context.Context, id string) (*domain.Column, error)
	Tasks(ctx context.Context, columnID string) (*domain.Column, []domain.TaskCard, error)
	FindByName(ctx context.Context, spaceID, name string) (*domain.Column, error)
}

type BoardService interface {
	Assemble(ctx context.Context, spaceID string) (*domain.Board, error)
}

// ContextService answers the lookups chat agents use to fill in identifiers.
type ContextService interface {
	Session(ctx context.Context, userID string) (*domain.Session, error)
	SaveSession(ctx context.Context, s *domain.Session) error
	DefaultWorkspace(ctx context.Context, userID string) (*domain.Space, error)
	ActiveSprint(ctx context.Context, userID string) (*domain.Sprint, error)
	AvailableUsers(ctx context.Context, spaceID string) ([]*domain.User, error)
	ColumnByName(ctx context.Context, userID, spaceID, name string) (*domain.Column, error)
}
