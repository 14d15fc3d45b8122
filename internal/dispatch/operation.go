package dispatch

import (
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// Operation is one parsed tool call. The set of implementations is closed;
// Dispatcher.Execute handles each of them.
type Operation interface {
	Tool() string
	operation()
}

type CreateSpace struct {
	Name        string
	OwnerID     string
	Methodology domain.Methodology
}

type GetUserSpaces struct {
	UserID string
}

type GetSpaceInfo struct {
	SpaceID string
}

type GetBoard struct {
	SpaceID string
}

type CreateBacklogItem struct {
	SpaceID     string
	Title       string
	CreatedByID string
	Description *string
	AssigneeID  *string
}

type GetBacklog struct {
	SpaceID string
}

type UpdateBacklogItem struct {
	ItemID string
	Patch  domain.BacklogItemPatch
}

// CreateTask names its item by SprintBacklogItemID, BacklogItemID or
// Sequence; at least one is set.
type CreateTask struct {
	SpaceID             string
	Sequence            int
	BacklogItemID       string
	SprintBacklogItemID string
	AssigneeID          *string
}

type MoveTask struct {
	TaskID   string
	ColumnID string
	Position int
}

type AssignTask struct {
	TaskID     string
	AssigneeID string
}

type CreateColumn struct {
	SpaceID  string
	SprintID string
	Name     string
	Position int
	WIPLimit *int
}

type GetColumnTasks struct {
	ColumnID string
}

type CreateSprint struct {
	SpaceID   string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Goal      *string
}

type AddToSprintBacklog struct {
	SprintID      string
	BacklogItemID string
	StoryPoints   *int
	Position      int
}

type GetSprintBacklog struct {
	SprintID string
}

type StartSprint struct {
	SprintID string
}

type CompleteSprint struct {
	SprintID string
}

func (CreateSpace) Tool() string        { return ToolCreateSpace }
func (GetUserSpaces) Tool() string      { return ToolGetUserSpaces }
func (GetSpaceInfo) Tool() string       { return ToolGetSpaceInfo }
func (GetBoard) Tool() string           { return ToolGetBoard }
func (CreateBacklogItem) Tool() string  { return ToolCreateBacklogItem }
func (GetBacklog) Tool() string         { return ToolGetBacklog }
func (UpdateBacklogItem) Tool() string  { return ToolUpdateBacklogItem }
func (CreateTask) Tool() string         { return ToolCreateTask }
func (MoveTask) Tool() string           { return ToolMoveTask }
func (AssignTask) Tool() string         { return ToolAssignTask }
func (CreateColumn) Tool() string       { return ToolCreateColumn }
func (GetColumnTasks) Tool() string     { return ToolGetColumnTasks }
func (CreateSprint) Tool() string       { return ToolCreateSprint }
func (AddToSprintBacklog) Tool() string { return ToolAddToSprintBacklog }
func (GetSprintBacklog) Tool() string   { return ToolGetSprintBacklog }
func (StartSprint) Tool() string        { return ToolStartSprint }
func (CompleteSprint) Tool() string     { return ToolCompleteSprint }

func (CreateSpace) operation()        {}
func (GetUserSpaces) operation()      {}
func (GetSpaceInfo) operation()       {}
func (GetBoard) operation()           {}
func (CreateBacklogItem) operation()  {}
func (GetBacklog) operation()         {}
func (UpdateBacklogItem) operation()  {}
func (CreateTask) operation()         {}
func (MoveTask) operation()           {}
func (AssignTask) operation()         {}
func (CreateColumn) operation()       {}
func (GetColumnTasks) operation()     {}
func (CreateSprint) operation()       {}
func (AddToSprintBacklog) operation() {}
func (GetSprintBacklog) operation()   {}
func (StartSprint) operation()        {}
func (CompleteSprint) operation()     {}
