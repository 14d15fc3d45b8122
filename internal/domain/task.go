package domain

import (
	"fmt"
	"time"
)

// Task is one unit of work placed on a board. It links to exactly one of a
// backlog item (KANBAN) or a sprint backlog item (SCRUM).
type Task struct {
	ID                  string
	BacklogItemID       *string
	SprintBacklogItemID *string
	AssigneeID          *string
	CreatedAt           time.Time
}

func (t *Task) Validate() error {
	hasItem := t.BacklogItemID != nil && *t.BacklogItemID != ""
	hasSprintItem := t.SprintBacklogItemID != nil && *t.SprintBacklogItemID != ""
	switch {
	case hasItem && hasSprintItem:
		return fmt.Errorf("task cannot link both a backlog item and a sprint backlog item: %w", ErrInvalid)
	case !hasItem && !hasSprintItem:
		return fmt.Errorf("task requires a backlog item or a sprint backlog item: %w", ErrInvalid)
	}
	return nil
}

// ColumnTask is a task's current placement on a board.
type ColumnTask struct {
	TaskID   string
	ColumnID string
	Position int
	MovedAt  time.Time
}

// TaskCard is a task as shown inside a column, joined to its backlog item.
type TaskCard struct {
	TaskID       string
	Sequence     int
	Title        string
	AssigneeID   *string
	AssigneeName string
	StoryPoints  *int
	Position     int
	MovedAt      time.Time
}
