package domain

import (
	"fmt"
	"strings"
)

// Field is one optional member of a patch. Set distinguishes "leave unchanged"
// from "set to the zero value".
type Field[T any] struct {
	Value T
	Set   bool
}

// SetTo returns a Field marked as set.
func SetTo[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// BacklogItemPatch lists the backlog item fields an update may touch.
// Nil pointers clear the nullable columns.
type BacklogItemPatch struct {
	Title       Field[string]
	Description Field[*string]
	AssigneeID  Field[*string]
	Position    Field[int]
}

func (p BacklogItemPatch) IsEmpty() bool {
	return !p.Title.Set && !p.Description.Set && !p.AssigneeID.Set && !p.Position.Set
}

// Validate rejects a patch that would blank the title.
func (p BacklogItemPatch) Validate() error {
	if p.Title.Set && strings.TrimSpace(p.Title.Value) == "" {
		return fmt.Errorf("backlog item title cannot be empty: %w", ErrInvalid)
	}
	return nil
}

// ColumnPatch lists the column fields an update may touch.
type ColumnPatch struct {
	Name     Field[string]
	Position Field[int]
	WIPLimit Field[*int]
}

func (p ColumnPatch) IsEmpty() bool {
	return !p.Name.Set && !p.Position.Set && !p.WIPLimit.Set
}

// SprintBacklogItemPatch lists the sprint backlog item fields an update may touch.
type SprintBacklogItemPatch struct {
	StoryPoints Field[*int]
	Position    Field[int]
}

func (p SprintBacklogItemPatch) IsEmpty() bool {
	return !p.StoryPoints.Set && !p.Position.Set
}
