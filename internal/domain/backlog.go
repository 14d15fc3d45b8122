package domain

import (
	"fmt"
	"strings"
	"time"
)

// BacklogItem is a user story in a space's product backlog. Sequence is the
// human-facing "#N" reference, unique within the space.
type BacklogItem struct {
	ID          string
	SpaceID     string
	Title       string
	Description *string
	CreatedByID string
	AssigneeID  *string
	Sequence    int
	Position    int
	CreatedAt   time.Time

	// Read-side joins; empty when the user row is missing.
	CreatedByName string
	AssigneeName  string
}

func (b *BacklogItem) Validate() error {
	if b.SpaceID == "" {
		return fmt.Errorf("backlog item space is required: %w", ErrInvalid)
	}
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("backlog item title is required: %w", ErrInvalid)
	}
	if b.CreatedByID == "" {
		return fmt.Errorf("backlog item creator is required: %w", ErrInvalid)
	}
	return nil
}

// Ref renders the "#N" reference.
func (b *BacklogItem) Ref() string {
	return fmt.Sprintf("#%d", b.Sequence)
}
