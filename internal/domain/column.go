package domain

import (
	"fmt"
	"strings"
	"time"
)

// Column is a board column owned by exactly one of a space (KANBAN) or a
// sprint (SCRUM). A nil WIPLimit means unlimited.
type Column struct {
	ID        string
	Name      string
	Position  int
	SpaceID   *string
	SprintID  *string
	WIPLimit  *int
	CreatedAt time.Time
}

func (c *Column) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("column name is required: %w", ErrInvalid)
	}
	hasSpace := c.SpaceID != nil && *c.SpaceID != ""
	hasSprint := c.SprintID != nil && *c.SprintID != ""
	if hasSpace == hasSprint {
		return fmt.Errorf("column must belong to exactly one of a space or a sprint: %w", ErrInvalid)
	}
	if c.WIPLimit != nil && *c.WIPLimit < 0 {
		return fmt.Errorf("wip limit must not be negative: %w", ErrInvalid)
	}
	return nil
}

// WIPExceeded reports whether count strictly exceeds the column's WIP limit.
func (c *Column) WIPExceeded(count int) bool {
	if c.WIPLimit == nil {
		return false
	}
	return count > *c.WIPLimit
}
