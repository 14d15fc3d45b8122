package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the exchange format for sprint dates.
const DateLayout = "2006-01-02"

type Sprint struct {
	ID        string
	SpaceID   string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Status    SprintStatus
	Goal      *string
	CreatedAt time.Time
}

func (s *Sprint) Validate() error {
	if s.SpaceID == "" {
		return fmt.Errorf("sprint space is required: %w", ErrInvalid)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("sprint name is required: %w", ErrInvalid)
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("sprint end date %s is before start date %s: %w",
			s.EndDate.Format(DateLayout), s.StartDate.Format(DateLayout), ErrInvalid)
	}
	if !ValidSprintStatuses[s.Status] {
		return fmt.Errorf("sprint status %q: %w", s.Status, ErrInvalid)
	}
	return nil
}

// SprintBacklogItem is a backlog item pulled into a sprint.
type SprintBacklogItem struct {
	ID            string
	SprintID      string
	BacklogItemID string
	StoryPoints   *int
	Position      int
	AddedAt       time.Time

	// Read-side joins from the backlog item.
	Title        string
	Sequence     int
	AssigneeName string
}

// SprintSummary aggregates a sprint backlog. Missing story points count as zero.
type SprintSummary struct {
	ItemCount   int
	StoryPoints int
}
