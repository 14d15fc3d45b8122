package domain

import (
	"fmt"
	"strings"
	"time"
)

// Space is a workspace. Its methodology decides which board it renders.
type Space struct {
	ID          string
	Name        string
	Methodology Methodology
	OwnerID     string
	GitRepoURL  *string
	CreatedAt   time.Time
}

func (s *Space) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("space name is required: %w", ErrInvalid)
	}
	if s.OwnerID == "" {
		return fmt.Errorf("space owner is required: %w", ErrInvalid)
	}
	if s.Methodology != MethodologyKanban && s.Methodology != MethodologyScrum {
		return fmt.Errorf("methodology %q must be KANBAN or SCRUM: %w", s.Methodology, ErrInvalid)
	}
	return nil
}

func (s *Space) IsScrum() bool {
	return s.Methodology == MethodologyScrum
}

// SpaceMember is a user's membership in a space, joined with the user's name and email.
type SpaceMember struct {
	ID        int64
	SpaceID   string
	UserID    string
	UserName  string
	UserEmail string
	ScrumRole *ScrumRole
	JoinedAt  time.Time
}
