package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/google/uuid"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func WithUserRole(r domain.UserRole) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	n := testEmailCounter.Add(1)
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     fmt.Sprintf("user%d@example.test", n),
		Name:      name,
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Space options
type SpaceOption func(*domain.Space)

func WithMethodology(m domain.Methodology) SpaceOption {
	return func(s *domain.Space) {
		s.Methodology = m
	}
}

func WithGitRepoURL(url string) SpaceOption {
	return func(s *domain.Space) {
		s.GitRepoURL = &url
	}
}

func WithSpaceCreatedAt(t time.Time) SpaceOption {
	return func(s *domain.Space) {
		s.CreatedAt = t
	}
}

func NewTestSpace(name, ownerID string, opts ...SpaceOption) *domain.Space {
	s := &domain.Space{
		ID:          uuid.New().String(),
		Name:        name,
		Methodology: domain.MethodologyKanban,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BacklogItem options
type BacklogItemOption func(*domain.BacklogItem)

func WithAssignee(userID string) BacklogItemOption {
	return func(b *domain.BacklogItem) {
		b.AssigneeID = &userID
	}
}

func WithDescription(d string) BacklogItemOption {
	return func(b *domain.BacklogItem) {
		b.Description = &d
	}
}

func WithPosition(p int) BacklogItemOption {
	return func(b *domain.BacklogItem) {
		b.Position = p
	}
}

// NewTestBacklogItem builds an item with a fixed sequence number. Tests that
// exercise allocation should go through the sequence repo instead.
func NewTestBacklogItem(spaceID, createdByID, title string, seq int, opts ...BacklogItemOption) *domain.BacklogItem {
	b := &domain.BacklogItem{
		ID:          uuid.New().String(),
		SpaceID:     spaceID,
		Title:       title,
		CreatedByID: createdByID,
		Sequence:    seq,
		Position:    seq,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Sprint options
type SprintOption func(*domain.Sprint)

func WithSprintStatus(s domain.SprintStatus) SprintOption {
	return func(sp *domain.Sprint) {
		sp.Status = s
	}
}

func WithSprintDates(start, end time.Time) SprintOption {
	return func(sp *domain.Sprint) {
		sp.StartDate = start
		sp.EndDate = end
	}
}

func WithGoal(g string) SprintOption {
	return func(sp *domain.Sprint) {
		sp.Goal = &g
	}
}

func NewTestSprint(spaceID, name string, opts ...SprintOption) *domain.Sprint {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	s := &domain.Sprint{
		ID:        uuid.New().String(),
		SpaceID:   spaceID,
		Name:      name,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 13),
		Status:    domain.SprintPlanning,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Column options
type ColumnOption func(*domain.Column)

func ForSprint(sprintID string) ColumnOption {
	return func(c *domain.Column) {
		c.SpaceID = nil
		c.SprintID = &sprintID
	}
}

func WithWIPLimit(n int) ColumnOption {
	return func(c *domain.Column) {
		c.WIPLimit = &n
	}
}

// NewTestColumn builds a space-owned column; pass ForSprint to move it onto a sprint board.
func NewTestColumn(spaceID, name string, position int, opts ...ColumnOption) *domain.Column {
	c := &domain.Column{
		ID:        uuid.New().String(),
		Name:      name,
		Position:  position,
		SpaceID:   &spaceID,
		CreatedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewTestSprintBacklogItem(sprintID, backlogItemID string, points *int) *domain.SprintBacklogItem {
	return &domain.SprintBacklogItem{
		ID:            uuid.New().String(),
		SprintID:      sprintID,
		BacklogItemID: backlogItemID,
		StoryPoints:   points,
		AddedAt:       time.Now().UTC(),
	}
}

// NewTestTask links a task to a backlog item.
func NewTestTask(backlogItemID string) *domain.Task {
	return &domain.Task{
		ID:            uuid.New().String(),
		BacklogItemID: &backlogItemID,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewTestSprintTask links a task to a sprint backlog item.
func NewTestSprintTask(sprintBacklogItemID string) *domain.Task {
	return &domain.Task{
		ID:                  uuid.New().String(),
		SprintBacklogItemID: &sprintBacklogItemID,
		CreatedAt:           time.Now().UTC(),
	}
}

// IntPtr is shorthand for optional numeric fixture fields.
func IntPtr(n int) *int {
	return &n
}
