package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethodology(t *testing.T) {
	cases := map[string]Methodology{
		"":        MethodologyKanban,
		"kanban":  MethodologyKanban,
		"SCRUM":   MethodologyScrum,
		" Scrum ": MethodologyScrum,
	}
	for in, want := range cases {
		got, ok := ParseMethodology(in)
		assert.True(t, ok, "should accept %q", in)
		assert.Equal(t, want, got)
	}

	_, ok := ParseMethodology("waterfall")
	assert.False(t, ok)
}

func TestSpaceValidate(t *testing.T) {
	s := &Space{Name: "Dev", OwnerID: "u1", Methodology: MethodologyScrum}
	require.NoError(t, s.Validate())

	s.Methodology = "XP"
	err := s.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestTaskValidate_ExactlyOneLink(t *testing.T) {
	item := "bi1"
	sprintItem := "sbi1"

	assert.NoError(t, (&Task{BacklogItemID: &item}).Validate())
	assert.NoError(t, (&Task{SprintBacklogItemID: &sprintItem}).Validate())

	err := (&Task{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires")

	err = (&Task{BacklogItemID: &item, SprintBacklogItemID: &sprintItem}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both")
}

func TestColumnValidate_ExactlyOneOwner(t *testing.T) {
	space := "s1"
	sprint := "sp1"

	assert.NoError(t, (&Column{Name: "To Do", SpaceID: &space}).Validate())
	assert.NoError(t, (&Column{Name: "To Do", SprintID: &sprint}).Validate())
	assert.Error(t, (&Column{Name: "To Do"}).Validate())
	assert.Error(t, (&Column{Name: "To Do", SpaceID: &space, SprintID: &sprint}).Validate())
	assert.Error(t, (&Column{Name: " ", SpaceID: &space}).Validate())
}

func TestColumnWIPExceeded(t *testing.T) {
	limit := 2
	c := &Column{WIPLimit: &limit}
	assert.False(t, c.WIPExceeded(1))
	assert.False(t, c.WIPExceeded(2), "equal to the limit is not exceeded")
	assert.True(t, c.WIPExceeded(3))

	unlimited := &Column{}
	assert.False(t, unlimited.WIPExceeded(1000))
}

func TestSprintValidate_EndBeforeStart(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	s := &Sprint{SpaceID: "s1", Name: "Sprint 1", StartDate: start, EndDate: start.AddDate(0, 0, -1), Status: SprintPlanning}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "before start date")

	s.EndDate = start.AddDate(0, 0, 14)
	assert.NoError(t, s.Validate())
}

func TestBacklogItemPatch_IsEmpty(t *testing.T) {
	assert.True(t, BacklogItemPatch{}.IsEmpty())
	assert.False(t, BacklogItemPatch{Position: SetTo(0)}.IsEmpty(), "zero value that is set is not empty")
	assert.False(t, BacklogItemPatch{AssigneeID: SetTo[*string](nil)}.IsEmpty())
}

func TestBoardBacklogOverflow(t *testing.T) {
	b := &Board{
		Space:        &Space{Methodology: MethodologyScrum},
		Backlog:      make([]*BacklogItem, 10),
		BacklogTotal: 13,
	}
	assert.True(t, b.ShowsBacklog())
	assert.Equal(t, 3, b.BacklogOverflow())

	b.BacklogTotal = 4
	b.Backlog = make([]*BacklogItem, 4)
	assert.Equal(t, 0, b.BacklogOverflow())
}
