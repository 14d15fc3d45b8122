package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpaceService_CreateDefaultsToKanban(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	s := &domain.Space{Name: "Ops", OwnerID: "u1"}
	require.NoError(t, e.spaces.Create(ctx, s))
	assert.Len(t, s.ID, 25)

	got, err := e.spaces.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodologyKanban, got.Methodology)
}

func TestSpaceService_CreateRejectsUnknownMethodology(t *testing.T) {
	e := newTestEnv(t)
	err := e.spaces.Create(context.Background(), &domain.Space{Name: "X", OwnerID: "u1", Methodology: "WATERFALL"})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Equal(t, 0, e.count(t, "spaces"))
}

func TestSpaceService_InfoRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	s := &domain.Space{Name: "X", OwnerID: "u1", Methodology: domain.MethodologyScrum}
	require.NoError(t, e.spaces.Create(ctx, s))

	info, err := e.spaces.Info(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MethodologyScrum, info.Space.Methodology)
	assert.Empty(t, info.Members)
	assert.Nil(t, info.ActiveSprint)

	sp := e.activeSprint(t, s.ID, "Sprint 1")
	info, err = e.spaces.Info(ctx, s.ID)
	require.NoError(t, err)
	require.NotNil(t, info.ActiveSprint)
	assert.Equal(t, sp.ID, info.ActiveSprint.ID)

	_, err = e.spaces.Info(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSpaceService_AddMember(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	_, s := e.space(t, domain.MethodologyKanban)
	dev := e.user(t, "Dev")

	role := domain.ScrumDeveloper
	require.NoError(t, e.spaces.AddMember(ctx, s.ID, dev.ID, &role))
	assert.ErrorIs(t, e.spaces.AddMember(ctx, s.ID, dev.ID, nil), domain.ErrConflict)
	assert.ErrorIs(t, e.spaces.AddMember(ctx, s.ID, "ghost", nil), domain.ErrNotFound)

	info, err := e.spaces.Info(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, info.Members, 1)

	spaces, err := e.spaces.ListByUser(ctx, dev.ID)
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, s.ID, spaces[0].ID)
}
