package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/app"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/service"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
)

func testApp(t *testing.T) *App {
	t.Helper()
	core := app.New(testutil.NewTestDB(t), app.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return &App{
		Core:          core,
		IsInteractive: func() bool { return false },
	}
}

// seedSpace creates an owner and a space with one "To Do" column.
func seedSpace(t *testing.T, a *App, methodology domain.Methodology) (*domain.User, *domain.Space) {
	t.Helper()
	ctx := context.Background()

	owner := testutil.NewTestUser("Ada")
	require.NoError(t, a.Core.Users.Create(ctx, owner))
	space := testutil.NewTestSpace("Platform", owner.ID, testutil.WithMethodology(methodology))
	require.NoError(t, a.Core.Spaces.Create(ctx, space))
	if methodology == domain.MethodologyKanban {
		_, err := a.Core.Columns.Create(ctx, service.NewColumn{SpaceID: space.ID, Name: "To Do", Position: 1})
		require.NoError(t, err)
	}
	return owner, space
}

func executeCmd(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestCallCmd_CreatesSpace(t *testing.T) {
	a := testApp(t)
	owner := testutil.NewTestUser("Ada")
	require.NoError(t, a.Core.Users.Create(context.Background(), owner))

	out, err := executeCmd(t, a, "call", "create_space",
		"--arg", "name=Platform",
		"--arg", "owner_id="+owner.ID,
		"--arg", "methodology=scrum")
	require.NoError(t, err)
	assert.Contains(t, out, "Workspace created: Platform")
	assert.Contains(t, out, "methodology: SCRUM")

	spaces, err := a.Core.Spaces.ListByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.Equal(t, domain.MethodologyScrum, spaces[0].Methodology)
}

func TestCallCmd_ContextFillsSpace(t *testing.T) {
	a := testApp(t)
	_, space := seedSpace(t, a, domain.MethodologyKanban)

	out, err := executeCmd(t, a, "call", "get_board", "--context", "[CONTEXT: space_id='"+space.ID+"']")
	require.NoError(t, err)
	assert.Contains(t, out, "Board - Platform (Methodology: KANBAN)")
	assert.Contains(t, out, "**To Do** (0 tasks)")
}

func TestCallCmd_ExplicitArgBeatsContext(t *testing.T) {
	a := testApp(t)
	_, space := seedSpace(t, a, domain.MethodologyKanban)

	out, err := executeCmd(t, a, "call", "get_board",
		"--arg", "space_id="+space.ID,
		"--context", "[CONTEXT: space_id='elsewhere']")
	require.NoError(t, err)
	assert.Contains(t, out, "Board - Platform")
}

func TestCallCmd_ToolErrorsAreText(t *testing.T) {
	a := testApp(t)

	out, err := executeCmd(t, a, "call", "get_board", "--arg", "space_id=missing")
	require.NoError(t, err)
	assert.Contains(t, out, "not found")

	out, err = executeCmd(t, a, "call", "nope")
	require.NoError(t, err)
	assert.Contains(t, out, "Unknown tool: nope")
}

func TestCallCmd_RejectsMalformedInput(t *testing.T) {
	a := testApp(t)

	_, err := executeCmd(t, a, "call", "get_board", "--arg", "space_id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be key=value")

	_, err = executeCmd(t, a, "call", "get_board", "--context", "space_id=s1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--context")
}

func TestParseToolArgs(t *testing.T) {
	got, err := parseToolArgs([]string{"title=Fix login", "position=2", "description=", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"title":       "Fix login",
		"position":    "2",
		"description": "",
		"note":        "a=b",
	}, got)

	_, err = parseToolArgs([]string{"=x"})
	assert.Error(t, err)
}

func TestToolsCmd_ListsCatalog(t *testing.T) {
	a := testApp(t)

	out, err := executeCmd(t, a, "tools")
	require.NoError(t, err)
	assert.Contains(t, out, "TOOL")
	assert.Contains(t, out, "create_space")
	assert.Contains(t, out, "name owner_id [methodology]")
	assert.Contains(t, out, "complete_sprint")
}

func TestBoardCmd_PlainWhenNotInteractive(t *testing.T) {
	a := testApp(t)
	_, space := seedSpace(t, a, domain.MethodologyKanban)

	out, err := executeCmd(t, a, "board", space.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Board - Platform (Methodology: KANBAN)")
}

func TestBoardCmd_StyledOnTerminal(t *testing.T) {
	a := testApp(t)
	a.IsInteractive = func() bool { return true }
	_, space := seedSpace(t, a, domain.MethodologyKanban)

	out, err := executeCmd(t, a, "board", space.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "PLATFORM")
	assert.Contains(t, out, "KANBAN")
	assert.Contains(t, out, "To Do")
	assert.NotContains(t, out, "Board - Platform")

	out, err = executeCmd(t, a, "board", "--plain", space.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Board - Platform")
}

func TestBoardCmd_UnknownSpace(t *testing.T) {
	a := testApp(t)

	_, err := executeCmd(t, a, "board", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserCmd_AddAndList(t *testing.T) {
	a := testApp(t)

	out, err := executeCmd(t, a, "user", "add", "--name", "Grace", "--email", "grace@example.test", "--role", "admin")
	require.NoError(t, err)
	assert.Contains(t, out, "Created user")
	assert.Contains(t, out, "Grace")

	out, err = executeCmd(t, a, "user", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "grace@example.test")
	assert.Contains(t, out, "ADMIN")
}

func TestUserCmd_ListBySpace(t *testing.T) {
	a := testApp(t)
	owner, space := seedSpace(t, a, domain.MethodologyKanban)
	require.NoError(t, a.Core.Spaces.AddMember(context.Background(), space.ID, owner.ID, nil))
	require.NoError(t, a.Core.Users.Create(context.Background(), testutil.NewTestUser("Outsider")))

	out, err := executeCmd(t, a, "user", "list", "--space", space.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Ada")
	assert.NotContains(t, out, "Outsider")
}

func TestUserCmd_AddValidation(t *testing.T) {
	a := testApp(t)

	_, err := executeCmd(t, a, "user", "add", "--name", "Grace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")

	_, err = executeCmd(t, a, "user", "add", "--name", "Grace", "--email", "g@example.test", "--role", "owner")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "role must be")
}

func TestMigrateCmd_IsIdempotent(t *testing.T) {
	a := testApp(t)

	out, err := executeCmd(t, a, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Database up to date")
}
