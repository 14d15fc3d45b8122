package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
)

func TestSplitShellArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "single word", input: "get_board", want: []string{"get_board"}},
		{name: "extra spaces", input: "  use   s1 ", want: []string{"use", "s1"}},
		{
			name:  "quoted value inside key=value",
			input: `create_backlog_item title="Fix login page"`,
			want:  []string{"create_backlog_item", "title=Fix login page"},
		},
		{
			name:  "single quotes are literal",
			input: `update_backlog_item description='a \ b'`,
			want:  []string{"update_backlog_item", `description=a \ b`},
		},
		{name: "empty quoted arg", input: `x ""`, want: []string{"x", ""}},
		{name: "escaped space", input: `title=a\ b`, want: []string{"title=a b"}},
		{name: "unterminated quote", input: `title="oops`, wantErr: true},
		{name: "unterminated escape", input: `title=oops\`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := splitShellArgs(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompleteLine(t *testing.T) {
	spaces := func() []string { return []string{"space-a", "space-b", "other"} }

	assert.Equal(t, []string{"get_space_info", "get_sprint_backlog"}, completeLine("get_s", spaces))
	assert.Contains(t, completeLine("new", spaces), "new-space")
	assert.Equal(t, []string{"use space-a", "use space-b"}, completeLine("use sp", spaces))
	assert.Equal(t, []string{"user add", "user list"}, completeLine("user ", spaces))
	assert.Nil(t, completeLine("", spaces))
	assert.Nil(t, completeLine("bogus x", spaces))
}

func TestCompleteLine_ToolParams(t *testing.T) {
	got := completeLine("move_task task_id=t1 ", nil)
	assert.Equal(t, []string{"move_task task_id=t1 column_id=", "move_task task_id=t1 position="}, got)

	got = completeLine("move_task col", nil)
	assert.Equal(t, []string{"move_task column_id="}, got)

	assert.Nil(t, completeLine("move_task column_id=c", nil))
}

func TestFilterSuggestions(t *testing.T) {
	pool := []string{"Get_board", "get_backlog", "use"}
	assert.Equal(t, []string{"Get_board", "get_backlog"}, filterSuggestions(pool, "get_b"))
	assert.Equal(t, pool, filterSuggestions(pool, ""))
	assert.Nil(t, filterSuggestions(pool, "xyz"))
}

func TestShellHistory_LoadsNewestEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shell_history")
	var b strings.Builder
	for i := 0; i < maxHistoryLines+100; i++ {
		b.WriteString("get_board\n")
	}
	b.WriteString("\nuse s1\n")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	h := loadHistory(path)
	assert.Len(t, h.lines, maxHistoryLines)
	assert.Equal(t, "use s1", h.lines[len(h.lines)-1])
}

func TestShellHistory_MissingFileStartsEmpty(t *testing.T) {
	h := loadHistory(filepath.Join(t.TempDir(), "nope", "shell_history"))
	assert.Empty(t, h.lines)
	_, ok := h.prev()
	assert.False(t, ok)
}

func TestShellHistory_AddPersistsAndNavigates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "shell_history")
	h := loadHistory(path)

	h.add("use s1")
	h.add("use s1")
	h.add("  ")
	h.add("get_board")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "use s1\nget_board\n", string(data))

	line, ok := h.prev()
	require.True(t, ok)
	assert.Equal(t, "get_board", line)
	line, ok = h.prev()
	require.True(t, ok)
	assert.Equal(t, "use s1", line)
	_, ok = h.prev()
	assert.False(t, ok)

	assert.Equal(t, "get_board", h.next())
	assert.Equal(t, "", h.next())
	assert.Equal(t, "", h.next())
}

func TestShellModel_UseSetsSpaceForTools(t *testing.T) {
	a := testApp(t)
	_, space := seedSpace(t, a, domain.MethodologyKanban)
	m := newShellModel(a, nil, chatctx.Values{})

	out, _ := m.executeCommand("get_board")
	assert.Contains(t, out, "space_id is required")

	out, _ = m.executeCommand("use " + space.ID)
	assert.Contains(t, out, "Active space")
	assert.Equal(t, space.ID, m.session.SpaceID)

	out, _ = m.executeCommand("get_board")
	assert.Contains(t, out, "Board - Platform (Methodology: KANBAN)")

	out, _ = m.executeCommand("context")
	assert.Equal(t, "[CONTEXT: space_id='"+space.ID+"']", out)

	out, _ = m.executeCommand("use")
	assert.Contains(t, out, "cleared")
	assert.True(t, m.session.IsEmpty())
}

func TestShellModel_UseRejectsUnknownSpace(t *testing.T) {
	a := testApp(t)
	m := newShellModel(a, nil, chatctx.Values{})

	out, _ := m.executeCommand("use missing")
	assert.Contains(t, out, "not found")
	assert.Empty(t, m.session.SpaceID)
}

func TestShellModel_ActingUserFillsCreator(t *testing.T) {
	a := testApp(t)
	_, space := seedSpace(t, a, domain.MethodologyKanban)
	author := testutil.NewTestUser("Linus")
	require.NoError(t, a.Core.Users.Create(context.Background(), author))
	m := newShellModel(a, nil, chatctx.Values{SpaceID: space.ID})

	out, _ := m.executeCommand("as " + author.ID)
	assert.Contains(t, out, "Linus")

	out, _ = m.executeCommand(`create_backlog_item title="Fix login"`)
	assert.Contains(t, out, "Item created in Product Backlog: #1 - Fix login")

	items, err := a.Core.Backlog.List(context.Background(), space.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, author.ID, items[0].CreatedByID)
}

func TestShellModel_ForwardsToCommandTree(t *testing.T) {
	a := testApp(t)
	_, space := seedSpace(t, a, domain.MethodologyKanban)
	m := newShellModel(a, nil, chatctx.Values{SpaceID: space.ID})

	out, _ := m.executeCommand("tools")
	assert.Contains(t, out, "create_space")

	out, _ = m.executeCommand("board")
	assert.Contains(t, out, "Board - Platform")

	out, _ = m.executeCommand("no-such-command")
	assert.Contains(t, out, "Error:")
}

func TestShellModel_ExitQuits(t *testing.T) {
	m := newShellModel(testApp(t), nil, chatctx.Values{})

	_, cmd := m.executeCommand("exit")
	assert.NotNil(t, cmd)
	assert.True(t, m.quitting)
}

func TestShellModel_NewSpaceStartsWizard(t *testing.T) {
	a := testApp(t)
	m := newShellModel(a, nil, chatctx.Values{UserID: "u1"})

	m.executeCommand("new-space")
	assert.Equal(t, modeWizard, m.mode)
	require.NotNil(t, m.form)
}

func TestSubmitSpaceDraft_CreatesSpace(t *testing.T) {
	a := testApp(t)
	owner := testutil.NewTestUser("Ada")
	require.NoError(t, a.Core.Users.Create(context.Background(), owner))

	out := submitSpaceDraft(context.Background(), a, &spaceDraft{
		Name:        " Mobile ",
		Methodology: string(domain.MethodologyScrum),
		OwnerID:     owner.ID,
	})
	assert.Contains(t, out, "Workspace created: Mobile")

	spaces, err := a.Core.Spaces.ListByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, spaces, 1)
	assert.True(t, spaces[0].IsScrum())
}

func TestShellModel_SessionSprintDoesNotRetargetColumns(t *testing.T) {
	a := testApp(t)
	_, space := seedSpace(t, a, domain.MethodologyScrum)
	m := newShellModel(a, nil, chatctx.Values{SpaceID: space.ID, SprintID: "sprint-elsewhere"})

	out, _ := m.executeCommand("create_column name=Doing")
	assert.Contains(t, out, "Column 'Doing' created")
	assert.Contains(t, out, "in workspace "+space.ID)
}
