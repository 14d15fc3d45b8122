package dispatch

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/repository"
	"github.com/alexanderramin/sprintdesk/internal/service"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	d   *Dispatcher
	db  *sql.DB
	log *bytes.Buffer
}

func newServices(conn *sql.DB, uow db.UnitOfWork) Services {
	spaces := repository.NewSQLiteSpaceRepo(conn)
	items := repository.NewSQLiteBacklogItemRepo(conn)
	sprints := repository.NewSQLiteSprintRepo(conn)
	sbis := repository.NewSQLiteSprintBacklogItemRepo(conn)
	tasks := repository.NewSQLiteTaskRepo(conn)
	columns := repository.NewSQLiteColumnRepo(conn)
	return Services{
		Spaces:  service.NewSpaceService(spaces, sprints, uow),
		Backlog: service.NewBacklogService(items, uow),
		Sprints: service.NewSprintService(sprints, sbis, uow),
		Tasks: service.NewTaskService(service.TaskRepos{
			Spaces: spaces, Items: items, Sprints: sprints, SprintItems: sbis, Tasks: tasks, Columns: columns,
		}, uow),
		Columns: service.NewColumnService(columns, uow),
		Board: service.NewBoardService(service.BoardRepos{
			Spaces: spaces, Items: items, Sprints: sprints, SprintItems: sbis, Columns: columns,
		}, 0),
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	conn := testutil.NewTestDB(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return &harness{
		d:   New(newServices(conn, testutil.NewTestUoW(conn)), WithLogger(logger)),
		db:  conn,
		log: &buf,
	}
}

func (h *harness) call(t *testing.T, name string, args map[string]any) string {
	t.Helper()
	return h.d.Call(context.Background(), name, args)
}

func (h *harness) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, h.db.QueryRow(query, args...).Scan(&n))
	return n
}

var idRe = regexp.MustCompile(`ID: ([0-9a-z]+)`)

func idOf(t *testing.T, text string) string {
	t.Helper()
	m := idRe.FindStringSubmatch(text)
	require.NotNil(t, m, "no id in %q", text)
	return m[1]
}

func (h *harness) space(t *testing.T, methodology string) string {
	t.Helper()
	return idOf(t, h.call(t, ToolCreateSpace, map[string]any{"name": "Team", "owner_id": "u1", "methodology": methodology}))
}

func TestCall_UnknownTool(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "Unknown tool: get_kanban_board", h.call(t, "get_kanban_board", nil))
}

func TestCall_MissingArgument(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "Error: space_id is required", h.call(t, ToolGetBoard, map[string]any{}))
	assert.Equal(t, "Error: title is required", h.call(t, ToolCreateBacklogItem, map[string]any{"space_id": "s1"}))
}

func TestCall_CreateSpaceThenInfo(t *testing.T) {
	h := newHarness(t)
	out := h.call(t, ToolCreateSpace, map[string]any{"name": "X", "owner_id": "u1", "methodology": "SCRUM"})
	assert.Contains(t, out, "Workspace created: X")
	assert.Contains(t, out, "methodology: SCRUM")

	info := h.call(t, ToolGetSpaceInfo, map[string]any{"space_id": idOf(t, out)})
	assert.Contains(t, info, "Methodology: SCRUM")
	assert.Contains(t, info, "Members: 0")
	assert.Contains(t, info, "No active sprint")
}

func TestCall_UserSpaces(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "No workspace found for this user", h.call(t, ToolGetUserSpaces, map[string]any{"user_id": "u1"}))
	h.space(t, "KANBAN")
	assert.Contains(t, h.call(t, ToolGetUserSpaces, map[string]any{"user_id": "u1"}), "1 workspace(s) found:")
}

func TestCall_BacklogItemCreatorFallsBackToOwner(t *testing.T) {
	h := newHarness(t)
	spaceID := h.space(t, "KANBAN")

	out := h.call(t, ToolCreateBacklogItem, map[string]any{"space_id": spaceID, "title": "Login"})
	assert.Equal(t, fmt.Sprintf("Item created in Product Backlog: #1 - Login (workspace: %s)", spaceID), out)
	assert.Equal(t, 1, h.count(t, `SELECT COUNT(*) FROM backlog_items WHERE created_by_id = 'u1'`))
}

func TestCall_UpdateBacklogItemClearsAssignee(t *testing.T) {
	h := newHarness(t)
	spaceID := h.space(t, "KANBAN")
	h.call(t, ToolCreateBacklogItem, map[string]any{"space_id": spaceID, "title": "Login", "assignee_id": "u2"})
	var itemID string
	require.NoError(t, h.db.QueryRow(`SELECT id FROM backlog_items`).Scan(&itemID))

	out := h.call(t, ToolUpdateBacklogItem, map[string]any{"item_id": itemID, "assignee_id": "", "title": "Sign in"})
	assert.Equal(t, "Item #1 updated", out)
	assert.Equal(t, 1, h.count(t, `SELECT COUNT(*) FROM backlog_items WHERE assignee_id IS NULL AND title = 'Sign in'`))

	assert.Equal(t, "Error: title cannot be empty", h.call(t, ToolUpdateBacklogItem, map[string]any{"item_id": itemID, "title": " "}))
}

func TestCall_CreateTaskUnknownSequenceWritesNothing(t *testing.T) {
	h := newHarness(t)
	spaceID := h.space(t, "KANBAN")

	out := h.call(t, ToolCreateTask, map[string]any{"space_id": spaceID, "sequence_number": float64(7)})
	assert.Equal(t, "Item #7 not found in this workspace", out)
	assert.Equal(t, 0, h.count(t, `SELECT COUNT(*) FROM tasks`))
	assert.Equal(t, 0, h.count(t, `SELECT COUNT(*) FROM columns_tasks`))
}

func TestCall_CreateTaskUnknownSpaceNamesTheSpace(t *testing.T) {
	h := newHarness(t)

	out := h.call(t, ToolCreateTask, map[string]any{"space_id": "missing", "sequence_number": float64(1)})
	assert.Equal(t, "Space missing not found", out)
	assert.Equal(t, 0, h.count(t, `SELECT COUNT(*) FROM tasks`))
}

func TestCall_TaskLifecycle(t *testing.T) {
	h := newHarness(t)
	spaceID := h.space(t, "KANBAN")
	todo := idOf(t, h.call(t, ToolCreateColumn, map[string]any{"space_id": spaceID, "name": "Todo"}))
	done := idOf(t, h.call(t, ToolCreateColumn, map[string]any{"space_id": spaceID, "name": "Done", "position": "1"}))
	h.call(t, ToolCreateBacklogItem, map[string]any{"space_id": spaceID, "title": "Login"})

	out := h.call(t, ToolCreateTask, map[string]any{"space_id": spaceID, "sequence_number": "1"})
	assert.Contains(t, out, "Task created for #1 - Login")
	assert.Contains(t, out, "Placed in column 'Todo'")
	taskID := idOf(t, out)

	assert.Equal(t, "Task moved to column Done", h.call(t, ToolMoveTask, map[string]any{"task_id": taskID, "column_id": done}))
	assert.Equal(t, "Task moved to column Todo", h.call(t, ToolMoveTask, map[string]any{"task_id": taskID, "column_id": todo}))
	assert.Equal(t, 1, h.count(t, `SELECT COUNT(*) FROM columns_tasks WHERE task_id = ?`, taskID))
	assert.Equal(t, 1, h.count(t, `SELECT COUNT(*) FROM columns_tasks WHERE task_id = ? AND column_id = ?`, taskID, todo))

	assert.Equal(t, "Task assigned to u2", h.call(t, ToolAssignTask, map[string]any{"task_id": taskID, "assignee_id": "u2"}))
	assert.Equal(t, "Column 'Todo' (1 tasks):\n- #1: Login", h.call(t, ToolGetColumnTasks, map[string]any{"column_id": todo}))
	assert.Equal(t, "Column 'Done' (0 tasks)", h.call(t, ToolGetColumnTasks, map[string]any{"column_id": done}))

	assert.Equal(t, "Task missing not found", h.call(t, ToolMoveTask, map[string]any{"task_id": "missing", "column_id": todo}))
}

func TestCall_SprintFlow(t *testing.T) {
	h := newHarness(t)
	spaceID := h.space(t, "SCRUM")
	h.call(t, ToolCreateBacklogItem, map[string]any{"space_id": spaceID, "title": "Login"})
	var itemID string
	require.NoError(t, h.db.QueryRow(`SELECT id FROM backlog_items`).Scan(&itemID))

	out := h.call(t, ToolCreateSprint, map[string]any{
		"space_id": spaceID, "name": "Sprint 1", "start_date": "2025-01-06", "end_date": "2025-01-19", "goal": "Ship login",
	})
	assert.Contains(t, out, "Sprint created: Sprint 1")
	assert.Contains(t, out, "status: PLANNING")
	sprintID := idOf(t, out)

	args := map[string]any{"sprint_id": sprintID, "backlog_item_id": itemID, "story_points": float64(5)}
	assert.Contains(t, h.call(t, ToolAddToSprintBacklog, args), "Item added to Sprint Backlog")
	assert.Equal(t, "This item is already in the sprint", h.call(t, ToolAddToSprintBacklog, args))
	assert.Equal(t, 1, h.count(t, `SELECT COUNT(*) FROM sprint_backlog_items`))

	backlog := h.call(t, ToolGetSprintBacklog, map[string]any{"sprint_id": sprintID})
	assert.Contains(t, backlog, "Sprint Backlog (1 items):")
	assert.Contains(t, backlog, "#1 - Login (5 SP) → unassigned")

	assert.Equal(t, "Sprint Sprint 1 started", h.call(t, ToolStartSprint, map[string]any{"sprint_id": sprintID}))
	board := h.call(t, ToolGetBoard, map[string]any{"space_id": spaceID})
	assert.Contains(t, board, "Active sprint: Sprint 1")
	assert.Contains(t, board, "Goal: Ship login")
	assert.Contains(t, board, "From 2025-01-06 to 2025-01-19")
	assert.Contains(t, board, "Sprint board empty")
	assert.Contains(t, board, "Sprint Backlog: 1 items, 5 story points")

	assert.Equal(t, "Sprint Sprint 1 completed", h.call(t, ToolCompleteSprint, map[string]any{"sprint_id": sprintID}))
	assert.Equal(t, "Sprint not found", h.call(t, ToolStartSprint, map[string]any{"sprint_id": "missing"}))
	assert.Equal(t, "Sprint not found", h.call(t, ToolCompleteSprint, map[string]any{"sprint_id": "missing"}))
}

func TestCall_CreateSprintRejectsBadDates(t *testing.T) {
	h := newHarness(t)
	out := h.call(t, ToolCreateSprint, map[string]any{"space_id": "s", "name": "S", "start_date": "06/01/2025", "end_date": "2025-01-19"})
	assert.True(t, strings.HasPrefix(out, "Error: start_date must be a date formatted YYYY-MM-DD"), out)
}

func TestCall_BoardViews(t *testing.T) {
	h := newHarness(t)

	kanban := h.space(t, "KANBAN")
	out := h.call(t, ToolGetBoard, map[string]any{"space_id": kanban})
	assert.Contains(t, out, "Board - Team (Methodology: KANBAN)")
	assert.Contains(t, out, "Kanban board empty - no columns configured")

	scrum := h.space(t, "SCRUM")
	for i := 1; i <= 12; i++ {
		h.call(t, ToolCreateBacklogItem, map[string]any{"space_id": scrum, "title": fmt.Sprintf("Story %d", i)})
	}
	out = h.call(t, ToolGetBoard, map[string]any{"space_id": scrum})
	assert.Contains(t, out, "No active sprint.")
	assert.Contains(t, out, "Product Backlog (12 items):")
	assert.Contains(t, out, "• #10: Story 10")
	assert.NotContains(t, out, "#11: Story 11")
	assert.Contains(t, out, "... and 2 more items")

	assert.Equal(t, "Space missing not found", h.call(t, ToolGetBoard, map[string]any{"space_id": "missing"}))
}

func TestCall_BoardTruncatesColumns(t *testing.T) {
	h := newHarness(t)
	spaceID := h.space(t, "KANBAN")
	h.call(t, ToolCreateColumn, map[string]any{"space_id": spaceID, "name": "Todo", "wip_limit": float64(3)})
	for i := 1; i <= 7; i++ {
		h.call(t, ToolCreateBacklogItem, map[string]any{"space_id": spaceID, "title": fmt.Sprintf("Story %d", i)})
		h.call(t, ToolCreateTask, map[string]any{"space_id": spaceID, "sequence_number": i})
	}

	out := h.call(t, ToolGetBoard, map[string]any{"space_id": spaceID})
	assert.Contains(t, out, "**Todo** (WIP: 3) (7 tasks) - WIP limit exceeded")
	assert.Contains(t, out, "• #5: Story 5")
	assert.NotContains(t, out, "#6: Story 6")
	assert.Contains(t, out, "... and 2 more")
	assert.Contains(t, out, "Product Backlog (0 items available)")
}

func TestCall_StoreFailureIsLoggedAndRendered(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	mock.ExpectQuery(`SELECT .* FROM spaces`).WillReturnError(errors.New("disk I/O error"))

	var buf bytes.Buffer
	d := New(newServices(conn, db.NewSQLiteUnitOfWork(conn)), WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	out := d.Call(context.Background(), ToolGetBoard, map[string]any{"space_id": "s1"})
	assert.Equal(t, "Error: scanning space: disk I/O error", out)
	assert.Contains(t, buf.String(), "tool=get_board")
	assert.Contains(t, buf.String(), "disk I/O error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCall_RecoversFromPanic(t *testing.T) {
	var buf bytes.Buffer
	d := New(Services{}, WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	out := d.Call(context.Background(), ToolGetBoard, map[string]any{"space_id": "s1"})
	assert.True(t, strings.HasPrefix(out, "Error: "), out)
	assert.Contains(t, buf.String(), "tool panicked")
}
