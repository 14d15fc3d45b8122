package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
	"github.com/alexanderramin/sprintdesk/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service against one in-memory database.
type testEnv struct {
	db  *sql.DB
	uow db.UnitOfWork

	users       *repository.SQLiteUserRepo
	spaceRepo   *repository.SQLiteSpaceRepo
	itemRepo    *repository.SQLiteBacklogItemRepo
	sprintRepo  *repository.SQLiteSprintRepo
	sbiRepo     *repository.SQLiteSprintBacklogItemRepo
	taskRepo    *repository.SQLiteTaskRepo
	columnRepo  *repository.SQLiteColumnRepo
	sessionRepo *repository.SQLiteSessionRepo

	spaces  SpaceService
	backlog BacklogService
	sprints SprintService
	tasks   TaskService
	columns ColumnService
	board   BoardService
	ctxSvc  ContextService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	e := &testEnv{
		db:          database,
		uow:         testutil.NewTestUoW(database),
		users:       repository.NewSQLiteUserRepo(database),
		spaceRepo:   repository.NewSQLiteSpaceRepo(database),
		itemRepo:    repository.NewSQLiteBacklogItemRepo(database),
		sprintRepo:  repository.NewSQLiteSprintRepo(database),
		sbiRepo:     repository.NewSQLiteSprintBacklogItemRepo(database),
		taskRepo:    repository.NewSQLiteTaskRepo(database),
		columnRepo:  repository.NewSQLiteColumnRepo(database),
		sessionRepo: repository.NewSQLiteSessionRepo(database),
	}
	e.spaces = NewSpaceService(e.spaceRepo, e.sprintRepo, e.uow)
	e.backlog = NewBacklogService(e.itemRepo, e.uow)
	e.sprints = NewSprintService(e.sprintRepo, e.sbiRepo, e.uow)
	e.tasks = NewTaskService(e.taskRepos(), e.uow)
	e.columns = NewColumnService(e.columnRepo, e.uow)
	e.board = NewBoardService(e.boardRepos(), 0)
	e.ctxSvc = NewContextService(e.sessionRepo, e.spaceRepo, e.sprintRepo, e.users, e.columnRepo, e.uow)
	return e
}

func (e *testEnv) taskRepos() TaskRepos {
	return TaskRepos{
		Spaces:      e.spaceRepo,
		Items:       e.itemRepo,
		Sprints:     e.sprintRepo,
		SprintItems: e.sbiRepo,
		Tasks:       e.taskRepo,
		Columns:     e.columnRepo,
	}
}

func (e *testEnv) boardRepos() BoardRepos {
	return BoardRepos{
		Spaces:      e.spaceRepo,
		Items:       e.itemRepo,
		Sprints:     e.sprintRepo,
		SprintItems: e.sbiRepo,
		Columns:     e.columnRepo,
	}
}

func (e *testEnv) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u := testutil.NewTestUser(name)
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *testEnv) space(t *testing.T, m domain.Methodology) (*domain.User, *domain.Space) {
	t.Helper()
	owner := e.user(t, "Owner")
	s := &domain.Space{Name: "Board", OwnerID: owner.ID, Methodology: m}
	require.NoError(t, e.spaces.Create(context.Background(), s))
	return owner, s
}

func (e *testEnv) item(t *testing.T, spaceID, title string) *domain.BacklogItem {
	t.Helper()
	b := &domain.BacklogItem{SpaceID: spaceID, Title: title}
	require.NoError(t, e.backlog.Create(context.Background(), b))
	return b
}

func (e *testEnv) column(t *testing.T, spaceID, sprintID, name string, position int, wip *int) *domain.Column {
	t.Helper()
	c, err := e.columns.Create(context.Background(), NewColumn{
		SpaceID: spaceID, SprintID: sprintID, Name: name, Position: position, WIPLimit: wip,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) activeSprint(t *testing.T, spaceID, name string) *domain.Sprint {
	t.Helper()
	ctx := context.Background()
	sp := testutil.NewTestSprint(spaceID, name)
	sp.ID = ""
	require.NoError(t, e.sprints.Create(ctx, sp))
	_, err := e.sprints.Start(ctx, sp.ID)
	require.NoError(t, err)
	return sp
}

func (e *testEnv) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

// recordingObserver keeps every event it sees.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}
