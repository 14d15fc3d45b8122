// Package app wires repositories, services and the tool dispatcher over one
// database handle. Every entrypoint (MCP, HTTP, CLI) starts from New.
package app

import (
	"database/sql"
	"log/slog"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/dispatch"
	"github.com/alexanderramin/sprintdesk/internal/repository"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

// Options tune the wiring. Zero values fall back to the package defaults.
type Options struct {
	Logger         *slog.Logger
	TasksPerColumn int
	BacklogLimit   int
	// LogUseCases reports every service use case through Logger.
	LogUseCases bool
}

// App holds the services every transport calls into.
type App struct {
	DB     *sql.DB
	Logger *slog.Logger

	Users   service.UserService
	Spaces  service.SpaceService
	Backlog service.BacklogService
	Sprints service.SprintService
	Tasks   service.TaskService
	Columns service.ColumnService
	Board   service.BoardService
	Context service.ContextService

	Dispatcher *dispatch.Dispatcher
}

// New wires an App over conn. The caller owns conn and closes it.
func New(conn *sql.DB, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if opts.LogUseCases {
		observer = service.NewSlogUseCaseObserver(logger)
	}

	users := repository.NewSQLiteUserRepo(conn)
	spaces := repository.NewSQLiteSpaceRepo(conn)
	items := repository.NewSQLiteBacklogItemRepo(conn)
	sprints := repository.NewSQLiteSprintRepo(conn)
	sprintItems := repository.NewSQLiteSprintBacklogItemRepo(conn)
	tasks := repository.NewSQLiteTaskRepo(conn)
	columns := repository.NewSQLiteColumnRepo(conn)
	sessions := repository.NewSQLiteSessionRepo(conn)

	uow := db.NewSQLiteUnitOfWork(conn)

	a := &App{
		DB:      conn,
		Logger:  logger,
		Users:   service.NewUserService(users),
		Spaces:  service.NewSpaceService(spaces, sprints, uow, observer),
		Backlog: service.NewBacklogService(items, uow, observer),
		Sprints: service.NewSprintService(sprints, sprintItems, uow, observer),
		Tasks: service.NewTaskService(service.TaskRepos{
			Spaces:      spaces,
			Items:       items,
			Sprints:     sprints,
			SprintItems: sprintItems,
			Tasks:       tasks,
			Columns:     columns,
		}, uow, observer),
		Columns: service.NewColumnService(columns, uow, observer),
		Board: service.NewBoardService(service.BoardRepos{
			Spaces:      spaces,
			Items:       items,
			Sprints:     sprints,
			SprintItems: sprintItems,
			Columns:     columns,
		}, opts.BacklogLimit, observer),
		Context: service.NewContextService(sessions, spaces, sprints, users, columns, uow),
	}
	a.Dispatcher = dispatch.New(dispatch.Services{
		Spaces:  a.Spaces,
		Backlog: a.Backlog,
		Sprints: a.Sprints,
		Tasks:   a.Tasks,
		Columns: a.Columns,
		Board:   a.Board,
	}, dispatch.WithLogger(logger), dispatch.WithTasksPerColumn(opts.TasksPerColumn))
	return a
}
