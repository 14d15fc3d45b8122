package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/db"
	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

// TaskRepos groups the read-side repositories the task service resolves against.
type TaskRepos struct {
	Spaces      repository.SpaceRepo
	Items       repository.BacklogItemRepo
	Sprints     repository.SprintRepo
	SprintItems repository.SprintBacklogItemRepo
	Tasks       repository.TaskRepo
	Columns     repository.ColumnRepo
}

type taskService struct {
	repos    TaskRepos
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewTaskService(repos TaskRepos, uow db.UnitOfWork, observers ...UseCaseObserver) TaskService {
	return &taskService{repos: repos, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Create resolves the target item, inserts the task, then places it in the
// first column of the board it belongs to. Insert and placement commit
// separately, so a failed placement leaves a valid unplaced task.
func (s *taskService) Create(ctx context.Context, in NewTask) (created *CreatedTask, err error) {
	startedAt := time.Now()
	fields := map[string]any{"space_id": in.SpaceID}
	defer func() { observe(ctx, s.observer, "create-task", startedAt, fields, err) }()

	created, err = s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	task := created.Task
	task.ID = newID()
	task.AssigneeID = in.AssigneeID
	task.CreatedAt = utcNow()
	if err = task.Validate(); err != nil {
		return nil, err
	}
	fields["task_id"] = task.ID

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	if created.Column == nil {
		fields["placed"] = false
		return created, nil
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		columns := repository.NewSQLiteColumnRepo(tx)
		count, err := columns.CountTasks(ctx, created.Column.ID)
		if err != nil {
			return err
		}
		return columns.MoveTask(ctx, domain.ColumnTask{
			TaskID:   task.ID,
			ColumnID: created.Column.ID,
			Position: count,
			MovedAt:  utcNow(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("placing task %s: %w", task.ID, err)
	}
	fields["placed"] = true
	return created, nil
}

// resolve finds the backlog item, the link the task should carry and the
// column it should land in. It performs no writes.
func (s *taskService) resolve(ctx context.Context, in NewTask) (*CreatedTask, error) {
	space, err := s.repos.Spaces.GetByID(ctx, in.SpaceID)
	if err != nil {
		return nil, err
	}
	out := &CreatedTask{Task: &domain.Task{}}

	if in.SprintBacklogItemID != "" {
		sbi, err := s.repos.SprintItems.GetByID(ctx, in.SprintBacklogItemID)
		if err != nil {
			return nil, err
		}
		if out.Sprint, err = s.repos.Sprints.GetByID(ctx, sbi.SprintID); err != nil {
			return nil, err
		}
		if out.Sprint.SpaceID != space.ID {
			return nil, fmt.Errorf("sprint backlog item %s belongs to another workspace: %w", sbi.ID, domain.ErrInvalid)
		}
		if out.Item, err = s.repos.Items.GetByID(ctx, sbi.BacklogItemID); err != nil {
			return nil, err
		}
		out.Task.SprintBacklogItemID = &sbi.ID
		return out, s.firstSprintColumn(ctx, out)
	}

	switch {
	case in.BacklogItemID != "":
		out.Item, err = s.repos.Items.GetByID(ctx, in.BacklogItemID)
	case in.Sequence > 0:
		out.Item, err = s.repos.Items.FindBySequence(ctx, space.ID, in.Sequence)
	default:
		err = fmt.Errorf("sequence_number or backlog_item_id is required: %w", domain.ErrInvalid)
	}
	if err != nil {
		return nil, err
	}
	if out.Item.SpaceID != space.ID {
		return nil, fmt.Errorf("backlog item %s belongs to another workspace: %w", out.Item.ID, domain.ErrInvalid)
	}

	if space.IsScrum() {
		active, err := s.repos.Sprints.GetActive(ctx, space.ID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		if active != nil {
			sbi, err := s.repos.SprintItems.FindBySprintAndItem(ctx, active.ID, out.Item.ID)
			if err != nil && !isNotFound(err) {
				return nil, err
			}
			if sbi != nil {
				out.Sprint = active
				out.Task.SprintBacklogItemID = &sbi.ID
				return out, s.firstSprintColumn(ctx, out)
			}
		}
	}

	out.Task.BacklogItemID = &out.Item.ID
	col, err := s.repos.Columns.FirstForSpace(ctx, space.ID)
	switch {
	case err == nil:
		out.Column = col
	case !isNotFound(err):
		return nil, err
	}
	return out, nil
}

func (s *taskService) firstSprintColumn(ctx context.Context, out *CreatedTask) error {
	col, err := s.repos.Columns.FirstForSprint(ctx, out.Sprint.ID)
	switch {
	case err == nil:
		out.Column = col
	case !isNotFound(err):
		return err
	}
	return nil
}

func (s *taskService) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	return s.repos.Tasks.GetByID(ctx, id)
}

func (s *taskService) Move(ctx context.Context, taskID, columnID string, position int) (col *domain.Column, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID, "column_id": columnID, "position": position}
	defer func() { observe(ctx, s.observer, "move-task", startedAt, fields, err) }()

	if position < 0 {
		return nil, fmt.Errorf("position must not be negative: %w", domain.ErrInvalid)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteTaskRepo(tx).GetByID(ctx, taskID); err != nil {
			return err
		}
		columns := repository.NewSQLiteColumnRepo(tx)
		var err error
		if col, err = columns.GetByID(ctx, columnID); err != nil {
			return err
		}
		return columns.MoveTask(ctx, domain.ColumnTask{
			TaskID:   taskID,
			ColumnID: columnID,
			Position: position,
			MovedAt:  utcNow(),
		})
	})
	if err != nil {
		return nil, err
	}
	return col, nil
}

func (s *taskService) Assign(ctx context.Context, taskID string, assigneeID *string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Assign(ctx, taskID, assigneeID)
	})
}
