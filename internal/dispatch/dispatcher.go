// Package dispatch maps tool calls onto the services and renders the result
// as text. Dispatcher.Call never fails: every problem becomes a message.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

// Services are the use cases the tools call into.
type Services struct {
	Spaces  service.SpaceService
	Backlog service.BacklogService
	Sprints service.SprintService
	Tasks   service.TaskService
	Columns service.ColumnService
	Board   service.BoardService
}

type Dispatcher struct {
	svc    Services
	render TextRenderer
	logger *slog.Logger
}

type Option func(*Dispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithTasksPerColumn caps the cards shown per board column. Zero keeps the
// default.
func WithTasksPerColumn(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.render.TasksPerColumn = n
		}
	}
}

func New(svc Services, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		svc:    svc,
		render: TextRenderer{TasksPerColumn: DefaultTasksPerColumn},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Renderer exposes the text renderer the dispatcher uses.
func (d *Dispatcher) Renderer() TextRenderer {
	return d.render
}

// Call parses and executes one tool call and always returns display text.
func (d *Dispatcher) Call(ctx context.Context, name string, raw map[string]any) (text string) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.ErrorContext(ctx, "tool panicked", "tool", name, "panic", r)
			text = fmt.Sprintf("Error: %v", r)
		}
	}()

	op, err := Parse(name, raw)
	if err != nil {
		return d.failure(ctx, name, err)
	}
	text, err = d.Execute(ctx, op)
	if err != nil {
		return d.failure(ctx, name, err)
	}
	return text
}

func (d *Dispatcher) failure(ctx context.Context, name string, err error) string {
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrUnknownTool):
		return "Unknown tool: " + name
	case errors.As(err, &verr):
		return "Error: " + verr.Message
	case errors.Is(err, domain.ErrNotFound):
		return capitalize(cause(err, domain.ErrNotFound)) + " not found"
	case errors.Is(err, domain.ErrInvalid):
		return "Error: " + cause(err, domain.ErrInvalid)
	case errors.Is(err, domain.ErrConflict):
		return "Error: " + cause(err, domain.ErrConflict)
	}
	d.logger.ErrorContext(ctx, "tool failed", "tool", name, "error", err)
	return "Error: " + err.Error()
}

// Execute runs a parsed operation. Errors are returned unrendered; only the
// not-found and conflict cases with a dedicated message are turned into text.
func (d *Dispatcher) Execute(ctx context.Context, op Operation) (string, error) {
	switch op := op.(type) {
	case CreateSpace:
		s := &domain.Space{Name: op.Name, OwnerID: op.OwnerID, Methodology: op.Methodology}
		if err := d.svc.Spaces.Create(ctx, s); err != nil {
			return "", err
		}
		return fmt.Sprintf("Workspace created: %s (ID: %s, methodology: %s)", s.Name, s.ID, s.Methodology), nil

	case GetUserSpaces:
		spaces, err := d.svc.Spaces.ListByUser(ctx, op.UserID)
		if err != nil {
			return "", err
		}
		return d.render.Spaces(spaces), nil

	case GetSpaceInfo:
		info, err := d.svc.Spaces.Info(ctx, op.SpaceID)
		if err != nil {
			return "", err
		}
		return d.render.SpaceInfo(info), nil

	case GetBoard:
		board, err := d.svc.Board.Assemble(ctx, op.SpaceID)
		if err != nil {
			return "", err
		}
		return d.render.Board(board), nil

	case CreateBacklogItem:
		item := &domain.BacklogItem{
			SpaceID:     op.SpaceID,
			Title:       op.Title,
			CreatedByID: op.CreatedByID,
			Description: op.Description,
			AssigneeID:  op.AssigneeID,
		}
		if err := d.svc.Backlog.Create(ctx, item); err != nil {
			return "", err
		}
		return fmt.Sprintf("Item created in Product Backlog: %s - %s (workspace: %s)", item.Ref(), item.Title, item.SpaceID), nil

	case GetBacklog:
		if _, err := d.svc.Spaces.GetByID(ctx, op.SpaceID); err != nil {
			return "", err
		}
		items, err := d.svc.Backlog.List(ctx, op.SpaceID)
		if err != nil {
			return "", err
		}
		return d.render.Backlog(items), nil

	case UpdateBacklogItem:
		item, err := d.svc.Backlog.Update(ctx, op.ItemID, op.Patch)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Item %s updated", item.Ref()), nil

	case CreateTask:
		if _, err := d.svc.Spaces.GetByID(ctx, op.SpaceID); err != nil {
			return "", err
		}
		created, err := d.svc.Tasks.Create(ctx, service.NewTask{
			SpaceID:             op.SpaceID,
			BacklogItemID:       op.BacklogItemID,
			Sequence:            op.Sequence,
			SprintBacklogItemID: op.SprintBacklogItemID,
			AssigneeID:          op.AssigneeID,
		})
		if errors.Is(err, domain.ErrNotFound) && op.Sequence > 0 && op.BacklogItemID == "" && op.SprintBacklogItemID == "" {
			return fmt.Sprintf("Item #%d not found in this workspace", op.Sequence), nil
		}
		if err != nil {
			return "", err
		}
		return d.render.CreatedTask(created), nil

	case MoveTask:
		col, err := d.svc.Tasks.Move(ctx, op.TaskID, op.ColumnID, op.Position)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Task moved to column %s", col.Name), nil

	case AssignTask:
		assigneeID := op.AssigneeID
		if err := d.svc.Tasks.Assign(ctx, op.TaskID, &assigneeID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Task assigned to %s", op.AssigneeID), nil

	case CreateColumn:
		col, err := d.svc.Columns.Create(ctx, service.NewColumn{
			SpaceID:  op.SpaceID,
			SprintID: op.SprintID,
			Name:     op.Name,
			Position: op.Position,
			WIPLimit: op.WIPLimit,
		})
		if err != nil {
			return "", err
		}
		if op.SprintID != "" {
			return fmt.Sprintf("Column '%s' created (ID: %s) in sprint %s", col.Name, col.ID, op.SprintID), nil
		}
		return fmt.Sprintf("Column '%s' created (ID: %s) in workspace %s", col.Name, col.ID, op.SpaceID), nil

	case GetColumnTasks:
		col, cards, err := d.svc.Columns.Tasks(ctx, op.ColumnID)
		if err != nil {
			return "", err
		}
		return d.render.ColumnTasks(col, cards), nil

	case CreateSprint:
		sp := &domain.Sprint{
			SpaceID:   op.SpaceID,
			Name:      op.Name,
			StartDate: op.StartDate,
			EndDate:   op.EndDate,
			Goal:      op.Goal,
		}
		if err := d.svc.Sprints.Create(ctx, sp); err != nil {
			return "", err
		}
		return fmt.Sprintf("Sprint created: %s (ID: %s, status: %s)", sp.Name, sp.ID, sp.Status), nil

	case AddToSprintBacklog:
		sbi := &domain.SprintBacklogItem{
			SprintID:      op.SprintID,
			BacklogItemID: op.BacklogItemID,
			StoryPoints:   op.StoryPoints,
			Position:      op.Position,
		}
		err := d.svc.Sprints.AddItem(ctx, sbi)
		if errors.Is(err, domain.ErrConflict) {
			return "This item is already in the sprint", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Item added to Sprint Backlog (ID: %s)", sbi.ID), nil

	case GetSprintBacklog:
		backlog, err := d.svc.Sprints.Backlog(ctx, op.SprintID)
		if err != nil {
			return "", err
		}
		return d.render.SprintBacklog(backlog), nil

	case StartSprint:
		sp, err := d.svc.Sprints.Start(ctx, op.SprintID)
		if errors.Is(err, domain.ErrNotFound) {
			return "Sprint not found", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Sprint %s started", sp.Name), nil

	case CompleteSprint:
		sp, err := d.svc.Sprints.Complete(ctx, op.SprintID)
		if errors.Is(err, domain.ErrNotFound) {
			return "Sprint not found", nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Sprint %s completed", sp.Name), nil
	}
	return "", fmt.Errorf("unhandled operation %T", op)
}

// cause drops the trailing sentinel text from a wrapped error message.
func cause(err, sentinel error) string {
	return strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
