package service

import (
	"context"
	"time"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/repository"
)

// DefaultBacklogLimit caps the product backlog shown on a SCRUM board
// without an active sprint.
const DefaultBacklogLimit = 10

// BoardRepos groups the repositories the board is assembled from.
type BoardRepos struct {
	Spaces      repository.SpaceRepo
	Items       repository.BacklogItemRepo
	Sprints     repository.SprintRepo
	SprintItems repository.SprintBacklogItemRepo
	Columns     repository.ColumnRepo
}

type boardService struct {
	repos        BoardRepos
	backlogLimit int
	observer     UseCaseObserver
}

// NewBoardService builds the board assembler. A backlogLimit of zero or less
// uses DefaultBacklogLimit.
func NewBoardService(repos BoardRepos, backlogLimit int, observers ...UseCaseObserver) BoardService {
	if backlogLimit <= 0 {
		backlogLimit = DefaultBacklogLimit
	}
	return &boardService{repos: repos, backlogLimit: backlogLimit, observer: useCaseObserverOrNoop(observers)}
}

func (s *boardService) Assemble(ctx context.Context, spaceID string) (board *domain.Board, err error) {
	startedAt := time.Now()
	fields := map[string]any{"space_id": spaceID}
	defer func() { observe(ctx, s.observer, "assemble-board", startedAt, fields, err) }()

	space, err := s.repos.Spaces.GetByID(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	fields["methodology"] = string(space.Methodology)
	board = &domain.Board{Space: space}

	if space.IsScrum() {
		err = s.assembleScrum(ctx, board, fields)
	} else {
		err = s.assembleKanban(ctx, board)
	}
	if err != nil {
		return nil, err
	}
	return board, nil
}

func (s *boardService) assembleKanban(ctx context.Context, board *domain.Board) error {
	cols, err := s.repos.Columns.ListBySpace(ctx, board.Space.ID)
	if err != nil {
		return err
	}
	if board.Columns, err = fillColumns(ctx, cols, s.repos.Columns.ListTasks); err != nil {
		return err
	}
	if board.UnpromotedCount, err = s.repos.Items.CountUnpromoted(ctx, board.Space.ID); err != nil {
		return err
	}
	board.BacklogTotal, err = s.repos.Items.CountBySpace(ctx, board.Space.ID)
	return err
}

// assembleScrum shows the active sprint board, or the product backlog when
// no sprint is active.
func (s *boardService) assembleScrum(ctx context.Context, board *domain.Board, fields map[string]any) error {
	active, err := s.repos.Sprints.GetActive(ctx, board.Space.ID)
	if isNotFound(err) {
		fields["view"] = "backlog"
		return s.assembleBacklog(ctx, board)
	}
	if err != nil {
		return err
	}
	fields["sprint_id"] = active.ID
	board.Sprint = active
	return s.assembleSprint(ctx, board)
}

func (s *boardService) assembleBacklog(ctx context.Context, board *domain.Board) error {
	items, err := s.repos.Items.ListBySpace(ctx, board.Space.ID)
	if err != nil {
		return err
	}
	board.BacklogTotal = len(items)
	if len(items) > s.backlogLimit {
		items = items[:s.backlogLimit]
	}
	board.Backlog = items
	return nil
}

func (s *boardService) assembleSprint(ctx context.Context, board *domain.Board) error {
	cols, err := s.repos.Columns.ListBySprint(ctx, board.Sprint.ID)
	if err != nil {
		return err
	}
	if board.Columns, err = fillColumns(ctx, cols, s.repos.Columns.ListSprintTasks); err != nil {
		return err
	}
	board.SprintSummary, err = s.repos.SprintItems.Summary(ctx, board.Sprint.ID)
	return err
}

func fillColumns(
	ctx context.Context,
	cols []*domain.Column,
	listTasks func(ctx context.Context, columnID string) ([]domain.TaskCard, error),
) ([]domain.BoardColumn, error) {
	out := make([]domain.BoardColumn, 0, len(cols))
	for _, c := range cols {
		cards, err := listTasks(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.BoardColumn{Column: c, Tasks: cards})
	}
	return out, nil
}
