package domain

// Board is the assembled view of a space. Exactly one of the three shapes is
// populated: a KANBAN board, a SCRUM sprint board, or a SCRUM backlog view
// when no sprint is active.
type Board struct {
	Space   *Space
	Columns []BoardColumn

	// KANBAN only.
	UnpromotedCount int

	// SCRUM with an active sprint.
	Sprint        *Sprint
	SprintSummary SprintSummary

	// SCRUM without an active sprint.
	Backlog      []*BacklogItem
	BacklogTotal int
}

// BoardColumn is a column with its ordered task cards.
type BoardColumn struct {
	Column *Column
	Tasks  []TaskCard
}

func (c BoardColumn) TaskCount() int {
	return len(c.Tasks)
}

func (c BoardColumn) WIPExceeded() bool {
	return c.Column.WIPExceeded(len(c.Tasks))
}

// ShowsBacklog reports whether the board fell back to the product backlog.
func (b *Board) ShowsBacklog() bool {
	return b.Space != nil && b.Space.IsScrum() && b.Sprint == nil
}

// BacklogOverflow is the number of backlog items left out of Backlog.
func (b *Board) BacklogOverflow() int {
	if n := b.BacklogTotal - len(b.Backlog); n > 0 {
		return n
	}
	return 0
}
