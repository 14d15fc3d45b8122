package dispatch

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintdesk/internal/domain"
	"github.com/alexanderramin/sprintdesk/internal/service"
)

// DefaultTasksPerColumn is how many cards a column shows before collapsing
// the rest into an "... and N more" line.
const DefaultTasksPerColumn = 5

// TextRenderer turns service results into the plain text tools return.
type TextRenderer struct {
	TasksPerColumn int
}

func (r TextRenderer) perColumn() int {
	if r.TasksPerColumn <= 0 {
		return DefaultTasksPerColumn
	}
	return r.TasksPerColumn
}

// Board renders any of the three board shapes.
func (r TextRenderer) Board(b *domain.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Board - %s (Methodology: %s)\n\n", b.Space.Name, b.Space.Methodology)

	switch {
	case !b.Space.IsScrum():
		if len(b.Columns) == 0 {
			sb.WriteString("Kanban board empty - no columns configured\n")
			sb.WriteString("Create columns with create_column to start organizing tasks.\n")
		} else {
			r.columns(&sb, b.Columns)
		}
		fmt.Fprintf(&sb, "\nProduct Backlog (%d items available)", b.UnpromotedCount)
	case b.Sprint == nil:
		sb.WriteString("No active sprint.\n\n")
		if b.BacklogTotal == 0 {
			sb.WriteString("Product Backlog is empty\n")
		} else {
			fmt.Fprintf(&sb, "Product Backlog (%d items):\n", b.BacklogTotal)
			for _, item := range b.Backlog {
				fmt.Fprintf(&sb, "  • %s: %s → %s\n", item.Ref(), item.Title, assignee(item.AssigneeName))
			}
			if n := b.BacklogOverflow(); n > 0 {
				fmt.Fprintf(&sb, "  ... and %d more items\n", n)
			}
		}
		sb.WriteString("\nCreate a sprint with create_sprint, then start it with start_sprint.")
	default:
		sp := b.Sprint
		fmt.Fprintf(&sb, "Active sprint: %s\n", sp.Name)
		if sp.Goal != nil && *sp.Goal != "" {
			fmt.Fprintf(&sb, "Goal: %s\n", *sp.Goal)
		}
		fmt.Fprintf(&sb, "From %s to %s\n\n", sp.StartDate.Format(domain.DateLayout), sp.EndDate.Format(domain.DateLayout))
		if len(b.Columns) == 0 {
			sb.WriteString("Sprint board empty - create columns with create_column and sprint_id.\n")
		} else {
			r.columns(&sb, b.Columns)
		}
		fmt.Fprintf(&sb, "\nSprint Backlog: %d items, %d story points", b.SprintSummary.ItemCount, b.SprintSummary.StoryPoints)
	}
	return sb.String()
}

func (r TextRenderer) columns(sb *strings.Builder, cols []domain.BoardColumn) {
	limit := r.perColumn()
	for i, col := range cols {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(sb, "**%s**", col.Column.Name)
		if col.Column.WIPLimit != nil {
			fmt.Fprintf(sb, " (WIP: %d)", *col.Column.WIPLimit)
		}
		fmt.Fprintf(sb, " (%d tasks)", col.TaskCount())
		if col.WIPExceeded() {
			sb.WriteString(" - WIP limit exceeded")
		}
		sb.WriteString("\n")
		for j, card := range col.Tasks {
			if j == limit {
				fmt.Fprintf(sb, "  ... and %d more\n", len(col.Tasks)-limit)
				break
			}
			fmt.Fprintf(sb, "  • #%d: %s%s\n", card.Sequence, card.Title, points(card.StoryPoints))
		}
	}
}

func (r TextRenderer) SpaceInfo(info *service.SpaceInfo) string {
	s := info.Space
	var sb strings.Builder
	fmt.Fprintf(&sb, "Workspace: %s\n", s.Name)
	fmt.Fprintf(&sb, "ID: %s\n", s.ID)
	fmt.Fprintf(&sb, "Methodology: %s\n", s.Methodology)
	fmt.Fprintf(&sb, "Owner: %s\n", s.OwnerID)
	fmt.Fprintf(&sb, "Members: %d", len(info.Members))
	if s.IsScrum() {
		if info.ActiveSprint != nil {
			fmt.Fprintf(&sb, "\nActive sprint: %s (status: %s)", info.ActiveSprint.Name, info.ActiveSprint.Status)
		} else {
			sb.WriteString("\nNo active sprint")
		}
	}
	return sb.String()
}

func (r TextRenderer) Spaces(spaces []*domain.Space) string {
	if len(spaces) == 0 {
		return "No workspace found for this user"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d workspace(s) found:", len(spaces))
	for _, s := range spaces {
		fmt.Fprintf(&sb, "\n- %s (%s) - ID: %s", s.Name, s.Methodology, s.ID)
	}
	return sb.String()
}

func (r TextRenderer) Backlog(items []*domain.BacklogItem) string {
	if len(items) == 0 {
		return "Product Backlog is empty"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Product Backlog (%d items):", len(items))
	for _, item := range items {
		fmt.Fprintf(&sb, "\n%s - %s → %s", item.Ref(), item.Title, assignee(item.AssigneeName))
	}
	return sb.String()
}

func (r TextRenderer) SprintBacklog(sb *service.SprintBacklog) string {
	if len(sb.Items) == 0 {
		return "Sprint Backlog is empty"
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Sprint Backlog (%d items):", len(sb.Items))
	for _, item := range sb.Items {
		pts := "-"
		if item.StoryPoints != nil {
			pts = fmt.Sprint(*item.StoryPoints)
		}
		fmt.Fprintf(&out, "\n#%d - %s (%s SP) → %s", item.Sequence, item.Title, pts, assignee(item.AssigneeName))
	}
	fmt.Fprintf(&out, "\nTotal: %d story points", sb.Summary.StoryPoints)
	return out.String()
}

func (r TextRenderer) ColumnTasks(col *domain.Column, cards []domain.TaskCard) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Column '%s' (%d tasks)", col.Name, len(cards))
	if len(cards) > 0 {
		sb.WriteString(":")
	}
	for _, c := range cards {
		fmt.Fprintf(&sb, "\n- #%d: %s", c.Sequence, c.Title)
	}
	return sb.String()
}

func (r TextRenderer) CreatedTask(ct *service.CreatedTask) string {
	text := fmt.Sprintf("Task created for %s - %s (ID: %s)", ct.Item.Ref(), ct.Item.Title, ct.Task.ID)
	switch {
	case ct.Column != nil:
		text += fmt.Sprintf("\nPlaced in column '%s'", ct.Column.Name)
	case ct.Sprint != nil:
		text += "\nNot placed: the sprint board has no columns yet"
	default:
		text += "\nNot placed: the board has no columns yet"
	}
	return text
}

func assignee(name string) string {
	if name == "" {
		return "unassigned"
	}
	return name
}

func points(p *int) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf(" [%d pts]", *p)
}
