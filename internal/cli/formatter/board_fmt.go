package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

const columnWidth = 28

var columnBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorDim).
	Width(columnWidth).
	PaddingLeft(1).
	PaddingRight(1)

// FormatBoard renders a board for a terminal: columns side by side, at most
// perColumn cards in each.
func FormatBoard(b *domain.Board, perColumn int) string {
	var sb strings.Builder
	sb.WriteString(Header(b.Space.Name) + "  " + MethodologyBadge(b.Space.Methodology) + "\n\n")

	switch {
	case !b.Space.IsScrum():
		if len(b.Columns) == 0 {
			sb.WriteString(Dim("No columns yet. Add one with create_column.") + "\n")
		} else {
			sb.WriteString(renderColumns(b.Columns, perColumn) + "\n")
		}
		fmt.Fprintf(&sb, "\n%s %s\n", StyleBlue.Render("Backlog:"),
			Dim(fmt.Sprintf("%d items not on the board", b.UnpromotedCount)))
	case b.Sprint == nil:
		sb.WriteString(StyleYellow.Render("No active sprint.") + "\n\n")
		sb.WriteString(formatBacklogPreview(b))
	default:
		sp := b.Sprint
		fmt.Fprintf(&sb, "%s  %s  %s\n", Bold(sp.Name), SprintStatusPill(sp.Status),
			Dim(sp.StartDate.Format(domain.DateLayout)+" → "+sp.EndDate.Format(domain.DateLayout)))
		if sp.Goal != nil && *sp.Goal != "" {
			sb.WriteString(Dim("Goal: ") + *sp.Goal + "\n")
		}
		sb.WriteString("\n")
		if len(b.Columns) == 0 {
			sb.WriteString(Dim("Sprint board has no columns yet.") + "\n")
		} else {
			sb.WriteString(renderColumns(b.Columns, perColumn) + "\n")
		}
		fmt.Fprintf(&sb, "\n%s %s\n", StyleBlue.Render("Sprint backlog:"),
			Dim(fmt.Sprintf("%d items, %d story points", b.SprintSummary.ItemCount, b.SprintSummary.StoryPoints)))
	}
	return sb.String()
}

func renderColumns(cols []domain.BoardColumn, perColumn int) string {
	boxes := make([]string, 0, len(cols))
	for _, col := range cols {
		boxes = append(boxes, renderColumn(col, perColumn))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func renderColumn(col domain.BoardColumn, perColumn int) string {
	var sb strings.Builder
	sb.WriteString(StyleHeader.Render(col.Column.Name) + " " + WIPCount(col))
	if len(col.Tasks) == 0 {
		sb.WriteString("\n" + Dim("empty"))
	}
	for i, card := range col.Tasks {
		if perColumn > 0 && i == perColumn {
			sb.WriteString("\n" + Dim(fmt.Sprintf("+%d more", len(col.Tasks)-perColumn)))
			break
		}
		sb.WriteString("\n" + formatCard(card))
	}
	box := columnBox
	if col.WIPExceeded() {
		box = box.BorderForeground(ColorRed)
	}
	return box.Render(sb.String())
}

func formatCard(card domain.TaskCard) string {
	line := StyleYellow.Render(fmt.Sprintf("#%d", card.Sequence)) + " " + card.Title
	var meta []string
	if card.StoryPoints != nil {
		meta = append(meta, fmt.Sprintf("%d pts", *card.StoryPoints))
	}
	if card.AssigneeName != "" {
		meta = append(meta, "@"+card.AssigneeName)
	}
	if len(meta) > 0 {
		line += "\n  " + Dim(strings.Join(meta, " · "))
	}
	return line
}

func formatBacklogPreview(b *domain.Board) string {
	if b.BacklogTotal == 0 {
		return Dim("Product backlog is empty.") + "\n"
	}
	rows := make([][]string, 0, len(b.Backlog))
	for _, item := range b.Backlog {
		who := item.AssigneeName
		if who == "" {
			who = Dim("unassigned")
		}
		rows = append(rows, []string{StyleYellow.Render(item.Ref()), item.Title, who})
	}
	out := StyleBlue.Render(fmt.Sprintf("Product backlog (%d items)", b.BacklogTotal)) + "\n" +
		RenderTable([]string{"#", "TITLE", "ASSIGNEE"}, rows)
	if n := b.BacklogOverflow(); n > 0 {
		out += Dim(fmt.Sprintf("... and %d more items", n)) + "\n"
	}
	return out
}
