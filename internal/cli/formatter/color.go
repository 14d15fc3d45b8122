package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// MethodologyBadge labels a space as KANBAN or SCRUM.
func MethodologyBadge(m domain.Methodology) string {
	if m == domain.MethodologyScrum {
		return StylePurple.Render("◆ SCRUM")
	}
	return StyleBlue.Render("▦ KANBAN")
}

// SprintStatusPill returns a colored indicator for a sprint's status.
func SprintStatusPill(status domain.SprintStatus) string {
	switch status {
	case domain.SprintActive:
		return StyleGreen.Render("● Active")
	case domain.SprintPlanning, domain.SprintPlanned:
		return StyleYellow.Render("○ Planned")
	case domain.SprintCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		return StyleDim.Render(string(status))
	}
}

// WIPCount renders "count/limit", red once the limit is exceeded.
func WIPCount(col domain.BoardColumn) string {
	if col.Column.WIPLimit == nil {
		return StyleDim.Render(fmt.Sprintf("%d", col.TaskCount()))
	}
	text := fmt.Sprintf("%d/%d", col.TaskCount(), *col.Column.WIPLimit)
	if col.WIPExceeded() {
		return StyleRed.Render(text + " WIP!")
	}
	return StyleGreen.Render(text)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
