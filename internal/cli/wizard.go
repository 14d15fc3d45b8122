package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
	"github.com/alexanderramin/sprintdesk/internal/dispatch"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// huhTheme returns a huh theme using the shell's Gruvbox palette.
func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// spaceDraft collects the answers of the new-space form.
type spaceDraft struct {
	Name        string
	Methodology string
	OwnerID     string
}

// args converts the draft into create_space arguments.
func (d *spaceDraft) args() map[string]any {
	return map[string]any{
		"name":        strings.TrimSpace(d.Name),
		"methodology": d.Methodology,
		"owner_id":    strings.TrimSpace(d.OwnerID),
	}
}

func requiredText(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

// newSpaceForm asks for everything create_space needs.
func newSpaceForm(d *spaceDraft) *huh.Form {
	if d.Methodology == "" {
		d.Methodology = string(domain.MethodologyKanban)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Space name").
				Placeholder("Platform team").
				Value(&d.Name).
				Validate(requiredText("name")),
			huh.NewSelect[string]().
				Title("Methodology").
				Options(
					huh.NewOption("Kanban (continuous flow)", string(domain.MethodologyKanban)),
					huh.NewOption("Scrum (sprints)", string(domain.MethodologyScrum)),
				).
				Value(&d.Methodology),
			huh.NewInput().
				Title("Owner user id").
				Value(&d.OwnerID).
				Validate(requiredText("owner")),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}

// submitSpaceDraft creates the space through the dispatcher.
func submitSpaceDraft(ctx context.Context, a *App, d *spaceDraft) string {
	return a.Core.Dispatcher.Call(ctx, dispatch.ToolCreateSpace, d.args())
}
