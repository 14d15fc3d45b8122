package formatter

import (
	"fmt"
	"strings"
)

// FormatShellWelcome renders the banner shown on shell startup.
func FormatShellWelcome() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  sprintdesk") + "\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n\n")
	b.WriteString(StyleDim.Render("  Pick a space with 'use <id>' and tools fill in space_id for you.") + "\n\n")
	b.WriteString("  " + StyleGreen.Render("get_user_spaces") + StyleDim.Render("  List your spaces") + "\n")
	b.WriteString("  " + StyleGreen.Render("use <id>") + StyleDim.Render("         Set the active space") + "\n")
	b.WriteString("  " + StyleGreen.Render("get_board") + StyleDim.Render("        Show the active board") + "\n")
	b.WriteString("  " + StyleGreen.Render("new-space") + StyleDim.Render("        Create a space step by step") + "\n")
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("  Tab for autocomplete. Type 'help' for all commands.") + "\n")

	return b.String()
}

type helpCategory struct {
	title    string
	commands [][]string
}

func renderHelpCategory(cat helpCategory) string {
	var b strings.Builder
	b.WriteString("\n " + StyleHeader.Render(strings.ToUpper(cat.title)) + "\n")
	for _, c := range cat.commands {
		b.WriteString(fmt.Sprintf("  %-28s %s\n", StyleGreen.Render(c[0]), StyleDim.Render(c[1])))
	}
	return b.String()
}

// FormatShellHelp renders the shell command reference. tools are the
// catalog entries as "name params" pairs.
func FormatShellHelp(tools [][]string) string {
	categories := []helpCategory{
		{
			title: "Session",
			commands: [][]string{
				{"use <space_id>", "Set the active space (no args to clear)"},
				{"as <user_id>", "Act as a user (no args to clear)"},
				{"sprint <sprint_id>", "Set the active sprint (no args to clear)"},
				{"context", "Show the context header sent with tool calls"},
			},
		},
		{
			title: "Boards",
			commands: [][]string{
				{"board [space_id]", "Styled board for a space"},
				{"new-space", "Create a space with a form"},
				{"tools", "Tool catalog with parameters"},
				{"user list", "List users"},
			},
		},
		{title: "Tools (name key=value ...)", commands: tools},
		{
			title: "Shell",
			commands: [][]string{
				{"clear", "Clear the screen"},
				{"help", "Show this help"},
				{"exit", "Leave the shell"},
			},
		},
	}

	var b strings.Builder
	for _, cat := range categories {
		b.WriteString(renderHelpCategory(cat))
	}
	return b.String()
}
