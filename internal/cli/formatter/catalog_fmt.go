package formatter

import (
	"strings"

	"github.com/alexanderramin/sprintdesk/internal/dispatch"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

// FormatParams lists a tool's parameters, optional ones in brackets.
func FormatParams(params []dispatch.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		if p.Required {
			parts = append(parts, p.Name)
		} else {
			parts = append(parts, "["+p.Name+"]")
		}
	}
	return strings.Join(parts, " ")
}

// FormatToolCatalog renders the tool list as a table.
func FormatToolCatalog(specs []dispatch.ToolSpec) string {
	rows := make([][]string, 0, len(specs))
	for _, s := range specs {
		rows = append(rows, []string{StyleGreen.Render(s.Name), FormatParams(s.Params), Dim(s.Description)})
	}
	return RenderTable([]string{"TOOL", "PARAMETERS", "DESCRIPTION"}, rows)
}

// FormatUsers renders users as a table.
func FormatUsers(users []*domain.User) string {
	if len(users) == 0 {
		return Dim("No users yet. Add one with 'user add --name ... --email ...'.") + "\n"
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, Bold(u.Name), u.Email, string(u.Role)})
	}
	return RenderTable([]string{"ID", "NAME", "EMAIL", "ROLE"}, rows)
}
