package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/chatctx"
)

func newShellCmd(a *App) *cobra.Command {
	var session chatctx.Values

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive tool shell with session context and autocomplete",
		Long: `Start an interactive shell. Type a tool name followed by key=value
arguments; the active space, user and sprint fill in missing identifiers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.interactive() {
				return errors.New("shell needs an interactive terminal; use 'sprintdesk call' in scripts")
			}
			model := newShellModel(a, loadHistory(defaultHistoryPath()), session)
			_, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	bindContextFlags(cmd.Flags(), &session)

	return cmd
}
