package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
)

func newBoardCmd(a *App) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "board <space_id>",
		Short: "Show a space's board",
		Long: `Show the KANBAN board, the active sprint board, or the product backlog
when a SCRUM space has no active sprint. Output is styled on a terminal and
plain text otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := a.Core.Board.Assemble(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			render := a.Core.Dispatcher.Renderer()
			if plain || !a.interactive() {
				fmt.Fprintln(cmd.OutOrStdout(), render.Board(board))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBoard(board, render.TasksPerColumn))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print plain text even on a terminal")

	return cmd
}
