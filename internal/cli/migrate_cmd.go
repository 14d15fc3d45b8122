package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/db"
)

func newMigrateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(a.Core.DB); err != nil {
				return fmt.Errorf("migrating: %w", err)
			}
			path := ":memory:"
			if a.Config != nil {
				path = a.Config.DB.Path
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Database up to date: %s\n", path)
			return nil
		},
	}
}
