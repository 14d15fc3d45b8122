package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintdesk/internal/cli/formatter"
	"github.com/alexanderramin/sprintdesk/internal/domain"
)

func newUserCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd(a), newUserListCmd(a))
	return cmd
}

func newUserAddCmd(a *App) *cobra.Command {
	var name, email, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseUserRole(role)
			if err != nil {
				return err
			}
			u := &domain.User{Name: name, Email: email, Role: r}
			if err := a.Core.Users.Create(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (ID: %s)\n", formatter.Bold(u.Name), u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "USER, ADMIN or SUPERADMIN")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func parseUserRole(s string) (domain.UserRole, error) {
	switch r := domain.UserRole(strings.ToUpper(strings.TrimSpace(s))); r {
	case domain.RoleUser, domain.RoleAdmin, domain.RoleSuperAdmin:
		return r, nil
	case "":
		return domain.RoleUser, nil
	default:
		return "", fmt.Errorf("role must be USER, ADMIN or SUPERADMIN, got %q", s)
	}
}

func newUserListCmd(a *App) *cobra.Command {
	var spaceID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users, or the members of one space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				users []*domain.User
				err   error
			)
			if spaceID != "" {
				users, err = a.Core.Users.ListBySpace(cmd.Context(), spaceID)
			} else {
				users, err = a.Core.Users.List(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUsers(users))
			return nil
		},
	}

	cmd.Flags().StringVar(&spaceID, "space", "", "only members of this space")

	return cmd
}
