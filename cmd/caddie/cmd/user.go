package cmd

import (
	"fmt"
	"strings"

	"github.com/caddieai/caddie/internal/model"
	"github.com/caddieai/caddie/internal/repository"
	"github.com/spf13/cobra"
)

func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(roleCmd("promote", "Grant administrator rights", model.RoleAdmin))
	cmd.AddCommand(roleCmd("demote", "Revoke administrator rights", model.RoleUser))
	return cmd
}

func roleCmd(use, short, role string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <email>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openDB(true)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			email := strings.ToLower(strings.TrimSpace(args[0]))
			err = repository.NewUserRepository(database).SetRole(email, role)
			if err != nil {
				return fmt.Errorf("failed to update %s: %w", email, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", email, role)
			return nil
		},
	}
}
