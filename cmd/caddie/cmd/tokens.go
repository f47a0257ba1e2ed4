package cmd

import (
	"fmt"
	"time"

	"github.com/caddieai/caddie/internal/repository"
	"github.com/spf13/cobra"
)

func TokensCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Maintain refresh tokens",
	}

	var olderThan time.Duration
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete expired and used refresh tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			database, _, err := openDB(true)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			n, err := repository.NewTokenRepository(database).CleanupExpired(olderThan)
			if err != nil {
				return fmt.Errorf("failed to clean up tokens: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d tokens\n", n)
			return nil
		},
	}
	cleanup.Flags().DurationVar(&olderThan, "older-than", 24*time.Hour, "keep tokens that expired more recently than this")

	cmd.AddCommand(cleanup)
	return cmd
}
