package main

import (
	"os"

	"github.com/caddieai/caddie/cmd/caddie/cmd"
	"github.com/caddieai/caddie/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	logger.Init(logger.Options{Development: true})

	rootCmd := &cobra.Command{
		Use:           "caddie",
		Short:         "Operational tools for the CaddieAI backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.SeedCmd())
	rootCmd.AddCommand(cmd.UserCmd())
	rootCmd.AddCommand(cmd.TokensCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
