package cmd

import (
	"fmt"

	"github.com/caddieai/caddie/internal/repository"
	"github.com/caddieai/caddie/internal/seed"
	"github.com/caddieai/caddie/internal/service"
	"github.com/spf13/cobra"
)

func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
	}

	var file string
	courses := &cobra.Command{
		Use:   "courses",
		Short: "Create catalogue courses that do not exist yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			database, _, err := openDB(true)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			repo := repository.NewCourseRepository(database)
			res, err := seed.Courses(cmd.Context(), service.NewCourseService(repo), repo, cat)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "courses created: %d, already present: %d\n", res.Created, res.Skipped)
			return nil
		},
	}
	courses.Flags().StringVarP(&file, "file", "f", "", "YAML catalogue (default: built-in catalogue)")

	cmd.AddCommand(courses)
	return cmd
}
