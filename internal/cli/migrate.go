package cli

import (
	"github.com/spf13/cobra"

	"gdbot/internal/infrastructure/database"
)

// NewMigrateCommand creates the migrate command with its up and down
// subcommands.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.RunMigrations(rootOpts.Config.DatabaseURL, rootOpts.Log)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return database.RollbackMigrations(rootOpts.Config.DatabaseURL, steps, rootOpts.Log)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(up, down)
	return cmd
}
