package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/migratekit/migrator/cli/internal/config"
	"github.com/migratekit/migrator/cli/internal/ui"
	"github.com/migratekit/migrator/migrate/planner"
)

func newDownCommand(flags *rootFlags) *cobra.Command {
	var number int
	var yes bool

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert applied migrations",
		Long:  "Revert applied migrations, most recently applied first. Without --number every applied migration is reverted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("number") && number < 1 {
				return fmt.Errorf("--number must be a positive integer, got %d", number)
			}

			cfg, err := config.Load(flags.source, flags.database)
			if err != nil {
				return err
			}

			// A down run with no limit rolls back everything; make sure
			// that is what the user meant.
			if number == 0 && !yes {
				if !ui.Confirm(fmt.Sprintf("Revert ALL applied migrations in %s?", cfg.DatabasePath)) {
					ui.PrintInfo("aborted")
					return nil
				}
			}

			return runMigration(cmd.Context(), cfg, planner.Down, number)
		},
	}

	cmd.Flags().IntVarP(&number, "number", "n", 0, "revert at most N applied migrations")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the full-rollback confirmation prompt")

	return cmd
}
