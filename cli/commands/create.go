package commands

import (
	"github.com/spf13/cobra"

	"github.com/migratekit/migrator/cli/internal/config"
	"github.com/migratekit/migrator/cli/internal/ui"
	"github.com/migratekit/migrator/migrate/scaffold"
)

func newCreateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new migration",
		Long:  "Scaffold an empty up/down script pair for the next free version in the source directory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceDir, err := config.LoadSource(flags.source)
			if err != nil {
				return err
			}

			files, err := scaffold.Create(config.AppFs, sourceDir, args[0])
			if err != nil {
				return err
			}

			ui.PrintSuccess("created %s", ui.Highlight(files.UpPath))
			ui.PrintSuccess("created %s", ui.Highlight(files.DownPath))
			return nil
		},
	}
}
