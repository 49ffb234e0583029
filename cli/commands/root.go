// Package commands implements the migrator CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/migratekit/migrator/internal/debug"
)

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	source   string
	database string
	verbose  bool
}

// NewRootCommand builds the migrator command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "migrator",
		Short: "Run SQLite migration files from a given directory",
		Long: "migrator applies and reverts user-authored SQL migration files against\n" +
			"a SQLite database, tracking applied migrations in a ledger table so that\n" +
			"re-running the tool is safe and idempotent.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			debug.Init(flags.verbose)
		},
	}

	root.PersistentFlags().StringVarP(&flags.source, "source", "s", "", "path to the migration source directory")
	root.PersistentFlags().StringVarP(&flags.database, "database", "d", "", "path to the sqlite database file")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newCreateCommand(flags))
	root.AddCommand(newUpCommand(flags))
	root.AddCommand(newDownCommand(flags))
	root.AddCommand(newStatusCommand(flags))
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
