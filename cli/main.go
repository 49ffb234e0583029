package main

import (
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/migratekit/migrator/cli/commands"
	"github.com/migratekit/migrator/cli/internal/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(commands.ExitCode(err))
	}
}
