package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/migratekit/migrator/cli/internal/config"
	"github.com/migratekit/migrator/cli/internal/ui"
	"github.com/migratekit/migrator/migrate"
)

func newStatusCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.source, flags.database)
			if err != nil {
				return err
			}

			status, err := migrate.New(config.AppFs).Status(cmd.Context(), migrate.Options{
				SourceDir:    cfg.SourceDir,
				DatabasePath: cfg.DatabasePath,
			})
			if err != nil {
				return err
			}

			printStatus(status)
			return nil
		},
	}
}

func printStatus(status *migrate.Status) {
	drifted := make(map[int64]bool, len(status.Drifted))
	for _, version := range status.Drifted {
		drifted[version] = true
	}

	rows := make([][]string, 0, len(status.Applied)+len(status.Pending))
	for _, entry := range status.Applied {
		state := "applied"
		if drifted[entry.Version] {
			state = "applied (script changed since apply)"
		}
		rows = append(rows, []string{
			strconv.FormatInt(entry.Version, 10),
			entry.Name,
			state,
			entry.AppliedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	for _, def := range status.Pending {
		rows = append(rows, []string{strconv.FormatInt(def.Version, 10), def.Name, "pending", ""})
	}

	if len(rows) == 0 {
		ui.PrintInfo("no migrations found")
	} else {
		ui.PrintTable([]string{"VERSION", "NAME", "STATUS", "APPLIED AT"}, rows)
	}

	for _, version := range status.Orphaned {
		ui.PrintWarning("ledger entry %d has no matching migration file", version)
	}
	for _, name := range status.Skipped {
		ui.PrintWarning("ignoring %s: not a migration file", name)
	}

	fmt.Printf("%d applied, %d pending\n", len(status.Applied), len(status.Pending))
}
