package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/migratekit/migrator/cli/internal/config"
	"github.com/migratekit/migrator/cli/internal/ui"
	"github.com/migratekit/migrator/cli/internal/watch"
	"github.com/migratekit/migrator/migrate"
	"github.com/migratekit/migrator/migrate/planner"
)

func newUpCommand(flags *rootFlags) *cobra.Command {
	var number int
	var watchMode bool

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Long:  "Apply all pending migrations in ascending version order, or at most N of them with --number.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("number") && number < 1 {
				return fmt.Errorf("--number must be a positive integer, got %d", number)
			}

			cfg, err := config.Load(flags.source, flags.database)
			if err != nil {
				return err
			}

			if watchMode {
				return runUpWatch(cmd.Context(), cfg, number)
			}
			return runMigration(cmd.Context(), cfg, planner.Up, number)
		},
	}

	cmd.Flags().IntVarP(&number, "number", "n", 0, "apply at most N pending migrations")
	cmd.Flags().BoolVar(&watchMode, "watch", false, "keep running and re-apply pending migrations when the source directory changes")

	return cmd
}

// runMigration executes one engine run and prints the outcome.
func runMigration(ctx context.Context, cfg *config.Resolved, direction planner.Direction, steps int) error {
	engine := migrate.New(config.AppFs)
	report, err := engine.Run(ctx, migrate.Options{
		SourceDir:    cfg.SourceDir,
		DatabasePath: cfg.DatabasePath,
		Direction:    direction,
		Steps:        steps,
	})
	if report != nil {
		printReport(report)
	}
	return err
}

func printReport(report *migrate.Report) {
	for _, name := range report.Skipped {
		ui.PrintWarning("ignoring %s: not a migration file", name)
	}

	verb := "applied"
	if report.Direction == planner.Down {
		verb = "reverted"
	}

	if len(report.Versions) == 0 {
		ui.PrintInfo("nothing to do, database is already in the requested state")
		return
	}
	for _, version := range report.Versions {
		ui.PrintSuccess("%s migration %d", verb, version)
	}
}

// runUpWatch applies pending migrations now and again on every change to
// the source directory, until interrupted. A failing run is reported but
// does not stop the watch.
func runUpWatch(ctx context.Context, cfg *config.Resolved, steps int) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := watch.NewWatcher(cfg.SourceDir, func() error {
		if err := runMigration(ctx, cfg, planner.Up, steps); err != nil {
			ui.PrintError("%v", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		watcher.Stop()
	}()

	ui.PrintInfo("watching %s for changes, press Ctrl-C to stop", ui.Highlight(cfg.SourceDir))
	return watcher.Start()
}
