package commands

import (
	"errors"

	"github.com/migratekit/migrator/cli/internal/config"
	"github.com/migratekit/migrator/migrate/catalog"
	"github.com/migratekit/migrator/migrate/executor"
	"github.com/migratekit/migrator/migrate/history"
	"github.com/migratekit/migrator/migrate/planner"
)

// Exit codes per error family, so scripts can tell a bad invocation from
// a failed migration.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitConfig    = 2
	ExitDiscovery = 3
	ExitPlanner   = 4
	ExitExecution = 5
	ExitLedger    = 6
)

// ExitCode maps err to the exit status family it belongs to.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		unresolved *config.UnresolvedError
		duplicate  *catalog.DuplicateVersionError
		incomplete *catalog.IncompleteMigrationError
		orphaned   *planner.OrphanedLedgerEntryError
		failed     *executor.MigrationFailedError
		already    *history.AlreadyAppliedError
		notApplied *history.NotAppliedError
	)

	switch {
	case errors.As(err, &unresolved):
		return ExitConfig
	case errors.As(err, &duplicate),
		errors.As(err, &incomplete),
		errors.Is(err, catalog.ErrDirectoryNotFound),
		catalog.IsParseError(err):
		return ExitDiscovery
	case errors.As(err, &orphaned):
		return ExitPlanner
	case errors.As(err, &already), errors.As(err, &notApplied):
		return ExitLedger
	case errors.As(err, &failed):
		return ExitExecution
	default:
		return ExitFailure
	}
}
