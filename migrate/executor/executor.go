// Package executor applies execution plans to the target database, one
// transaction per migration.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/migratekit/migrator/migrate/catalog"
	"github.com/migratekit/migrator/migrate/history"
	"github.com/migratekit/migrator/migrate/planner"
)

// Executor runs migration plans over a single open database connection.
type Executor struct {
	db     *sql.DB
	ledger *history.Store
}

// New creates an executor over db, recording ledger updates through store.
func New(db *sql.DB, store *history.Store) *Executor {
	return &Executor{db: db, ledger: store}
}

// Report lists the versions whose transactions committed, in execution
// order. On failure it covers only the migrations that succeeded before
// the failing one.
type Report struct {
	Direction planner.Direction
	Versions  []int64
}

// MigrationFailedError indicates that a migration's script or ledger
// update failed. The migration's transaction was rolled back entirely and
// no later plan entry was executed. Completed lists the versions that
// committed before the failure.
type MigrationFailedError struct {
	Version   int64
	Completed []int64
	Err       error
}

func (e *MigrationFailedError) Error() string {
	return fmt.Sprintf("migration %d failed: %v", e.Version, e.Err)
}

func (e *MigrationFailedError) Unwrap() error {
	return e.Err
}

// Execute runs plan strictly in order: migration N+1 never starts before
// migration N's transaction commits, so the ledger always reflects a
// prefix (up) or suffix-removal (down) of the catalog ordering.
//
// ctx is consulted only between migrations. Once a migration's
// transaction has begun it runs to completion, commit or rollback; an
// interrupt stops scheduling further migrations but never aborts a
// transaction mid-commit.
//
// The returned report is valid even when err is non-nil.
func (e *Executor) Execute(ctx context.Context, plan *planner.Plan) (*Report, error) {
	report := &Report{Direction: plan.Direction}

	for _, def := range plan.Migrations {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("migration run interrupted before version %d: %w", def.Version, err)
		}

		if err := e.executeOne(context.WithoutCancel(ctx), def, plan.Direction); err != nil {
			return report, &MigrationFailedError{
				Version:   def.Version,
				Completed: report.Versions,
				Err:       err,
			}
		}

		report.Versions = append(report.Versions, def.Version)
	}

	return report, nil
}

// executeOne runs a single migration inside its own transaction: script
// body first, ledger update second, then commit. Any failure rolls the
// whole transaction back so no partial effect persists.
func (e *Executor) executeOne(ctx context.Context, def catalog.Definition, direction planner.Direction) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	script := def.UpSQL
	if direction == planner.Down {
		script = def.DownSQL
	}

	// The script body is opaque user SQL: execute it as a whole and let
	// the driver report success or failure.
	if _, err := tx.ExecContext(ctx, script); err != nil {
		tx.Rollback()
		return fmt.Errorf("script execution failed: %w", err)
	}

	switch direction {
	case planner.Up:
		err = e.ledger.RecordApplied(ctx, tx, def.Version, def.Name, history.Checksum(def.UpSQL), time.Now())
	case planner.Down:
		err = e.ledger.RecordReverted(ctx, tx, def.Version)
	}
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
