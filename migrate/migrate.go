// Package migrate implements the sqlite migration engine: it discovers
// migration files, compares them against the applied-migrations ledger in
// the target database, computes the minimal ordered plan for a requested
// up/down transition, and executes it transactionally.
package migrate

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/afero"

	"github.com/migratekit/migrator/internal/debug"
	"github.com/migratekit/migrator/migrate/catalog"
	"github.com/migratekit/migrator/migrate/executor"
	"github.com/migratekit/migrator/migrate/history"
	"github.com/migratekit/migrator/migrate/planner"
)

// Options are the resolved inputs for one engine invocation. They arrive
// pre-resolved from flags, environment variables, or the config file; the
// engine never parses CLI syntax itself.
type Options struct {
	SourceDir    string
	DatabasePath string
	Direction    planner.Direction
	Steps        int // zero means no limit
}

// Report is the outcome of one invocation: the versions applied or
// reverted in execution order, plus any directory entries skipped during
// discovery.
type Report struct {
	Direction planner.Direction
	Versions  []int64
	Skipped   []string
}

// Engine wires discovery, planning, and execution for one invocation at a
// time. Every run re-discovers the catalog and re-reads the ledger fresh.
type Engine struct {
	fs afero.Fs
}

// New creates an engine reading migration files from fs.
func New(fs afero.Fs) *Engine {
	return &Engine{fs: fs}
}

// Run performs one migration run: discover catalog, ensure ledger schema,
// read ledger, plan, execute, report. The first failing step is terminal;
// nothing is retried.
//
// On execution failure the returned report still lists the migrations
// that committed before the failure.
func (e *Engine) Run(ctx context.Context, opts Options) (*Report, error) {
	discovery, err := catalog.NewRepository(e.fs).Discover(opts.SourceDir)
	if err != nil {
		return nil, err
	}
	debug.Debug("catalog discovered", "migrations", len(discovery.Catalog), "skipped", len(discovery.Skipped))

	db, err := openDatabase(ctx, opts.DatabasePath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ledger := history.NewStore(db)
	if err := ledger.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	applied, err := ledger.AppliedEntries(ctx)
	if err != nil {
		return nil, err
	}
	debug.Debug("ledger read", "applied", len(applied))

	plan, err := planner.Compute(discovery.Catalog, applied, opts.Direction, opts.Steps)
	if err != nil {
		return nil, err
	}
	debug.Debug("plan computed", "direction", plan.Direction.String(), "migrations", len(plan.Migrations))

	result, err := executor.New(db, ledger).Execute(ctx, plan)
	report := &Report{Direction: opts.Direction, Skipped: discovery.Skipped}
	if result != nil {
		report.Versions = result.Versions
	}
	return report, err
}

// openDatabase opens the target sqlite database file, creating it when
// absent. The connection is held exclusively for the invocation: one
// connection, no pooling, so migrations execute one transaction at a time.
func openDatabase(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}
	return db, nil
}
