package migrate

import (
	"context"

	"github.com/migratekit/migrator/migrate/catalog"
	"github.com/migratekit/migrator/migrate/history"
)

// Status describes the database's migration state relative to the current
// catalog.
type Status struct {
	Applied  []history.Entry
	Pending  []catalog.Definition
	Drifted  []int64 // applied versions whose up script changed since apply
	Orphaned []int64 // applied versions with no catalog entry
	Skipped  []string
}

// Status reports applied and pending migrations without mutating the
// database beyond creating the ledger table on first contact. Unlike
// planning, it surfaces orphaned ledger entries in the report instead of
// failing, so the command stays usable for diagnosing exactly that state.
func (e *Engine) Status(ctx context.Context, opts Options) (*Status, error) {
	discovery, err := catalog.NewRepository(e.fs).Discover(opts.SourceDir)
	if err != nil {
		return nil, err
	}

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

	status := &Status{Applied: applied, Skipped: discovery.Skipped}
	appliedSet := make(map[int64]bool, len(applied))

	for _, entry := range applied {
		appliedSet[entry.Version] = true
		def, ok := discovery.Catalog.Lookup(entry.Version)
		if !ok {
			status.Orphaned = append(status.Orphaned, entry.Version)
			continue
		}
		if history.Checksum(def.UpSQL) != entry.Checksum {
			status.Drifted = append(status.Drifted, entry.Version)
		}
	}

	for _, def := range discovery.Catalog {
		if !appliedSet[def.Version] {
			status.Pending = append(status.Pending, def)
		}
	}

	return status, nil
}
