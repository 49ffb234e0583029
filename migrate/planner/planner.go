// Package planner computes execution plans from the migration catalog and
// the ledger's current state. Planning is pure: the plan is a
// deterministic function of (catalog, applied entries, direction, steps)
// with no hidden state and no I/O.
package planner

import (
	"fmt"
	"sort"

	"github.com/migratekit/migrator/migrate/catalog"
	"github.com/migratekit/migrator/migrate/history"
)

// Direction selects which script variant executes and which ledger
// operation follows success.
type Direction int

const (
	// Up applies pending migrations in ascending version order.
	Up Direction = iota
	// Down reverts applied migrations, most recently applied first.
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// Plan is the ordered subset of the catalog selected for execution in one
// invocation. Computed fresh per invocation; never persisted.
type Plan struct {
	Direction  Direction
	Migrations []catalog.Definition
}

// IsEmpty reports whether the plan selects no migrations. An empty plan is
// a valid, successful outcome, not an error.
func (p *Plan) IsEmpty() bool {
	return len(p.Migrations) == 0
}

// Versions returns the planned versions in execution order.
func (p *Plan) Versions() []int64 {
	versions := make([]int64, len(p.Migrations))
	for i, def := range p.Migrations {
		versions[i] = def.Version
	}
	return versions
}

// OrphanedLedgerEntryError indicates an applied version with no matching
// catalog entry. The ledger must always be a subset of the catalog: an
// orphan means the script needed to revert that version is gone, so the
// inconsistency is surfaced rather than silently skipped.
type OrphanedLedgerEntryError struct {
	Version int64
}

func (e *OrphanedLedgerEntryError) Error() string {
	return fmt.Sprintf("ledger entry %d has no matching migration file in the source directory", e.Version)
}

// Compute builds the execution plan for direction. steps limits the plan
// to at most that many migrations; zero means no limit.
//
// Up plans take the unapplied catalog entries in ascending version order.
// Down plans take the applied entries in descending apply-sequence order,
// so the most recently applied migration reverts first.
func Compute(cat catalog.Catalog, applied []history.Entry, direction Direction, steps int) (*Plan, error) {
	appliedSet := make(map[int64]bool, len(applied))
	for _, entry := range applied {
		if _, ok := cat.Lookup(entry.Version); !ok {
			return nil, &OrphanedLedgerEntryError{Version: entry.Version}
		}
		appliedSet[entry.Version] = true
	}

	var selected []catalog.Definition

	switch direction {
	case Up:
		for _, def := range cat {
			if !appliedSet[def.Version] {
				selected = append(selected, def)
			}
		}
	case Down:
		ordered := make([]history.Entry, len(applied))
		copy(ordered, applied)
		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].Seq != ordered[j].Seq {
				return ordered[i].Seq > ordered[j].Seq
			}
			return ordered[i].Version > ordered[j].Version
		})
		for _, entry := range ordered {
			def, _ := cat.Lookup(entry.Version)
			selected = append(selected, def)
		}
	}

	if steps > 0 && len(selected) > steps {
		selected = selected[:steps]
	}

	return &Plan{Direction: direction, Migrations: selected}, nil
}
