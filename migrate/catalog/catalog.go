// Package catalog discovers migration files in a source directory and
// builds the ordered in-memory catalog consumed by the planner and
// executor. The catalog is rebuilt fresh on every invocation; it is never
// cached across runs.
package catalog

// Definition is a single reversible migration: a version, a display name,
// and the paired up/down SQL scripts. Definitions are built once per
// discovery pass and immutable thereafter.
type Definition struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// Catalog is the full set of discovered migrations, sorted ascending by
// version. Versions are unique within a catalog.
type Catalog []Definition

// Lookup returns the definition for version, if present.
func (c Catalog) Lookup(version int64) (Definition, bool) {
	for _, def := range c {
		if def.Version == version {
			return def, true
		}
	}
	return Definition{}, false
}

// Versions returns the catalog's versions in ascending order.
func (c Catalog) Versions() []int64 {
	versions := make([]int64, len(c))
	for i, def := range c {
		versions[i] = def.Version
	}
	return versions
}
