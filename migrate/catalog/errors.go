package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedFormat indicates a filename that does not follow the
	// {version}_{name}.up.sql / {version}_{name}.down.sql convention.
	ErrUnrecognizedFormat = errors.New("filename does not match migration naming convention")

	// ErrInvalidVersion indicates a version segment that cannot be parsed
	// into a positive integer.
	ErrInvalidVersion = errors.New("invalid migration version")

	// ErrDirectoryNotFound indicates the source path does not exist or is
	// not a directory.
	ErrDirectoryNotFound = errors.New("migration directory not found")
)

// DuplicateVersionError indicates two files in the source directory
// resolved to the same version. Versions must be unique, so this is a
// fatal authoring error.
type DuplicateVersionError struct {
	Version int64
	File    string
	Other   string
}

func (e *DuplicateVersionError) Error() string {
	return fmt.Sprintf("duplicate migration version %d: claimed by both %s and %s", e.Version, e.Other, e.File)
}

// IncompleteMigrationError indicates a version that has only one of its
// up/down scripts. Every migration must be reversible, so a one-sided
// definition is a fatal authoring error.
type IncompleteMigrationError struct {
	Version int64
	Name    string
	Missing Side
}

func (e *IncompleteMigrationError) Error() string {
	return fmt.Sprintf("incomplete migration %d_%s: missing %s script", e.Version, e.Name, e.Missing)
}
