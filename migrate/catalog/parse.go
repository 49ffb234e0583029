package catalog

import (
	"fmt"
	"regexp"
	"strconv"
)

// Side identifies which script variant of a migration a file carries.
type Side int

const (
	// SideUp is the forward script of a migration.
	SideUp Side = iota
	// SideDown is the reverting script of a migration.
	SideDown
)

func (s Side) String() string {
	if s == SideDown {
		return "down"
	}
	return "up"
}

// filePattern matches {version}_{name}.up.sql and {version}_{name}.down.sql.
// The version segment must be numeric; the name may contain letters,
// digits, underscores, and hyphens.
var filePattern = regexp.MustCompile(`^(\d+)_([A-Za-z0-9_-]+)\.(up|down)\.sql$`)

// ParsedFile is the version/name/side fragment extracted from a migration
// filename.
type ParsedFile struct {
	Version int64
	Name    string
	Side    Side
}

// ParseFilename parses a migration filename into its version, name, and
// side. It is a pure function: no filesystem or database access.
//
// Filenames that do not match the naming convention fail with
// ErrUnrecognizedFormat. A matching filename whose version segment is zero
// or overflows fails with ErrInvalidVersion.
func ParseFilename(filename string) (ParsedFile, error) {
	matches := filePattern.FindStringSubmatch(filename)
	if matches == nil {
		return ParsedFile{}, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, filename)
	}

	version, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return ParsedFile{}, fmt.Errorf("%w: %q: %v", ErrInvalidVersion, filename, err)
	}
	if version == 0 {
		return ParsedFile{}, fmt.Errorf("%w: %q: version must be positive", ErrInvalidVersion, filename)
	}

	side := SideUp
	if matches[3] == "down" {
		side = SideDown
	}

	return ParsedFile{Version: version, Name: matches[2], Side: side}, nil
}
