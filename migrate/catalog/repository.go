package catalog

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Repository scans a source directory and builds migration catalogs. All
// filesystem access goes through the injected afero filesystem.
type Repository struct {
	fs afero.Fs
}

// NewRepository creates a repository reading from fs.
func NewRepository(fs afero.Fs) *Repository {
	return &Repository{fs: fs}
}

// Discovery is the result of one discovery pass: the ordered catalog plus
// the directory entries that were skipped because they are not migration
// files.
type Discovery struct {
	Catalog Catalog
	Skipped []string
}

// pairing collects the two sides of a migration while the directory is
// being scanned.
type pairing struct {
	name     string
	upFile   string
	downFile string
	upSQL    string
	downSQL  string
}

// Discover lists sourceDir, parses every migration file, pairs up/down
// counterparts by version, and returns the catalog sorted ascending by
// version.
//
// Entries without a .sql extension (and subdirectories) are skipped and
// reported in Discovery.Skipped. Files with a .sql extension that do not
// follow the naming convention are a fatal error: they were authored as
// migration-directory entries, so silently ignoring them would hide
// mistakes.
func (r *Repository) Discover(sourceDir string) (*Discovery, error) {
	info, err := r.fs.Stat(sourceDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, sourceDir)
	}

	entries, err := afero.ReadDir(r.fs, sourceDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory %s: %w", sourceDir, err)
	}

	pairings := make(map[int64]*pairing)
	var skipped []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			skipped = append(skipped, name)
			continue
		}

		parsed, err := ParseFilename(name)
		if err != nil {
			return nil, err
		}

		sql, err := afero.ReadFile(r.fs, filepath.Join(sourceDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		p, ok := pairings[parsed.Version]
		if !ok {
			p = &pairing{name: parsed.Name}
			pairings[parsed.Version] = p
		}

		if p.name != parsed.Name {
			return nil, &DuplicateVersionError{Version: parsed.Version, File: name, Other: p.claimant()}
		}

		switch parsed.Side {
		case SideUp:
			if p.upFile != "" {
				return nil, &DuplicateVersionError{Version: parsed.Version, File: name, Other: p.upFile}
			}
			p.upFile = name
			p.upSQL = string(sql)
		case SideDown:
			if p.downFile != "" {
				return nil, &DuplicateVersionError{Version: parsed.Version, File: name, Other: p.downFile}
			}
			p.downFile = name
			p.downSQL = string(sql)
		}
	}

	catalog := make(Catalog, 0, len(pairings))
	for version, p := range pairings {
		if p.upFile == "" {
			return nil, &IncompleteMigrationError{Version: version, Name: p.name, Missing: SideUp}
		}
		if p.downFile == "" {
			return nil, &IncompleteMigrationError{Version: version, Name: p.name, Missing: SideDown}
		}
		catalog = append(catalog, Definition{
			Version: version,
			Name:    p.name,
			UpSQL:   p.upSQL,
			DownSQL: p.downSQL,
		})
	}

	sort.Slice(catalog, func(i, j int) bool { return catalog[i].Version < catalog[j].Version })
	sort.Strings(skipped)

	return &Discovery{Catalog: catalog, Skipped: skipped}, nil
}

// claimant names whichever file first claimed this pairing's version.
func (p *pairing) claimant() string {
	if p.upFile != "" {
		return p.upFile
	}
	return p.downFile
}

// IsParseError reports whether err comes from filename parsing rather
// than pairing or filesystem access.
func IsParseError(err error) bool {
	return errors.Is(err, ErrUnrecognizedFormat) || errors.Is(err, ErrInvalidVersion)
}
