// Package scaffold creates new migration file pairs in the source
// directory.
package scaffold

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/migratekit/migrator/migrate/catalog"
)

// ErrInvalidName indicates a migration name that is empty or carries
// characters outside [A-Za-z0-9_-] after normalization.
var ErrInvalidName = errors.New("invalid migration name")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Files are the paths of a freshly scaffolded up/down pair.
type Files struct {
	UpPath   string
	DownPath string
}

// Create writes an empty up/down script pair for the next free version in
// sourceDir, creating the directory when absent. The version is one past
// the highest version currently present; hyphens and spaces in name are
// normalized to underscores.
func Create(fs afero.Fs, sourceDir, name string) (*Files, error) {
	cleaned := strings.TrimRight(strings.NewReplacer("-", "_", " ", "_").Replace(name), "_")
	if !namePattern.MatchString(cleaned) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if err := fs.MkdirAll(sourceDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migration directory %s: %w", sourceDir, err)
	}

	version, err := nextVersion(fs, sourceDir)
	if err != nil {
		return nil, err
	}

	stem := fmt.Sprintf("%04d_%s", version, cleaned)
	files := &Files{
		UpPath:   filepath.Join(sourceDir, stem+".up.sql"),
		DownPath: filepath.Join(sourceDir, stem+".down.sql"),
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	upHeader := fmt.Sprintf("-- Up migration %s generated at %s.\n", stem, now)
	downHeader := fmt.Sprintf("-- Down migration %s generated at %s.\n", stem, now)

	if err := afero.WriteFile(fs, files.UpPath, []byte(upHeader), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", files.UpPath, err)
	}
	if err := afero.WriteFile(fs, files.DownPath, []byte(downHeader), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", files.DownPath, err)
	}

	return files, nil
}

// nextVersion scans sourceDir for existing migration files and returns
// one past the highest version found. Entries that do not parse as
// migration files are ignored here; discovery is where they get reported.
func nextVersion(fs afero.Fs, sourceDir string) (int64, error) {
	entries, err := afero.ReadDir(fs, sourceDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migration directory %s: %w", sourceDir, err)
	}

	var max int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		parsed, err := catalog.ParseFilename(entry.Name())
		if err != nil {
			continue
		}
		if parsed.Version > max {
			max = parsed.Version
		}
	}
	return max + 1, nil
}
