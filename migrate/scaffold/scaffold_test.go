package scaffold

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestCreateFirstMigration(t *testing.T) {
	fs := afero.NewMemMapFs()

	files, err := Create(fs, "migrations", "create_users")
	require.NoError(t, err)
	require.Equal(t, "migrations/0001_create_users.up.sql", files.UpPath)
	require.Equal(t, "migrations/0001_create_users.down.sql", files.DownPath)

	up, err := afero.ReadFile(fs, files.UpPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(up), "-- Up migration 0001_create_users generated at "))

	down, err := afero.ReadFile(fs, files.DownPath)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(down), "-- Down migration 0001_create_users generated at "))
}

func TestCreateIncrementsVersion(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "migrations/0007_old.up.sql", []byte("SELECT 1;"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "migrations/0007_old.down.sql", []byte("SELECT 1;"), 0o644))

	files, err := Create(fs, "migrations", "next")
	require.NoError(t, err)
	require.Equal(t, "migrations/0008_next.up.sql", files.UpPath)
}

func TestCreateNormalizesName(t *testing.T) {
	fs := afero.NewMemMapFs()

	files, err := Create(fs, "migrations", "add users-table ")
	require.NoError(t, err)
	require.Equal(t, "migrations/0001_add_users_table.up.sql", files.UpPath)
}

func TestCreateRejectsInvalidName(t *testing.T) {
	fs := afero.NewMemMapFs()

	_, err := Create(fs, "migrations", "bad/name")
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = Create(fs, "migrations", "---")
	require.ErrorIs(t, err, ErrInvalidName)
}

func TestCreateIgnoresForeignFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "migrations/README.md", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "migrations/0002_a.up.sql", []byte("SELECT 1;"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "migrations/0002_a.down.sql", []byte("SELECT 1;"), 0o644))

	files, err := Create(fs, "migrations", "b")
	require.NoError(t, err)
	require.Equal(t, "migrations/0003_b.up.sql", files.UpPath)
}
