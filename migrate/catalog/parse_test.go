package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     ParsedFile
	}{
		{"0001_create_users.up.sql", ParsedFile{Version: 1, Name: "create_users", Side: SideUp}},
		{"0001_create_users.down.sql", ParsedFile{Version: 1, Name: "create_users", Side: SideDown}},
		{"3_x.up.sql", ParsedFile{Version: 3, Name: "x", Side: SideUp}},
		{"0042_add-index.down.sql", ParsedFile{Version: 42, Name: "add-index", Side: SideDown}},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := ParseFilename(tt.filename)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilenameUnrecognized(t *testing.T) {
	for _, filename := range []string{
		"create_users.sql",
		"0001_create_users.sql",
		"0001-create-users.up.sql",
		"0001_create_users.up.sql.bak",
		"README.md",
		"_0001_x.up.sql",
	} {
		t.Run(filename, func(t *testing.T) {
			_, err := ParseFilename(filename)
			require.ErrorIs(t, err, ErrUnrecognizedFormat)
		})
	}
}

func TestParseFilenameInvalidVersion(t *testing.T) {
	for _, filename := range []string{
		"0_noop.up.sql",
		"99999999999999999999_overflow.up.sql",
	} {
		t.Run(filename, func(t *testing.T) {
			_, err := ParseFilename(filename)
			require.ErrorIs(t, err, ErrInvalidVersion)
		})
	}
}
