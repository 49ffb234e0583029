// Package config resolves the migration source directory and database
// path from flags, environment variables, and the optional
// .migrate-config.yaml file, in that order of precedence.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used by the CLI. Tests swap it for an in-memory
// filesystem.
var AppFs = afero.NewOsFs()

const (
	configName = ".migrate-config"

	// EnvSourceDir overrides the migration source directory.
	EnvSourceDir = "MIGRATION_DIR"
	// EnvDatabasePath overrides the database path.
	EnvDatabasePath = "DATABASE_PATH"
)

// Resolved holds the two paths every command needs, fully resolved.
type Resolved struct {
	SourceDir    string
	DatabasePath string
}

// UnresolvedError indicates a required setting that no flag, environment
// variable, or config file provided.
type UnresolvedError struct {
	Setting string
	Flag    string
	Env     string
	Key     string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s not set: use %s, the %s environment variable, or %s in %s.yaml",
		e.Setting, e.Flag, e.Env, e.Key, configName)
}

// Resolve applies the flag > environment > config file precedence for one
// setting. Pure; the empty string marks an absent value.
func Resolve(flagValue, envValue, fileValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue != "" {
		return envValue
	}
	return fileValue
}

// Load resolves both settings, failing on whichever is missing first.
func Load(flagSource, flagDatabase string) (*Resolved, error) {
	source, database := resolveAll(flagSource, flagDatabase)
	if source == "" {
		return nil, &UnresolvedError{Setting: "migration source directory", Flag: "--source", Env: EnvSourceDir, Key: "source_path"}
	}
	if database == "" {
		return nil, &UnresolvedError{Setting: "database path", Flag: "--database", Env: EnvDatabasePath, Key: "database_path"}
	}
	return &Resolved{SourceDir: source, DatabasePath: database}, nil
}

// LoadSource resolves only the source directory, for commands that never
// touch the database.
func LoadSource(flagSource string) (string, error) {
	source, _ := resolveAll(flagSource, "")
	if source == "" {
		return "", &UnresolvedError{Setting: "migration source directory", Flag: "--source", Env: EnvSourceDir, Key: "source_path"}
	}
	return source, nil
}

func resolveAll(flagSource, flagDatabase string) (source, database string) {
	// Load .env if present; ignore failures, the file is optional.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	v := viper.New()
	v.SetFs(AppFs)
	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}
	_ = v.ReadInConfig()

	source = Resolve(flagSource, os.Getenv(EnvSourceDir), v.GetString("source_path"))
	database = Resolve(flagDatabase, os.Getenv(EnvDatabasePath), v.GetString("database_path"))
	return source, database
}
