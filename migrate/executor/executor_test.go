package executor

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/migratekit/migrator/migrate/catalog"
	"github.com/migratekit/migrator/migrate/history"
	"github.com/migratekit/migrator/migrate/planner"
)

func setupExecutor(t *testing.T) (*Executor, *history.Store, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store := history.NewStore(db)
	require.NoError(t, store.EnsureSchema(context.Background()))
	return New(db, store), store, db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}

var testDefs = []catalog.Definition{
	{
		Version: 1,
		Name:    "create_users",
		UpSQL:   "CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT);",
		DownSQL: "DROP TABLE users;",
	},
	{
		Version: 2,
		Name:    "create_posts",
		UpSQL:   "CREATE TABLE posts (id INTEGER PRIMARY KEY, author INTEGER);",
		DownSQL: "DROP TABLE posts;",
	},
}

func TestExecuteUpPlan(t *testing.T) {
	exec, store, db := setupExecutor(t)
	ctx := context.Background()

	report, err := exec.Execute(ctx, &planner.Plan{Direction: planner.Up, Migrations: testDefs})
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, report.Versions)
	require.True(t, tableExists(t, db, "users"))
	require.True(t, tableExists(t, db, "posts"))

	entries, err := store.AppliedEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, history.Checksum(testDefs[0].UpSQL), entries[0].Checksum)
}

func TestExecuteDownPlan(t *testing.T) {
	exec, store, db := setupExecutor(t)
	ctx := context.Background()

	_, err := exec.Execute(ctx, &planner.Plan{Direction: planner.Up, Migrations: testDefs})
	require.NoError(t, err)

	down := []catalog.Definition{testDefs[1], testDefs[0]}
	report, err := exec.Execute(ctx, &planner.Plan{Direction: planner.Down, Migrations: down})
	require.NoError(t, err)
	require.Equal(t, []int64{2, 1}, report.Versions)
	require.False(t, tableExists(t, db, "users"))
	require.False(t, tableExists(t, db, "posts"))

	entries, err := store.AppliedEntries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestExecuteMultiStatementScript(t *testing.T) {
	exec, _, db := setupExecutor(t)

	defs := []catalog.Definition{{
		Version: 1,
		Name:    "seed",
		UpSQL: `CREATE TABLE settings (key TEXT, value TEXT);
			INSERT INTO settings VALUES ('a', '1');
			INSERT INTO settings VALUES ('b', '2');`,
		DownSQL: "DROP TABLE settings;",
	}}

	_, err := exec.Execute(context.Background(), &planner.Plan{Direction: planner.Up, Migrations: defs})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM settings").Scan(&count))
	require.Equal(t, 2, count)
}

func TestExecuteFailureRollsBackAndStops(t *testing.T) {
	exec, store, db := setupExecutor(t)
	ctx := context.Background()

	defs := []catalog.Definition{
		testDefs[0],
		{
			Version: 2,
			Name:    "broken",
			// The first statement succeeds, the second is a syntax error;
			// neither may persist.
			UpSQL:   "CREATE TABLE broken (id INTEGER); THIS IS NOT SQL;",
			DownSQL: "DROP TABLE broken;",
		},
		testDefs[1],
	}

	report, err := exec.Execute(ctx, &planner.Plan{Direction: planner.Up, Migrations: defs})

	var failed *MigrationFailedError
	require.ErrorAs(t, err, &failed)
	require.Equal(t, int64(2), failed.Version)
	require.Equal(t, []int64{1}, failed.Completed)
	require.Equal(t, []int64{1}, report.Versions)

	// The failing migration left nothing behind and the plan stopped.
	require.True(t, tableExists(t, db, "users"))
	require.False(t, tableExists(t, db, "broken"))
	require.False(t, tableExists(t, db, "posts"))

	entries, err := store.AppliedEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(1), entries[0].Version)
}

func TestExecuteEmptyPlan(t *testing.T) {
	exec, _, _ := setupExecutor(t)

	report, err := exec.Execute(context.Background(), &planner.Plan{Direction: planner.Up})
	require.NoError(t, err)
	require.Empty(t, report.Versions)
}

func TestExecuteStopsBetweenMigrationsOnCancel(t *testing.T) {
	exec, store, _ := setupExecutor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := exec.Execute(ctx, &planner.Plan{Direction: planner.Up, Migrations: testDefs})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, report.Versions)

	entries, err := store.AppliedEntries(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}
