package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsParsesEmbeddedSet(t *testing.T) {
	set, err := loadMigrations(migrationFS)
	require.NoError(t, err)
	require.NotEmpty(t, set)

	assert.Equal(t, 1, set[0].Version)
	assert.Equal(t, "init_schema", set[0].Name)
	assert.Contains(t, set[0].UpScript, "CREATE TABLE")
	assert.Contains(t, set[0].DownScript, "DROP TABLE")
}

func TestLoadMigrationsOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/000002_second.up.sql":   {Data: []byte("SELECT 2;")},
		"migrations/000002_second.down.sql": {Data: []byte("SELECT 2;")},
		"migrations/000001_first.up.sql":    {Data: []byte("SELECT 1;")},
		"migrations/000001_first.down.sql":  {Data: []byte("SELECT 1;")},
	}

	set, err := loadMigrations(fsys)
	require.NoError(t, err)
	require.Len(t, set, 2)
	assert.Equal(t, "first", set[0].Name)
	assert.Equal(t, "second", set[1].Name)
}

func TestLoadMigrationsRejectsMissingDownScript(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/000001_orphan.up.sql": {Data: []byte("SELECT 1;")},
	}

	_, err := loadMigrations(fsys)
	require.Error(t, err)
}

func TestRunMigrationSetAppliesEachVersionOnce(t *testing.T) {
	db, err := OpenEphemeral()
	require.NoError(t, err)
	ctx := context.Background()

	set := []Migration{{
		Version:    1,
		Name:       "widgets",
		UpScript:   "CREATE TABLE widgets (id INTEGER PRIMARY KEY, label TEXT NOT NULL)",
		DownScript: "DROP TABLE widgets",
	}}

	require.NoError(t, runMigrationSet(ctx, db, set))
	require.NoError(t, db.Exec("INSERT INTO widgets (label) VALUES ('a')").Error)

	// A second run must skip the recorded version, else CREATE TABLE fails.
	require.NoError(t, runMigrationSet(ctx, db, set))

	applied, err := appliedVersions(ctx, db)
	require.NoError(t, err)
	assert.True(t, applied[1])
}

func TestRollbackRemovesSchemaAndRecord(t *testing.T) {
	db, err := OpenEphemeral()
	require.NoError(t, err)
	ctx := context.Background()

	set := []Migration{{
		Version:    1,
		Name:       "widgets",
		UpScript:   "CREATE TABLE widgets (id INTEGER PRIMARY KEY, label TEXT NOT NULL)",
		DownScript: "DROP TABLE widgets",
	}}
	require.NoError(t, runMigrationSet(ctx, db, set))

	require.NoError(t, rollbackFromSet(ctx, db, set, 1))

	assert.Error(t, db.Exec("INSERT INTO widgets (label) VALUES ('a')").Error)

	applied, err := appliedVersions(ctx, db)
	require.NoError(t, err)
	assert.False(t, applied[1])

	// Rolling back a migration that is no longer applied is an error.
	require.Error(t, rollbackFromSet(ctx, db, set, 1))
}
