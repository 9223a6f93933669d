package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var testMigrations = []Migration{
	{Version: 2, Name: "add notes", Up: `ALTER TABLE runs ADD COLUMN notes TEXT`, Down: `ALTER TABLE runs DROP COLUMN notes`},
	{Version: 1, Name: "create runs", Up: `CREATE TABLE runs (id TEXT PRIMARY KEY)`, Down: `DROP TABLE runs`},
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUpAndDown(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := NewMigrator(db, NewStaticProvider("", testMigrations...), nil)

	v, err := m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	applied, err := m.MigrateUp(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)

	_, err = db.Exec(`INSERT INTO runs (id, notes) VALUES ('a', 'first')`)
	require.NoError(t, err)

	applied, err = m.MigrateUp(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	require.NoError(t, m.MigrateDown(ctx, 1))
	v, err = m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	pending, err := m.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 2, pending[0].Version)

	assert.Error(t, m.MigrateDown(ctx, 1))
}

func TestFailedMigrationRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := NewMigrator(db, NewStaticProvider("", Migration{Version: 1, Name: "broken", Up: `CREATE TABLE`}), nil)

	applied, err := m.MigrateUp(ctx)
	assert.Error(t, err)
	assert.Equal(t, 0, applied)

	v, err := m.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestDuplicateVersions(t *testing.T) {
	p := NewStaticProvider("", Migration{Version: 1, Up: "x"}, Migration{Version: 1, Up: "y"})
	_, err := p.GetMigrations()
	assert.Error(t, err)
}
