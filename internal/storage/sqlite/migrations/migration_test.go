package migrations

import (
	"database/sql"
	"path/filepath"
	"testing"

	"task-manager/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i, migration := range migrations {
		logging.Debugf("migration %d\n", migration.Version)
		assert.NotEmpty(t, migration.Up)
		assert.NotEmpty(t, migration.Down)
		if i > 0 {
			assert.Greater(t, migration.Version, migrations[i-1].Version)
		}
	}
	assert.Equal(t, 1, migrations[0].Version)
}

func TestRunMigrations_CreatesKVStore(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))

	_, err = db.Exec(`INSERT INTO kv_store (key, value, updated_at) VALUES ('k', 'v', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	versions, err := AppliedVersions(db)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, versions)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(db))
	_, err = db.Exec(`INSERT INTO kv_store (key, value, updated_at) VALUES ('k', 'v', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, RunMigrations(db))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM kv_store").Scan(&count))
	assert.Equal(t, 1, count, "re-running migrations must keep existing data")
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		filename string
		expected int
	}{
		{"000001_create_kv_store.up.sql", 1},
		{"000042_anything.up.sql", 42},
		{"readme.sql", 0},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractVersion(tt.filename))
		})
	}
}
