package migrations_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/todolist/internal/shared/infrastructure/migrations"
)

func TestFiles(t *testing.T) {
	for _, d := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		t.Run(d.String(), func(t *testing.T) {
			files, err := migrations.Files(d)
			require.NoError(t, err)
			assert.Equal(t, []string{"000001_create_tasks.up.sql"}, files)
		})
	}

	t.Run("unknown driver", func(t *testing.T) {
		_, err := migrations.Files(database.DriverMongo)
		assert.Error(t, err)
	})
}

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "migrate.db"),
	})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, migrations.Run(ctx, conn))
	// Idempotent
	require.NoError(t, migrations.Run(ctx, conn))

	var name string
	err = conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'tasks'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "tasks", name)
}
