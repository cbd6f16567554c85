//go:build integration

package database_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestMigratorPostgres(t *testing.T) {
	db, err := sql.Open("postgres", testhelpers.StartPostgres(t))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()
	m := database.NewMigrator(db, "../../migrations")

	applied, err := m.Up(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	applied, err = m.Up(ctx)
	require.NoError(t, err)
	assert.Zero(t, applied)

	var exists bool
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'recipe_ingredients')").Scan(&exists))
	assert.True(t, exists)

	name, err := m.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0001_init.sql", name)

	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'recipe_ingredients')").Scan(&exists))
	assert.False(t, exists)
}
