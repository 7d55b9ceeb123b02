package migration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/shashiranjanraj/backoffice/database/migrations"

	"github.com/shashiranjanraj/backoffice/pkg/database"
	"github.com/shashiranjanraj/backoffice/pkg/migration"
)

func TestRunStatusRollback(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared&_foreign_keys=on")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	runner := migration.New(db, nil)

	status, err := runner.Status(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, status)
	for _, s := range status {
		assert.False(t, s.Ran, s.Name)
	}

	require.NoError(t, runner.Run(ctx))
	require.NoError(t, runner.Run(ctx), "a second run has nothing to do")

	status, err = runner.Status(ctx)
	require.NoError(t, err)
	for _, s := range status {
		assert.True(t, s.Ran, s.Name)
		assert.Equal(t, 1, s.Batch, s.Name)
	}
	assert.True(t, db.Migrator().HasTable("orders"))

	require.NoError(t, runner.Rollback(ctx))
	assert.False(t, db.Migrator().HasTable("orders"))
	assert.False(t, db.Migrator().HasTable("customers"))

	status, err = runner.Status(ctx)
	require.NoError(t, err)
	for _, s := range status {
		assert.False(t, s.Ran, s.Name)
	}
}
