package seeders

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/backoffice/app/models"
	"github.com/shashiranjanraj/backoffice/internal/testdb"
)

func TestRunAllIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, RunAll(ctx, db, &out))
	require.NoError(t, RunAll(ctx, db, &out))
	assert.Contains(t, out.String(), "Seeding: catalog")

	count := func(model any) int64 {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 2, count(&models.Group{}))
	assert.EqualValues(t, 3, count(&models.Tag{}))
	assert.EqualValues(t, 4, count(&models.Product{}))
	assert.EqualValues(t, 2, count(&models.Customer{}))
	assert.EqualValues(t, 4, count(&models.Order{}))

	var ball models.Product
	require.NoError(t, db.Preload("Tags").Where("name = ?", "Ball").First(&ball).Error)
	assert.Len(t, ball.Tags, 2)
}
