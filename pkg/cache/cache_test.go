package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
}

func TestMemorySetGetDel(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "k", payload{UserID: 7, Name: "alice"}, time.Minute))

	var got payload
	found, err := m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{UserID: 7, Name: "alice"}, got)

	require.NoError(t, m.Del(ctx, "k"))
	found, err = m.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "short", "v", time.Second))
	require.NoError(t, m.Set(ctx, "forever", "v", 0))

	now = now.Add(2 * time.Second)

	var s string
	found, err := m.Get(ctx, "short", &s)
	require.NoError(t, err)
	assert.False(t, found, "entry past its TTL is a miss")

	found, err = m.Get(ctx, "forever", &s)
	require.NoError(t, err)
	assert.True(t, found, "zero TTL never expires")
}

func TestMemoryDecodeError(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "k", "a string", 0))

	var n int
	_, err := m.Get(ctx, "k", &n)
	assert.Error(t, err)
}
