package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobsRunAndCloseDrains(t *testing.T) {
	p := New("test", 3, 50)

	var n atomic.Int64
	for i := 0; i < 50; i++ {
		require.NoError(t, p.Submit(func(context.Context) error {
			n.Add(1)
			return nil
		}))
	}

	require.NoError(t, p.Close(context.Background()))
	assert.EqualValues(t, 50, n.Load())
	assert.ErrorIs(t, p.Submit(func(context.Context) error { return nil }), ErrClosed)
	assert.NoError(t, p.Close(context.Background()), "closing twice")
}

func TestSubmitReportsFullBacklog(t *testing.T) {
	p := New("test", 1, 1)
	release := make(chan struct{})
	started := make(chan struct{})

	require.NoError(t, p.Submit(func(context.Context) error {
		close(started)
		<-release
		return nil
	}))
	<-started
	require.NoError(t, p.Submit(func(context.Context) error { return nil }))
	assert.ErrorIs(t, p.Submit(func(context.Context) error { return nil }), ErrFull)

	close(release)
	require.NoError(t, p.Close(context.Background()))
}

func TestFailuresAndPanicsKeepWorkersAlive(t *testing.T) {
	p := New("test", 1, 4)

	var ran atomic.Bool
	require.NoError(t, p.Submit(func(context.Context) error { panic("boom") }))
	require.NoError(t, p.Submit(func(context.Context) error { return errors.New("smtp down") }))
	require.NoError(t, p.Submit(func(context.Context) error {
		ran.Store(true)
		return nil
	}))

	require.NoError(t, p.Close(context.Background()))
	assert.True(t, ran.Load())
}

func TestCloseDeadlineCancelsRunningJobs(t *testing.T) {
	p := New("test", 1, 0)
	started := make(chan struct{})
	require.Eventually(t, func() bool {
		return p.Submit(func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}) == nil
	}, time.Second, time.Millisecond)
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, p.Close(ctx), context.DeadlineExceeded)
}
