// Package workerpool runs background jobs on a fixed number of goroutines
// with a bounded backlog.
//
//	pool := workerpool.New("mail", 2, 64)
//	defer pool.Close(ctx)
//
//	if err := pool.Submit(func(ctx context.Context) error { ... }); errors.Is(err, workerpool.ErrFull) {
//	    // backlog exhausted; do the work inline or drop it
//	}
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/backoffice/pkg/logger"
)

var (
	// ErrFull is returned by Submit when the backlog is at capacity.
	ErrFull = errors.New("workerpool: backlog full")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("workerpool: closed")
)

// Job is one unit of work. ctx is cancelled when Close gives up waiting.
type Job func(ctx context.Context) error

// Pool executes submitted jobs in the background.
type Pool struct {
	name string
	jobs chan Job
	wg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool

	ctx    context.Context
	cancel context.CancelFunc
}

// New starts workers goroutines that share a backlog of size backlog.
func New(name string, workers, backlog int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if backlog < 0 {
		backlog = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{name: name, jobs: make(chan Job, backlog), ctx: ctx, cancel: cancel}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

// Submit queues job without blocking.
func (p *Pool) Submit(job Job) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.jobs <- job:
		return nil
	default:
		return ErrFull
	}
}

// Close stops accepting jobs and waits for the backlog to drain. When ctx
// ends first the running jobs are cancelled and ctx.Err() is returned.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		return ctx.Err()
	}
}

func (p *Pool) work() {
	defer p.wg.Done()
	for job := range p.jobs {
		if err := p.run(job); err != nil {
			logger.Error("background job failed", "pool", p.name, "error", err)
		}
	}
}

func (p *Pool) run(job Job) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return job(p.ctx)
}
