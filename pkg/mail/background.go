package mail

import (
	"context"
	"errors"
	"time"

	"github.com/shashiranjanraj/backoffice/pkg/logger"
	"github.com/shashiranjanraj/backoffice/pkg/reqid"
	"github.com/shashiranjanraj/backoffice/pkg/workerpool"
)

const sendTimeout = 30 * time.Second

// Background hands messages to a worker pool so a slow relay never holds up
// the request that triggered the mail. When the backlog is full the message
// is sent inline instead.
type Background struct {
	next Mailer
	pool *workerpool.Pool
}

// NewBackground wraps next with workers senders.
func NewBackground(next Mailer, workers int) *Background {
	return &Background{next: next, pool: workerpool.New("mail", workers, workers*32)}
}

func (b *Background) Send(ctx context.Context, m Message) error {
	id := reqid.FromCtx(ctx)
	err := b.pool.Submit(func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(reqid.WithValue(ctx, id), sendTimeout)
		defer cancel()
		return b.next.Send(ctx, m)
	})
	if errors.Is(err, workerpool.ErrFull) {
		logger.WithCtx(ctx).Warn("mail backlog full, sending inline")
		return b.next.Send(ctx, m)
	}
	return err
}

// Close waits for queued messages until ctx ends.
func (b *Background) Close(ctx context.Context) error {
	return b.pool.Close(ctx)
}
