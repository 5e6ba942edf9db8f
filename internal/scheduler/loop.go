package scheduler

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopClosed is returned by Run when the loop was closed before the context ended.
var ErrLoopClosed = errors.New("event loop closed")

const defaultQueueSize = 128

// Loop executes posted callbacks one at a time, in the order they were posted.
type Loop struct {
	queue chan func()

	closeOnce sync.Once
	done      chan struct{}
}

func NewLoop(size int) *Loop {
	if size <= 0 {
		size = defaultQueueSize
	}
	return &Loop{
		queue: make(chan func(), size),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. It returns false if the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run drains the queue until ctx is done or Close is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return ErrLoopClosed
		case fn := <-l.queue:
			fn()
		}
	}
}

// Close stops Run and rejects further posts. Pending callbacks are dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)
	})
}
