// Package scheduler runs deferred presentation steps one at a time and lets callers invalidate
// every step scheduled under an older generation.
package scheduler

import (
	"sync"
	"time"
)

// Generation identifies one animate/reset cycle. Steps scheduled under an older generation never run.
type Generation uint64

// Counter hands out monotonically increasing generations.
type Counter struct {
	mu      sync.Mutex
	current Generation
}

// Advance starts a new generation and returns it.
func (c *Counter) Advance() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current++
	return c.current
}

func (c *Counter) Current() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// IsCurrent reports whether gen is still the latest generation.
func (c *Counter) IsCurrent(gen Generation) bool {
	return c.Current() == gen
}

// CancelToken stops a scheduled step. Cancel is idempotent and safe on a zero token.
type CancelToken struct {
	cancel func()
}

func (t CancelToken) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}

// Scheduler runs step after delay unless gen is stale by then or the returned token is cancelled.
type Scheduler interface {
	ScheduleStep(gen Generation, delay time.Duration, step func()) CancelToken
}

// Timer schedules steps on wall-clock timers and funnels them into a Loop.
type Timer struct {
	loop       *Loop
	generation *Counter
}

func NewTimer(loop *Loop, generation *Counter) *Timer {
	return &Timer{loop: loop, generation: generation}
}

func (t *Timer) ScheduleStep(gen Generation, delay time.Duration, step func()) CancelToken {
	var (
		mu        sync.Mutex
		cancelled bool
	)

	run := func() {
		mu.Lock()
		stop := cancelled
		mu.Unlock()
		if stop || !t.generation.IsCurrent(gen) {
			return
		}
		step()
	}

	timer := time.AfterFunc(delay, func() {
		t.loop.Post(run)
	})

	return CancelToken{cancel: func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
		timer.Stop()
	}}
}
