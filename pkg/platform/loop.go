package platform

import (
	"context"
	"sync"
)

// Loop is a serial callback queue acting as the UI-affine context for hosts
// that do not have one of their own, such as the command line tool.
//
// Post may be called from any goroutine. Callbacks run one at a time on the
// goroutine calling Run or Drain, in posting order.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post enqueues callback. Nil callbacks are ignored.
func (l *Loop) Post(callback func()) {
	if callback == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, callback)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Drain runs queued callbacks, including ones posted while draining, until
// the queue is empty. It returns the number of callbacks run.
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return ran
		}
		next := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		next()
		ran++
	}
}

// Run processes callbacks until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// RunUntil processes callbacks until done returns true or ctx is done.
// done is evaluated on the loop goroutine after every drain.
func (l *Loop) RunUntil(ctx context.Context, done func() bool) error {
	for {
		l.Drain()
		if done() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}
