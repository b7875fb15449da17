package platform

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Pool runs background tasks with bounded concurrency.
type Pool struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewPool creates a pool running at most workers tasks at once.
// Values below one are treated as one.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(workers))}
}

// Go runs task on a new goroutine once a worker slot is free.
// Go never blocks the caller.
func (p *Pool) Go(task func()) {
	if task == nil {
		return
	}
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := p.sem.Acquire(context.Background(), 1); err != nil {
			return
		}
		defer p.sem.Release(1)
		task()
	}()
}

// Wait blocks until every task started with Go has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Async runs background tasks. A nil Async runs each task on its own
// goroutine.
type Async interface {
	Go(task func())
}

type goAsync struct{}

func (goAsync) Go(task func()) { go task() }

// OrGo returns a, or an unbounded goroutine runner when a is nil.
func OrGo(a Async) Async {
	if a == nil {
		return goAsync{}
	}
	return a
}
