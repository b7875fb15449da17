package testing

import (
	"sync"

	"github.com/go-drift/emojicache/pkg/platform"
)

// ManualAsync queues background tasks until the test runs them.
type ManualAsync struct {
	mu    sync.Mutex
	tasks []func()
}

func NewManualAsync() *ManualAsync {
	return &ManualAsync{}
}

// Go queues task.
func (a *ManualAsync) Go(task func()) {
	a.mu.Lock()
	a.tasks = append(a.tasks, task)
	a.mu.Unlock()
}

// Pending returns the number of queued tasks.
func (a *ManualAsync) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.tasks)
}

// RunOne runs the oldest queued task on the calling goroutine. It returns
// false when nothing was queued.
func (a *ManualAsync) RunOne() bool {
	a.mu.Lock()
	if len(a.tasks) == 0 {
		a.mu.Unlock()
		return false
	}
	task := a.tasks[0]
	a.tasks = a.tasks[1:]
	a.mu.Unlock()
	task()
	return true
}

// RunAll runs queued tasks, including ones queued meanwhile, until none is
// left. It returns the number of tasks run.
func (a *ManualAsync) RunAll() int {
	n := 0
	for a.RunOne() {
		n++
	}
	return n
}

// Pump alternates between background tasks and loop callbacks until both
// are idle.
func Pump(async *ManualAsync, loop *platform.Loop) {
	for {
		ran := async.RunAll()
		ran += loop.Drain()
		if ran == 0 {
			return
		}
	}
}
