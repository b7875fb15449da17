// Package platform provides the thread-affinity primitives the emoji
// pipeline relies on: posting callbacks to the UI-affine context and running
// bounded background work.
//
// All emoji state (caches, renderers, instances) is owned by the UI-affine
// context. Background tasks never touch it directly; they post their results
// back through a [Dispatcher].
package platform

import "sync"

// Dispatcher schedules callbacks on the UI-affine context.
type Dispatcher interface {
	Post(callback func())
}

// DispatchFunc adapts a function to the Dispatcher interface.
type DispatchFunc func(callback func())

// Post calls f(callback).
func (f DispatchFunc) Post(callback func()) {
	f(callback)
}

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch sets the dispatch function used to schedule callbacks on the UI thread.
// This should be called once by the host application during initialization.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Dispatch schedules a callback to run on the UI thread.
// Returns true if the callback was successfully scheduled, false if no dispatch function
// is registered or the callback is nil.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

// Global is a Dispatcher backed by the function registered with
// RegisterDispatch. Callbacks posted while nothing is registered are dropped.
var Global Dispatcher = DispatchFunc(func(callback func()) { Dispatch(callback) })

// Or returns d, or Global when d is nil.
func Or(d Dispatcher) Dispatcher {
	if d == nil {
		return Global
	}
	return d
}
