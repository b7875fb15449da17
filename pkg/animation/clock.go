// Package animation provides the time source and interpolation helpers used
// when playing animated emoji.
//
// Playback timestamps are monotonic, process-relative milliseconds rather
// than wall-clock values. Zero is reserved to mean "no timestamp", so
// [Millis] never returns it.
package animation

import (
	"sync"
	"time"
)

// Clock provides time for animations. The default implementation uses
// system time. Tests can inject a fake clock via SetClock to control
// animation timing deterministically.
type Clock interface {
	Now() time.Time
}

// realClock uses system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

var (
	clockMu sync.RWMutex
	// clock is the package-level time source, replaceable for testing.
	clock Clock = realClock{}
	epoch       = time.Now()
)

// SetClock replaces the animation clock. Returns the previous clock
// so callers can restore it during cleanup.
//
// The millisecond epoch is reset to the new clock's current time.
func SetClock(c Clock) Clock {
	clockMu.Lock()
	defer clockMu.Unlock()
	prev := clock
	clock = c
	epoch = c.Now()
	return prev
}

// Now returns the current time from the active clock.
func Now() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock.Now()
}

// Millis returns the milliseconds elapsed since the clock epoch, plus one.
func Millis() int64 {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock.Now().Sub(epoch).Milliseconds() + 1
}
