// ABOUTME: Clock abstraction over time.AfterFunc so debounce timing can be driven by tests.
// ABOUTME: RealClock is the production clock; Timer mirrors the Stop contract of *time.Timer.

package debounce

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already ran
	// or was already stopped.
	Stop() bool
}

// Clock schedules deferred callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// RealClock schedules callbacks with time.AfterFunc.
type RealClock struct{}

// AfterFunc runs f in its own goroutine after d.
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Now returns the wall-clock time.
func (RealClock) Now() time.Time {
	return time.Now()
}
