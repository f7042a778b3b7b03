// Package schedule provides the single-threaded callback scheduling the
// trial loop runs on. Every callback handed to a scheduler runs on one
// goroutine, one at a time, so the state it touches needs no locking.
package schedule

import (
	"time"
)

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs f once after d on the scheduler's goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Poster enqueues f to run on the scheduler's goroutine as soon as possible.
// Front ends use it to hand input events to the trial loop.
type Poster interface {
	Post(f func()) bool
}
