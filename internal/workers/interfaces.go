package workers

import "time"

// Timer is a pending one-shot callback.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Scheduler is the source of time for background work.
//
// Example implementation:
//
//	type MyScheduler struct{}
//
//	func (MyScheduler) Now() time.Time { return time.Now() }
//	func (MyScheduler) AfterFunc(d time.Duration, f func()) Timer {
//	    return time.AfterFunc(d, f)
//	}
type Scheduler interface {
	// Now returns the current time.
	Now() time.Time

	// AfterFunc calls f in its own goroutine once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}
