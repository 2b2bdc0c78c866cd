// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"sync"
	"time"
)

type systemScheduler struct{}

// NewSystemScheduler returns a [Scheduler] backed by the runtime timers.
func NewSystemScheduler() Scheduler {
	return systemScheduler{}
}

func (systemScheduler) Now() time.Time {
	return time.Now()
}

func (systemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// repeater re-arms itself after every run until stopped.
type repeater struct {
	scheduler Scheduler
	interval  time.Duration
	fn        func()

	mu      sync.Mutex
	current Timer
	stopped bool
}

// Repeat calls fn every interval until the returned [Timer] is stopped. The
// first call happens one interval after Repeat returns.
func Repeat(s Scheduler, interval time.Duration, fn func()) Timer {
	r := &repeater{scheduler: s, interval: interval, fn: fn}

	r.mu.Lock()
	r.current = s.AfterFunc(interval, r.tick)
	r.mu.Unlock()

	return r
}

func (r *repeater) tick() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	r.fn()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.stopped {
		r.current = r.scheduler.AfterFunc(r.interval, r.tick)
	}
}

// Stop implements [Timer].
func (r *repeater) Stop() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return false
	}
	r.stopped = true
	if r.current != nil {
		r.current.Stop()
	}
	return true
}
