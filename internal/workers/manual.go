package workers

import (
	"sort"
	"sync"
	"time"
)

// ManualScheduler is a [Scheduler] whose clock only moves when Advance is
// called. Due callbacks run synchronously inside Advance, in deadline order,
// which makes timer-driven code deterministic under test.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
	seq    int
}

type manualTimer struct {
	s        *ManualScheduler
	deadline time.Time
	delay    time.Duration
	seq      int
	fn       func()
	done     bool
}

// NewManualScheduler returns a [ManualScheduler] starting at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now implements [Scheduler].
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc implements [Scheduler].
func (m *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{s: m, deadline: m.now.Add(d), delay: d, seq: m.seq, fn: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d and runs every callback that became
// due, including callbacks scheduled by other callbacks within the window.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDueLocked(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		next.done = true
		if next.deadline.After(m.now) {
			m.now = next.deadline
		}
		m.mu.Unlock()

		next.fn()
	}
}

// Pending returns the delays, as requested in AfterFunc, of timers that have
// neither fired nor been stopped, ordered by deadline.
func (m *ManualScheduler) Pending() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.activeLocked()
	out := make([]time.Duration, 0, len(active))
	for _, t := range active {
		out = append(out, t.delay)
	}
	return out
}

// NextDeadline returns the deadline of the earliest pending timer.
func (m *ManualScheduler) NextDeadline() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	active := m.activeLocked()
	if len(active) == 0 {
		return time.Time{}, false
	}
	return active[0].deadline, true
}

func (m *ManualScheduler) activeLocked() []*manualTimer {
	active := make([]*manualTimer, 0, len(m.timers))
	kept := m.timers[:0]
	for _, t := range m.timers {
		if !t.done {
			active = append(active, t)
			kept = append(kept, t)
		}
	}
	m.timers = kept

	sort.Slice(active, func(i, j int) bool {
		if active[i].deadline.Equal(active[j].deadline) {
			return active[i].seq < active[j].seq
		}
		return active[i].deadline.Before(active[j].deadline)
	})
	return active
}

func (m *ManualScheduler) nextDueLocked(target time.Time) *manualTimer {
	active := m.activeLocked()
	if len(active) == 0 || active[0].deadline.After(target) {
		return nil
	}
	return active[0]
}

func (t *manualTimer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if t.done {
		return false
	}
	t.done = true
	return true
}
