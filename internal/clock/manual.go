package clock

import (
	"sync"
	"time"
)

// Manual is a logical clock that only moves when Advance is called.
// Callbacks fire synchronously inside Advance, in due-time order; timers of
// equal due time fire in the order they were scheduled.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock *Manual
	due   time.Time
	seq   uint64
	f     func()
}

// NewManual creates a Manual clock starting at the given instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current logical time.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AfterFunc schedules f to run once the clock has advanced by d.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	t := &manualTimer{
		clock: m,
		due:   m.now.Add(d),
		seq:   m.seq,
		f:     f,
	}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that comes due,
// including timers scheduled by callbacks during the advance.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	for {
		t := m.popDueLocked(target)
		if t == nil {
			break
		}
		m.now = t.due
		m.mu.Unlock()
		t.f()
		m.mu.Lock()
	}
	m.now = target
	m.mu.Unlock()
}

// Pending returns the number of scheduled timers that have not fired or
// been stopped.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// popDueLocked removes and returns the earliest timer due at or before
// target. Must be called with m.mu held.
func (m *Manual) popDueLocked(target time.Time) *manualTimer {
	best := -1
	for i, t := range m.timers {
		if t.due.After(target) {
			continue
		}
		if best < 0 || t.due.Before(m.timers[best].due) ||
			(t.due.Equal(m.timers[best].due) && t.seq < m.timers[best].seq) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	t := m.timers[best]
	m.timers = append(m.timers[:best], m.timers[best+1:]...)
	return t
}

func (t *manualTimer) Stop() bool {
	m := t.clock
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, pending := range m.timers {
		if pending == t {
			m.timers = append(m.timers[:i], m.timers[i+1:]...)
			return true
		}
	}
	return false
}
