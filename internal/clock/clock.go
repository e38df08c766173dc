// Package clock provides the schedulable-delay abstraction used by the
// carousel core. Production code runs on the wall clock; tests drive a
// Manual clock so timer-dependent behavior is deterministic.
package clock

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from firing. It returns false if the
	// callback already fired or the timer was already stopped.
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// Real returns a Clock backed by the time package. Callbacks run on their
// own goroutines; callers needing serialization must provide it.
func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
