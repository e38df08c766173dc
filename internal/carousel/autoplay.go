package carousel

import (
	"time"

	"github.com/AaronLay10/SliderEngine/internal/clock"
)

// SuspendReason names a condition that holds autoplay disarmed.
type SuspendReason string

const (
	SuspendHover  SuspendReason = "hover"
	SuspendHidden SuspendReason = "hidden"
)

// Autoplay advances the engine on a recurring timer while armed. Only one
// timer exists at a time; every arm first discards the previous one.
type Autoplay struct {
	enabled  bool
	delay    time.Duration
	clock    clock.Clock
	engine   *Engine
	progress *Progress

	timer     clock.Timer
	gen       uint64
	armed     bool
	suspended map[SuspendReason]struct{}
	closed    bool
}

// NewAutoplay creates a disarmed controller. It can never arm when enabled
// is false or the engine has fewer than two slides.
func NewAutoplay(enabled bool, delay time.Duration, clk clock.Clock, engine *Engine, progress *Progress) *Autoplay {
	return &Autoplay{
		enabled:   enabled && engine.Len() > 1 && delay > 0,
		delay:     delay,
		clock:     clk,
		engine:    engine,
		progress:  progress,
		suspended: make(map[SuspendReason]struct{}),
	}
}

// Start arms the timer and restarts progress. It is a no-op when autoplay
// is disabled, already armed, or suspended.
func (a *Autoplay) Start() bool {
	if !a.enabled || a.closed || a.armed || len(a.suspended) > 0 {
		return false
	}
	a.armed = true
	a.progress.Reset()
	a.schedule()
	return true
}

// Stop disarms the timer and cancels progress. Idempotent.
func (a *Autoplay) Stop() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.gen++
	a.armed = false
	a.progress.Stop()
}

// Restart discards the running cycle and begins a full one.
func (a *Autoplay) Restart() {
	a.Stop()
	a.Start()
}

// Suspend disarms autoplay until every suspend reason is resumed.
func (a *Autoplay) Suspend(reason SuspendReason) {
	a.suspended[reason] = struct{}{}
	a.Stop()
}

// Resume clears a suspend reason and rearms once none remain.
func (a *Autoplay) Resume(reason SuspendReason) {
	if _, ok := a.suspended[reason]; !ok {
		return
	}
	delete(a.suspended, reason)
	a.Start()
}

// Armed reports whether the recurring timer is active.
func (a *Autoplay) Armed() bool {
	return a.armed
}

// Suspended reports whether reason currently holds autoplay.
func (a *Autoplay) Suspended(reason SuspendReason) bool {
	_, ok := a.suspended[reason]
	return ok
}

func (a *Autoplay) schedule() {
	gen := a.gen
	a.timer = a.clock.AfterFunc(a.delay, func() { a.fire(gen) })
}

func (a *Autoplay) fire(gen uint64) {
	if gen != a.gen || !a.armed {
		return
	}
	a.progress.Complete()
	a.engine.Next()
	a.progress.Reset()
	a.schedule()
}

func (a *Autoplay) close() {
	a.Stop()
	a.closed = true
}
