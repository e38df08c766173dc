package carousel

import (
	"time"

	"github.com/AaronLay10/SliderEngine/internal/clock"
	"github.com/AaronLay10/SliderEngine/internal/slider"
)

// Engine owns the current slide and sequences transitions. At most one
// transition is in flight; commands arriving meanwhile are refused.
type Engine struct {
	slides int
	loop   bool
	speed  time.Duration
	clock  clock.Clock
	obs    Observer

	state  State
	target int
	settle clock.Timer
	gen    uint64
	closed bool
}

// NewEngine creates an idle engine positioned on the first slide.
func NewEngine(def slider.Definition, clk clock.Clock, obs Observer) *Engine {
	settings := def.Settings.Normalize()
	if obs == nil {
		obs = Observers(nil)
	}
	return &Engine{
		slides: len(def.Slides),
		loop:   settings.InfiniteLoop,
		speed:  settings.TransitionSpeed(),
		clock:  clk,
		obs:    obs,
		state:  State{Direction: DirectionNext},
	}
}

// GoTo starts a transition to index. It returns false, changing nothing,
// when a transition is in flight, index is current, or index is out of
// range.
func (e *Engine) GoTo(index int, dir Direction) bool {
	if e.closed || e.state.Transitioning {
		return false
	}
	if index < 0 || index >= e.slides || index == e.state.CurrentIndex {
		return false
	}

	from := e.state.CurrentIndex
	e.state.Transitioning = true
	e.state.Direction = dir
	e.target = index
	e.obs.OnTransitionStart(TransitionStart{From: from, To: index, Direction: dir})

	gen := e.gen
	e.settle = e.clock.AfterFunc(e.speed, func() { e.finish(gen) })
	return true
}

// Next advances one slide, wrapping only when looping.
func (e *Engine) Next() bool {
	if e.slides == 0 {
		return false
	}
	target := e.state.CurrentIndex + 1
	if e.loop {
		target %= e.slides
	} else if target > e.slides-1 {
		target = e.slides - 1
	}
	return e.GoTo(target, DirectionNext)
}

// Prev goes back one slide, wrapping only when looping.
func (e *Engine) Prev() bool {
	if e.slides == 0 {
		return false
	}
	target := e.state.CurrentIndex - 1
	if e.loop {
		target = (target + e.slides) % e.slides
	} else if target < 0 {
		target = 0
	}
	return e.GoTo(target, DirectionPrev)
}

// State returns a snapshot of the engine state.
func (e *Engine) State() State {
	return e.state
}

// Len returns the number of slides.
func (e *Engine) Len() int {
	return e.slides
}

func (e *Engine) finish(gen uint64) {
	if e.closed || gen != e.gen || !e.state.Transitioning {
		return
	}
	e.settle = nil
	e.state.CurrentIndex = e.target
	e.state.Transitioning = false
	e.obs.OnTransitionEnd(TransitionEnd{Index: e.target})
}

// close cancels a pending settle and refuses every later command.
func (e *Engine) close() {
	if e.settle != nil {
		e.settle.Stop()
		e.settle = nil
	}
	e.gen++
	e.closed = true
}
