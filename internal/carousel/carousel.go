// Package carousel implements the client-side slider state machine: slide
// transitions, autoplay timing, progress animation and input handling for a
// single carousel instance.
//
// Each Handle returned by Attach owns one Engine, Autoplay, Progress and
// Input. Instances share no state. All work for an instance runs on one
// logical thread: public Handle methods and timer callbacks are serialized,
// so the engine's busy flag is the only exclusion it needs.
package carousel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AaronLay10/SliderEngine/internal/clock"
	"github.com/AaronLay10/SliderEngine/internal/slider"
)

// ErrElementMismatch is returned when the rendered elements do not match
// the definition they were rendered from.
var ErrElementMismatch = errors.New("carousel elements do not match definition")

// Elements describes the controls the render layer created for one embed.
type Elements struct {
	Slides   int  // slide elements, in order
	Dots     int  // dot indicators; 0 when not rendered
	Arrows   bool // prev/next controls
	Progress bool // progress fill element
}

// ElementsFor returns the element set a renderer produces for def.
func ElementsFor(def slider.Definition) Elements {
	s := def.Settings
	el := Elements{
		Slides:   len(def.Slides),
		Arrows:   s.ShowArrows,
		Progress: s.ShowProgress,
	}
	if s.ShowDots {
		el.Dots = len(def.Slides)
	}
	return el
}

type options struct {
	clock    clock.Clock
	observer Observer
	frame    time.Duration
}

// Option configures Attach.
type Option func(*options)

// WithClock replaces the wall clock, typically with a clock.Manual in tests.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithObserver registers the receiver of notifications.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithProgressFrame sets the interval between progress ticks.
func WithProgressFrame(d time.Duration) Option {
	return func(o *options) { o.frame = d }
}

// Handle is one attached carousel.
type Handle struct {
	mu       sync.Mutex
	detached bool

	def      slider.Definition
	elements Elements
	engine   *Engine
	autoplay *Autoplay
	progress *Progress
	input    *Input
}

// Attach validates def against elements, wires the components, and arms
// autoplay when enabled. The definition is copied and never mutated.
func Attach(def slider.Definition, elements Elements, opts ...Option) (*Handle, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("carousel: cannot attach: %w", err)
	}
	if elements.Slides != len(def.Slides) {
		return nil, fmt.Errorf("carousel: %d slide elements for %d slides: %w", elements.Slides, len(def.Slides), ErrElementMismatch)
	}
	if elements.Dots != 0 && elements.Dots != len(def.Slides) {
		return nil, fmt.Errorf("carousel: %d dots for %d slides: %w", elements.Dots, len(def.Slides), ErrElementMismatch)
	}

	o := options{clock: clock.Real(), frame: DefaultProgressFrame}
	for _, opt := range opts {
		opt(&o)
	}
	obs := o.observer
	if obs == nil {
		obs = Observers(nil)
	}

	slides := make([]slider.Slide, len(def.Slides))
	copy(slides, def.Slides)
	def = slider.Definition{Slides: slides, Settings: def.Settings.Normalize()}
	s := def.Settings

	h := &Handle{def: def, elements: elements}
	clk := &serialClock{inner: o.clock, mu: &h.mu}

	h.engine = NewEngine(def, clk, obs)
	h.progress = NewProgress(s.ShowProgress && s.Autoplay && elements.Progress, s.AutoplayDelay(), o.frame, clk, obs)
	h.autoplay = NewAutoplay(s.Autoplay, s.AutoplayDelay(), clk, h.engine, h.progress)
	h.input = NewInput(h.engine, h.autoplay, elements, s.PauseOnHover)

	h.mu.Lock()
	h.autoplay.Start()
	h.mu.Unlock()
	return h, nil
}

// Detach releases every timer. Later calls on the handle are no-ops.
func (h *Handle) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detached {
		return
	}
	h.detached = true
	h.autoplay.close()
	h.engine.close()
}

// Detached reports whether Detach was called.
func (h *Handle) Detached() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.detached
}

// Definition returns the definition the handle was attached with.
func (h *Handle) Definition() slider.Definition {
	return h.def
}

// Elements returns the element set the handle was attached with.
func (h *Handle) Elements() Elements {
	return h.elements
}

// State returns the engine snapshot.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.engine.State()
}

// Armed reports whether autoplay's timer is active.
func (h *Handle) Armed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.autoplay.Armed()
}

// ProgressRatio returns the last reported progress fill ratio.
func (h *Handle) ProgressRatio() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.progress.Ratio()
}

// Next is a user-initiated advance.
func (h *Handle) Next() bool {
	return h.navigate(h.input.Next)
}

// Prev is a user-initiated step back.
func (h *Handle) Prev() bool {
	return h.navigate(h.input.Prev)
}

// Arrow handles a click on an arrow control.
func (h *Handle) Arrow(dir Direction) bool {
	return h.navigate(func() bool { return h.input.Arrow(dir) })
}

// Dot handles a click on a dot indicator.
func (h *Handle) Dot(index int) bool {
	return h.navigate(func() bool { return h.input.Dot(index) })
}

// Key handles a key press.
func (h *Handle) Key(key string) bool {
	return h.navigate(func() bool { return h.input.Key(key) })
}

// PointerUp ends a drag.
func (h *Handle) PointerUp(x float64) bool {
	return h.navigate(func() bool { return h.input.PointerUp(x) })
}

// PointerDown begins a drag.
func (h *Handle) PointerDown(x float64) {
	h.do(func() { h.input.PointerDown(x) })
}

// PointerMove records drag travel.
func (h *Handle) PointerMove(x float64) {
	h.do(func() { h.input.PointerMove(x) })
}

// PointerEnter reports the pointer entering the carousel bounds.
func (h *Handle) PointerEnter() {
	h.do(h.input.PointerEnter)
}

// PointerLeave reports the pointer leaving the carousel bounds.
func (h *Handle) PointerLeave() {
	h.do(h.input.PointerLeave)
}

// SetVisible reports a viewport visibility change.
func (h *Handle) SetVisible(visible bool) {
	h.do(func() { h.input.SetVisible(visible) })
}

func (h *Handle) navigate(f func() bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detached {
		return false
	}
	return f()
}

func (h *Handle) do(f func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.detached {
		return
	}
	f()
}

// serialClock runs callbacks under the handle's lock so timers and public
// calls never interleave.
type serialClock struct {
	inner clock.Clock
	mu    *sync.Mutex
}

func (c *serialClock) Now() time.Time {
	return c.inner.Now()
}

func (c *serialClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	return c.inner.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		f()
	})
}
