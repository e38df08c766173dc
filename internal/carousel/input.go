package carousel

import "math"

// SwipeThreshold is the horizontal travel, in device-independent pixels, a
// drag must exceed to navigate.
const SwipeThreshold = 50

// Keys understood by Input.Key.
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
)

// Input turns pointer, touch, keyboard and visibility events into engine
// commands. Every navigation stops autoplay, acts, then rearms it so the
// full delay window restarts.
type Input struct {
	engine       *Engine
	autoplay     *Autoplay
	elements     Elements
	pauseOnHover bool

	hovering bool
	dragging bool
	startX   float64
	endX     float64
}

// NewInput binds an adapter to an engine and its autoplay controller.
func NewInput(engine *Engine, autoplay *Autoplay, elements Elements, pauseOnHover bool) *Input {
	return &Input{
		engine:       engine,
		autoplay:     autoplay,
		elements:     elements,
		pauseOnHover: pauseOnHover,
	}
}

// Next is a user-initiated advance.
func (in *Input) Next() bool {
	return in.navigate(in.engine.Next)
}

// Prev is a user-initiated step back.
func (in *Input) Prev() bool {
	return in.navigate(in.engine.Prev)
}

// Arrow handles a click on the prev or next control. Ignored when the
// arrows were not rendered.
func (in *Input) Arrow(dir Direction) bool {
	if !in.elements.Arrows {
		return false
	}
	if dir == DirectionPrev {
		return in.Prev()
	}
	return in.Next()
}

// Dot handles a click on the indicator for index.
func (in *Input) Dot(index int) bool {
	if index < 0 || index >= in.elements.Dots {
		return false
	}
	dir := DirectionPrev
	if index > in.engine.State().CurrentIndex {
		dir = DirectionNext
	}
	return in.navigate(func() bool { return in.engine.GoTo(index, dir) })
}

// PointerDown begins a drag at horizontal coordinate x.
func (in *Input) PointerDown(x float64) {
	in.dragging = true
	in.startX = x
	in.endX = x
}

// PointerMove records the drag position. It never navigates.
func (in *Input) PointerMove(x float64) {
	if in.dragging {
		in.endX = x
	}
}

// PointerUp ends a drag at x and navigates if the travel exceeded
// SwipeThreshold: leftward travel advances, rightward goes back.
func (in *Input) PointerUp(x float64) bool {
	if !in.dragging {
		return false
	}
	in.dragging = false
	in.endX = x

	diff := in.startX - in.endX
	if math.Abs(diff) <= SwipeThreshold {
		return false
	}
	if diff > 0 {
		return in.Next()
	}
	return in.Prev()
}

// Key handles a key press. Only arrow keys act, and only while the pointer
// is over the carousel.
func (in *Input) Key(key string) bool {
	if !in.hovering {
		return false
	}
	switch key {
	case KeyArrowLeft:
		return in.Prev()
	case KeyArrowRight:
		return in.Next()
	}
	return false
}

// PointerEnter marks the pointer as inside the carousel bounds.
func (in *Input) PointerEnter() {
	in.hovering = true
	if in.pauseOnHover {
		in.autoplay.Suspend(SuspendHover)
	}
}

// PointerLeave marks the pointer as outside the carousel bounds.
func (in *Input) PointerLeave() {
	in.hovering = false
	if in.pauseOnHover {
		in.autoplay.Resume(SuspendHover)
	}
}

// SetVisible reports a viewport visibility change.
func (in *Input) SetVisible(visible bool) {
	if visible {
		in.autoplay.Resume(SuspendHidden)
		return
	}
	in.autoplay.Suspend(SuspendHidden)
}

// Hovering reports whether the pointer is over the carousel.
func (in *Input) Hovering() bool {
	return in.hovering
}

func (in *Input) navigate(act func() bool) bool {
	in.autoplay.Stop()
	ok := act()
	in.autoplay.Start()
	return ok
}
