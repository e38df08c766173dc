package carousel

import (
	"fmt"
	"time"

	"github.com/AaronLay10/SliderEngine/internal/clock"
	"github.com/AaronLay10/SliderEngine/internal/slider"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// recorder collects notifications in arrival order.
type recorder struct {
	starts []TransitionStart
	ends   []TransitionEnd
	ticks  []float64
}

func (r *recorder) OnTransitionStart(ev TransitionStart) { r.starts = append(r.starts, ev) }
func (r *recorder) OnTransitionEnd(ev TransitionEnd)     { r.ends = append(r.ends, ev) }
func (r *recorder) OnProgressTick(ratio float64)         { r.ticks = append(r.ticks, ratio) }

// newDef builds an n-slide definition with default settings, adjusted by
// mutate when non-nil.
func newDef(n int, mutate func(*slider.Settings)) slider.Definition {
	settings := slider.DefaultSettings()
	if mutate != nil {
		mutate(&settings)
	}
	slides := make([]slider.Slide, n)
	for i := range slides {
		slides[i] = slider.Slide{
			Image: fmt.Sprintf("/assets/slide%d.jpg", i),
			Title: fmt.Sprintf("Slide %d", i),
		}
	}
	return slider.Definition{Slides: slides, Settings: settings}
}

func noAutoplay(s *slider.Settings) {
	s.Autoplay = false
}

// attach attaches def on a fresh manual clock.
func attach(def slider.Definition, opts ...Option) (*Handle, *clock.Manual, *recorder, error) {
	clk := clock.NewManual(epoch)
	rec := &recorder{}
	opts = append([]Option{WithClock(clk), WithObserver(rec)}, opts...)
	h, err := Attach(def, ElementsFor(def), opts...)
	return h, clk, rec, err
}

const (
	speed = slider.DefaultTransitionSpeedMS * time.Millisecond
	delay = slider.DefaultAutoplayDelayMS * time.Millisecond
)
