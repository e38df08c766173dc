package carousel

import (
	"time"

	"github.com/AaronLay10/SliderEngine/internal/clock"
)

// DefaultProgressFrame is the interval between progress ticks.
const DefaultProgressFrame = 50 * time.Millisecond

// Progress drives the fill ratio of the progress bar from 0 to 1 over one
// autoplay period. It only echoes autoplay and never advances the slide.
type Progress struct {
	enabled bool
	period  time.Duration
	frame   time.Duration
	clock   clock.Clock
	obs     Observer

	started time.Time
	timer   clock.Timer
	gen     uint64
	running bool
	ratio   float64
}

// NewProgress creates a driver. A disabled driver ignores every call.
func NewProgress(enabled bool, period, frame time.Duration, clk clock.Clock, obs Observer) *Progress {
	if frame <= 0 {
		frame = DefaultProgressFrame
	}
	if obs == nil {
		obs = Observers(nil)
	}
	return &Progress{
		enabled: enabled && period > 0,
		period:  period,
		frame:   frame,
		clock:   clk,
		obs:     obs,
	}
}

// Reset sets the ratio to 0 and restarts the animation, abandoning any
// animation already running.
func (p *Progress) Reset() {
	if !p.enabled {
		return
	}
	p.cancel()
	p.ratio = 0
	p.running = true
	p.started = p.clock.Now()
	p.obs.OnProgressTick(0)
	p.schedule(p.frame)
}

// Complete ends a running animation at 1. Called when the autoplay period
// elapses, which may race the final frame.
func (p *Progress) Complete() {
	if !p.enabled || !p.running {
		return
	}
	p.cancel()
	p.running = false
	p.ratio = 1
	p.obs.OnProgressTick(1)
}

// Stop cancels any animation and empties the bar.
func (p *Progress) Stop() {
	if !p.enabled {
		return
	}
	p.cancel()
	p.running = false
	if p.ratio != 0 {
		p.ratio = 0
		p.obs.OnProgressTick(0)
	}
}

// Ratio returns the last reported fill ratio.
func (p *Progress) Ratio() float64 {
	return p.ratio
}

// Running reports whether an animation is in progress.
func (p *Progress) Running() bool {
	return p.running
}

func (p *Progress) schedule(d time.Duration) {
	gen := p.gen
	p.timer = p.clock.AfterFunc(d, func() { p.tick(gen) })
}

func (p *Progress) tick(gen uint64) {
	if gen != p.gen || !p.running {
		return
	}
	elapsed := p.clock.Now().Sub(p.started)
	if elapsed >= p.period {
		p.timer = nil
		p.running = false
		p.ratio = 1
		p.obs.OnProgressTick(1)
		return
	}
	p.ratio = float64(elapsed) / float64(p.period)
	p.obs.OnProgressTick(p.ratio)

	next := p.frame
	if remaining := p.period - elapsed; remaining < next {
		next = remaining
	}
	p.schedule(next)
}

func (p *Progress) cancel() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.gen++
}
