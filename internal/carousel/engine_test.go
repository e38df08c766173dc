package carousel

import (
	"testing"
	"time"

	"github.com/AaronLay10/SliderEngine/internal/clock"
	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/google/go-cmp/cmp"
)

func newEngine(n int, mutate func(*slider.Settings)) (*Engine, *clock.Manual, *recorder) {
	clk := clock.NewManual(epoch)
	rec := &recorder{}
	return NewEngine(newDef(n, mutate), clk, rec), clk, rec
}

func TestEngine_InitialState(t *testing.T) {
	e, _, _ := newEngine(3, nil)
	st := e.State()
	if st.CurrentIndex != 0 || st.Transitioning || st.Phase() != PhaseIdle {
		t.Errorf("unexpected initial state: %+v", st)
	}
}

func TestEngine_NextWrapsWithLoop(t *testing.T) {
	for n := 2; n <= 5; n++ {
		e, clk, _ := newEngine(n, nil)
		for k := 1; k <= 3*n+1; k++ {
			if !e.Next() {
				t.Fatalf("n=%d k=%d: Next refused", n, k)
			}
			clk.Advance(speed)
			if got := e.State().CurrentIndex; got != k%n {
				t.Fatalf("n=%d k=%d: index %d, want %d", n, k, got, k%n)
			}
		}
	}
}

func TestEngine_NextClampsWithoutLoop(t *testing.T) {
	const n = 4
	e, clk, rec := newEngine(n, func(s *slider.Settings) { s.InfiniteLoop = false })
	for i := 0; i < n; i++ {
		e.Next()
		clk.Advance(speed)
	}
	if got := e.State().CurrentIndex; got != n-1 {
		t.Errorf("index = %d, want %d", got, n-1)
	}
	if len(rec.starts) != n-1 {
		t.Errorf("expected %d transitions, got %d", n-1, len(rec.starts))
	}
}

func TestEngine_PrevWrapsWithLoop(t *testing.T) {
	e, clk, rec := newEngine(3, nil)
	e.Prev()
	clk.Advance(speed)
	if got := e.State().CurrentIndex; got != 2 {
		t.Errorf("index = %d, want 2", got)
	}
	want := []TransitionStart{{From: 0, To: 2, Direction: DirectionPrev}}
	if diff := cmp.Diff(want, rec.starts); diff != "" {
		t.Errorf("starts (-want +got):\n%s", diff)
	}
}

func TestEngine_PrevClampsWithoutLoop(t *testing.T) {
	e, clk, rec := newEngine(3, func(s *slider.Settings) { s.InfiniteLoop = false })
	if e.Prev() {
		t.Error("Prev at first slide without loop should be refused")
	}
	clk.Advance(speed)
	if len(rec.starts) != 0 {
		t.Errorf("expected no transitions, got %d", len(rec.starts))
	}
}

func TestEngine_SettlesAfterTransitionSpeed(t *testing.T) {
	e, clk, rec := newEngine(3, nil)
	e.GoTo(2, DirectionNext)

	clk.Advance(speed - 1)
	st := e.State()
	if !st.Transitioning || st.CurrentIndex != 0 || st.Phase() != PhaseTransitioning {
		t.Errorf("before settle: %+v", st)
	}
	if len(rec.ends) != 0 {
		t.Error("settled early")
	}

	clk.Advance(1)
	st = e.State()
	if st.Transitioning || st.CurrentIndex != 2 {
		t.Errorf("after settle: %+v", st)
	}
	if diff := cmp.Diff([]TransitionEnd{{Index: 2}}, rec.ends); diff != "" {
		t.Errorf("ends (-want +got):\n%s", diff)
	}
}

func TestEngine_GoToWhileTransitioningIsRefused(t *testing.T) {
	e, clk, rec := newEngine(4, nil)
	if !e.GoTo(2, DirectionNext) {
		t.Fatal("first GoTo refused")
	}
	if e.GoTo(3, DirectionNext) || e.Next() || e.Prev() {
		t.Error("command accepted mid-transition")
	}
	if len(rec.starts) != 1 {
		t.Errorf("expected 1 start notification, got %d", len(rec.starts))
	}

	clk.Advance(speed)
	if got := e.State().CurrentIndex; got != 2 {
		t.Errorf("index = %d, want 2", got)
	}
	if clk.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", clk.Pending())
	}
}

func TestEngine_GoToInvalidIndex(t *testing.T) {
	e, clk, rec := newEngine(3, nil)
	for _, idx := range []int{-1, 3, 99, 0} {
		if e.GoTo(idx, DirectionNext) {
			t.Errorf("GoTo(%d) accepted", idx)
		}
	}
	clk.Advance(speed)
	if len(rec.starts)+len(rec.ends) != 0 {
		t.Error("refused GoTo raised notifications")
	}
}

func TestEngine_SingleSlideIsStatic(t *testing.T) {
	e, clk, rec := newEngine(1, nil)
	for i := 0; i < 5; i++ {
		e.Next()
		e.Prev()
		e.GoTo(0, DirectionNext)
		clk.Advance(speed)
	}
	if e.State().CurrentIndex != 0 || len(rec.starts) != 0 {
		t.Errorf("single slide moved: %+v, %d starts", e.State(), len(rec.starts))
	}
}

func TestEngine_ClampsTransitionSpeed(t *testing.T) {
	e, clk, _ := newEngine(2, func(s *slider.Settings) { s.TransitionSpeedMS = 5 })
	e.Next()
	clk.Advance(slider.MinTransitionSpeedMS*time.Millisecond - 1)
	if !e.State().Transitioning {
		t.Fatal("settled before the minimum transition speed")
	}
	clk.Advance(1)
	if e.State().Transitioning {
		t.Error("did not settle at the minimum transition speed")
	}
}

func TestEngine_HugeTransitionSpeedIsCapped(t *testing.T) {
	e, clk, rec := newEngine(2, func(s *slider.Settings) { s.TransitionSpeedMS = 18446744073710 })
	e.Next()
	clk.Advance(time.Second)
	if !e.State().Transitioning || len(rec.ends) != 0 {
		t.Fatal("settled early: speed overflowed instead of being capped")
	}
	clk.Advance(slider.MaxTimingMS*time.Millisecond - time.Second)
	if e.State().Transitioning {
		t.Error("did not settle at the maximum transition speed")
	}
}

func TestEngine_CloseCancelsSettle(t *testing.T) {
	e, clk, rec := newEngine(3, nil)
	e.Next()
	e.close()
	clk.Advance(speed)
	if len(rec.ends) != 0 {
		t.Error("settle fired after close")
	}
	if e.Next() {
		t.Error("closed engine accepted a command")
	}
}
