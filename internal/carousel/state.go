package carousel

// Direction is the visual sweep of a transition.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// Phase is the lifecycle state of the engine.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseTransitioning Phase = "transitioning"
)

// State is a snapshot of one carousel's position.
type State struct {
	CurrentIndex  int       `json:"current_index"`
	Transitioning bool      `json:"transitioning"`
	Direction     Direction `json:"direction"`
}

// Phase returns the engine phase the snapshot was taken in.
func (s State) Phase() Phase {
	if s.Transitioning {
		return PhaseTransitioning
	}
	return PhaseIdle
}

// TransitionStart is raised when the engine accepts a navigation.
type TransitionStart struct {
	From      int       `json:"from"`
	To        int       `json:"to"`
	Direction Direction `json:"direction"`
}

// TransitionEnd is raised when a transition settles.
type TransitionEnd struct {
	Index int `json:"index"`
}

// Observer receives carousel notifications. Callbacks run on the carousel's
// logical thread and must not call back into the same Handle.
type Observer interface {
	OnTransitionStart(TransitionStart)
	OnTransitionEnd(TransitionEnd)
	OnProgressTick(ratio float64)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	TransitionStart func(TransitionStart)
	TransitionEnd   func(TransitionEnd)
	ProgressTick    func(ratio float64)
}

func (f ObserverFuncs) OnTransitionStart(ev TransitionStart) {
	if f.TransitionStart != nil {
		f.TransitionStart(ev)
	}
}

func (f ObserverFuncs) OnTransitionEnd(ev TransitionEnd) {
	if f.TransitionEnd != nil {
		f.TransitionEnd(ev)
	}
}

func (f ObserverFuncs) OnProgressTick(ratio float64) {
	if f.ProgressTick != nil {
		f.ProgressTick(ratio)
	}
}

// Observers fans notifications out to several observers in order.
type Observers []Observer

func (os Observers) OnTransitionStart(ev TransitionStart) {
	for _, o := range os {
		o.OnTransitionStart(ev)
	}
}

func (os Observers) OnTransitionEnd(ev TransitionEnd) {
	for _, o := range os {
		o.OnTransitionEnd(ev)
	}
}

func (os Observers) OnProgressTick(ratio float64) {
	for _, o := range os {
		o.OnProgressTick(ratio)
	}
}
