// Package embed keeps the live carousel sessions attached to stored
// sliders and publishes their notifications as events.
package embed

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AaronLay10/SliderEngine/internal/carousel"
	"github.com/AaronLay10/SliderEngine/internal/clock"
	"github.com/AaronLay10/SliderEngine/internal/events"
	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

var ErrSessionNotFound = errors.New("embed session not found")

// Loader is the part of storage.Store a Registry reads.
type Loader interface {
	Get(ctx context.Context, id int64) (slider.Slider, error)
}

// Session is one attached carousel.
type Session struct {
	ID         string
	SliderID   int64
	InstanceID string
	Overrides  slider.Overrides
	CreatedAt  time.Time

	handle *carousel.Handle
}

// Handle returns the session's carousel.
func (s *Session) Handle() *carousel.Handle {
	return s.handle
}

// Status is the JSON view of a session.
type Status struct {
	ID         string         `json:"id"`
	SliderID   int64          `json:"slider_id"`
	InstanceID string         `json:"instance_id"`
	Slides     int            `json:"slides"`
	State      carousel.State `json:"state"`
	Autoplay   bool           `json:"autoplay_armed"`
	Progress   float64        `json:"progress"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (s *Session) Status() Status {
	return Status{
		ID:         s.ID,
		SliderID:   s.SliderID,
		InstanceID: s.InstanceID,
		Slides:     s.handle.Elements().Slides,
		State:      s.handle.State(),
		Autoplay:   s.handle.Armed(),
		Progress:   s.handle.ProgressRatio(),
		CreatedAt:  s.CreatedAt,
	}
}

type Option func(*Registry)

// WithClock sets the clock every new session runs on.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) { r.clock = c }
}

// WithProgressFrame sets the progress tick interval of new sessions.
func WithProgressFrame(d time.Duration) Option {
	return func(r *Registry) { r.frame = d }
}

// WithProgressEvents enables the transient carousel.progress event.
func WithProgressEvents(on bool) Option {
	return func(r *Registry) { r.progressEvents = on }
}

type Registry struct {
	loader         Loader
	clock          clock.Clock
	frame          time.Duration
	progressEvents bool

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(loader Loader, opts ...Option) *Registry {
	r := &Registry{
		loader:         loader,
		clock:          clock.Real(),
		frame:          carousel.DefaultProgressFrame,
		progressEvents: true,
		sessions:       make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Attach loads slider id, applies ov, and starts a carousel for it.
func (r *Registry) Attach(ctx context.Context, sliderID int64, ov slider.Overrides) (*Session, error) {
	rec, err := r.loader.Get(ctx, sliderID)
	if err != nil {
		return nil, err
	}

	def := rec.Definition()
	def.Settings = ov.Apply(def.Settings)

	s := &Session{
		ID:         uuid.NewString(),
		SliderID:   rec.ID,
		InstanceID: InstanceID(rec.ID),
		Overrides:  ov,
		CreatedAt:  r.clock.Now(),
	}
	opts := []carousel.Option{
		carousel.WithClock(r.clock),
		carousel.WithProgressFrame(r.frame),
		carousel.WithObserver(r.observer(s.ID)),
	}
	h, err := carousel.Attach(def, carousel.ElementsFor(def), opts...)
	if err != nil {
		return nil, fmt.Errorf("slider %d: %w", sliderID, err)
	}
	s.handle = h

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	events.Emit("info", "embed.attached", "", map[string]interface{}{
		"embed_id":  s.ID,
		"slider_id": formatID(rec.ID),
		"slides":    len(def.Slides),
		"autoplay":  def.Settings.Autoplay,
	})
	return s, nil
}

func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// List returns the live sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Detach stops session id and forgets it.
func (r *Registry) Detach(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	s.handle.Detach()
	events.Emit("info", "embed.detached", "", map[string]interface{}{
		"embed_id":  s.ID,
		"slider_id": formatID(s.SliderID),
	})
	return nil
}

// DetachSlider detaches every session showing slider id, so deleted or
// edited sliders stop running. It returns the number detached.
func (r *Registry) DetachSlider(sliderID int64) int {
	n := 0
	for _, s := range r.List() {
		if s.SliderID == sliderID && r.Detach(s.ID) == nil {
			n++
		}
	}
	return n
}

// Input applies cmd to session id.
func (r *Registry) Input(id string, cmd Command) (bool, error) {
	s, err := r.Get(id)
	if err != nil {
		return false, err
	}
	accepted, err := cmd.Apply(s.handle)
	if err != nil {
		events.Emit("warn", "embed.rejected", err.Error(), map[string]interface{}{
			"embed_id": id,
			"type":     cmd.Type,
		})
		return false, err
	}
	events.Emit("debug", "embed.input", "", map[string]interface{}{
		"embed_id": id,
		"type":     cmd.Type,
		"accepted": accepted,
	})
	return accepted, nil
}

// Close detaches every session.
func (r *Registry) Close() {
	for _, s := range r.List() {
		_ = r.Detach(s.ID)
	}
}

func (r *Registry) observer(embedID string) carousel.Observer {
	return carousel.ObserverFuncs{
		TransitionStart: func(ev carousel.TransitionStart) {
			events.Emit("info", "carousel.transition_started", "", map[string]interface{}{
				"embed_id":  embedID,
				"from":      ev.From,
				"to":        ev.To,
				"direction": string(ev.Direction),
			})
		},
		TransitionEnd: func(ev carousel.TransitionEnd) {
			events.Emit("info", "carousel.transition_ended", "", map[string]interface{}{
				"embed_id": embedID,
				"index":    ev.Index,
			})
		},
		ProgressTick: func(ratio float64) {
			if !r.progressEvents {
				return
			}
			events.Emit("debug", "carousel.progress", "", map[string]interface{}{
				"embed_id": embedID,
				"ratio":    ratio,
			})
		},
	}
}

// IsNotFound reports whether err means the session or slider is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, storage.ErrNotFound)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
