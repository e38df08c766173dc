// Package memory is an in-process slider store.
package memory

import (
	"context"
	"sync"

	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

type Store struct {
	mu      sync.RWMutex
	nextID  int64
	sliders map[int64]slider.Slider
}

func New() *Store {
	return &Store{nextID: 1, sliders: make(map[int64]slider.Slider)}
}

func (s *Store) Get(_ context.Context, id int64) (slider.Slider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sliders[id]
	if !ok {
		return slider.Slider{}, storage.ErrNotFound
	}
	return clone(rec), nil
}

func (s *Store) List(_ context.Context) ([]slider.Slider, error) {
	s.mu.RLock()
	out := make([]slider.Slider, 0, len(s.sliders))
	for _, rec := range s.sliders {
		out = append(out, clone(rec))
	}
	s.mu.RUnlock()
	storage.SortByUpdated(out)
	return out, nil
}

func (s *Store) Create(_ context.Context, rec slider.Slider) (slider.Slider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := storage.Timestamp()
	rec.ID = s.nextID
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.nextID++
	s.sliders[rec.ID] = clone(rec)
	return rec, nil
}

func (s *Store) Update(_ context.Context, rec slider.Slider) (slider.Slider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.sliders[rec.ID]
	if !ok {
		return slider.Slider{}, storage.ErrNotFound
	}
	rec.CreatedAt = old.CreatedAt
	rec.UpdatedAt = storage.Timestamp()
	s.sliders[rec.ID] = clone(rec)
	return rec, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sliders[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.sliders, id)
	return nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sliders), nil
}

func (s *Store) Close() error { return nil }

func clone(rec slider.Slider) slider.Slider {
	if rec.Slides != nil {
		rec.Slides = append([]slider.Slide(nil), rec.Slides...)
	}
	return rec
}
