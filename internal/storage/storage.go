// Package storage defines the slider record store shared by the postgres,
// sqlite, bolt and memory drivers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AaronLay10/SliderEngine/internal/slider"
)

var ErrNotFound = errors.New("slider not found")

// Store persists slider records. Each record holds the slides and settings
// as two JSON documents. List orders by last update, newest first.
type Store interface {
	Get(ctx context.Context, id int64) (slider.Slider, error)
	List(ctx context.Context) ([]slider.Slider, error)
	Create(ctx context.Context, s slider.Slider) (slider.Slider, error)
	Update(ctx context.Context, s slider.Slider) (slider.Slider, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Close() error
}

// Summary is the list view of a slider.
type Summary struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SlideCount int       `json:"slide_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func Summarize(s slider.Slider) Summary {
	return Summary{
		ID:         s.ID,
		Name:       s.Name,
		SlideCount: len(s.Slides),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// Timestamp returns the current time at the precision every driver can
// round-trip.
func Timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// SortByUpdated orders sliders newest update first, breaking ties by id.
func SortByUpdated(sliders []slider.Slider) {
	sort.SliceStable(sliders, func(i, j int) bool {
		if !sliders[i].UpdatedAt.Equal(sliders[j].UpdatedAt) {
			return sliders[i].UpdatedAt.After(sliders[j].UpdatedAt)
		}
		return sliders[i].ID > sliders[j].ID
	})
}

// Save creates s when its id is zero and updates it otherwise.
func Save(ctx context.Context, st Store, s slider.Slider) (slider.Slider, error) {
	if s.ID == 0 {
		return st.Create(ctx, s)
	}
	return st.Update(ctx, s)
}

// SeedDemo inserts the demo slider when st is empty. It reports whether a
// record was created.
func SeedDemo(ctx context.Context, st Store, assetBase string) (bool, error) {
	n, err := st.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count sliders: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	if _, err := st.Create(ctx, slider.Demo(assetBase)); err != nil {
		return false, fmt.Errorf("seed demo slider: %w", err)
	}
	return true, nil
}
