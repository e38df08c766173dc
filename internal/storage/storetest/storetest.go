// Package storetest keeps the test suite every storage.Store driver runs.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

var equateEmpty = cmpopts.EquateEmpty()

func sample(name string, n int) slider.Slider {
	s := slider.Slider{Name: name, Settings: slider.DefaultSettings()}
	for i := 0; i < n; i++ {
		s.Slides = append(s.Slides, slider.Slide{
			Image:          "https://example.com/" + name + ".jpg",
			Title:          name,
			ButtonText:     "Go",
			ButtonURL:      "#",
			OverlayOpacity: 0.5,
		})
	}
	return s
}

// Run exercises st, which must be empty.
func Run(t *testing.T, st storage.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		n, err := st.Count(ctx)
		if err != nil || n != 0 {
			t.Fatalf("Count() = %d, %v; want 0, nil", n, err)
		}
		if _, err := st.Get(ctx, 1); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get(1) error = %v, want ErrNotFound", err)
		}
	})

	var first, second slider.Slider
	t.Run("create and get", func(t *testing.T) {
		var err error
		first, err = st.Create(ctx, sample("lobby", 2))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if first.ID == 0 || first.CreatedAt.IsZero() || !first.CreatedAt.Equal(first.UpdatedAt) {
			t.Errorf("Create returned %+v", first)
		}

		got, err := st.Get(ctx, first.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if diff := cmp.Diff(first, got, equateEmpty); diff != "" {
			t.Errorf("Get mismatch (-want +got):\n%s", diff)
		}

		second, err = st.Create(ctx, sample("hallway", 1))
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if second.ID == first.ID {
			t.Errorf("ids not unique: %d", second.ID)
		}
	})

	t.Run("list newest first", func(t *testing.T) {
		list, err := st.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		var ids []int64
		for _, s := range list {
			ids = append(ids, s.ID)
		}
		if diff := cmp.Diff([]int64{second.ID, first.ID}, ids); diff != "" {
			t.Errorf("List order (-want +got):\n%s", diff)
		}
		if n, _ := st.Count(ctx); n != 2 {
			t.Errorf("Count() = %d, want 2", n)
		}
	})

	t.Run("update", func(t *testing.T) {
		changed := first
		changed.Name = "lobby v2"
		changed.Slides = changed.Slides[:1]
		changed.Settings.AutoplayDelayMS = 9000
		changed.Settings.ColorScheme = slider.SchemeViolet

		got, err := st.Update(ctx, changed)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if !got.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, got.CreatedAt)
		}
		if got.UpdatedAt.Before(first.UpdatedAt) {
			t.Errorf("UpdatedAt went backwards: %v -> %v", first.UpdatedAt, got.UpdatedAt)
		}
		if diff := cmp.Diff(changed, got, equateEmpty, cmpopts.IgnoreFields(slider.Slider{}, "UpdatedAt")); diff != "" {
			t.Errorf("Update mismatch (-want +got):\n%s", diff)
		}

		missing := changed
		missing.ID = 9999
		if _, err := st.Update(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Update(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := st.Delete(ctx, first.ID); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, err := st.Get(ctx, first.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get after delete error = %v, want ErrNotFound", err)
		}
		if err := st.Delete(ctx, first.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second Delete error = %v, want ErrNotFound", err)
		}
		if n, _ := st.Count(ctx); n != 1 {
			t.Errorf("Count() = %d, want 1", n)
		}
	})

	t.Run("seed skips non-empty store", func(t *testing.T) {
		seeded, err := storage.SeedDemo(ctx, st, "")
		if err != nil || seeded {
			t.Errorf("SeedDemo = %v, %v; want false, nil", seeded, err)
		}
	})
}
