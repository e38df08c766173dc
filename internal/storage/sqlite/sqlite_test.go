package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage/storetest"
)

func TestStore(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "sliders.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	storetest.Run(t, st)
}

func TestReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "sliders.db")

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec, err := st.Create(ctx, slider.Slider{Name: "kept", Settings: slider.DefaultSettings()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	st.Close()

	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()

	got, err := st.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != "kept" {
		t.Errorf("name = %q", got.Name)
	}
}

func TestStringOpacity(t *testing.T) {
	ctx := context.Background()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer st.Close()

	_, err = st.db.Exec(`INSERT INTO sliders (name, slides, settings, created_date, updated_date) VALUES (?, ?, ?, ?, ?)`,
		"legacy", `[{"image":"a.jpg","title":"A","overlay_opacity":"0.6"}]`, `{"autoplay":false}`,
		"2024-01-02T03:04:05.000000Z", "2024-01-02T03:04:05.000000Z")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	list, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 slider, got %d", len(list))
	}
	got := list[0]
	if got.Slides[0].OverlayOpacity != 0.6 {
		t.Errorf("opacity = %v, want 0.6", got.Slides[0].OverlayOpacity)
	}
	if got.Settings.Autoplay || got.Settings.AutoplayDelayMS != slider.DefaultAutoplayDelayMS {
		t.Errorf("settings not defaulted: %+v", got.Settings)
	}
}
