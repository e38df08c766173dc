package embed

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/AaronLay10/SliderEngine/internal/slider"
)

func TestRender(t *testing.T) {
	rec := slider.Demo("/assets/")
	rec.ID = 7
	rec.Slides[1].ButtonText = ""
	rec.Settings.ColorScheme = slider.SchemeDark

	p := Render(rec, slider.Overrides{Height: "320px"})

	if !strings.HasPrefix(p.InstanceID, "ims-slider-7-") {
		t.Errorf("instance id = %q", p.InstanceID)
	}
	if p.ThemeClass != "ims-theme-dark" {
		t.Errorf("theme class = %q", p.ThemeClass)
	}
	if p.Settings.Height != "320px" {
		t.Errorf("height = %q", p.Settings.Height)
	}
	if p.Dots != 3 {
		t.Errorf("dots = %d", p.Dots)
	}

	var buttons, active []bool
	for _, s := range p.Slides {
		buttons = append(buttons, s.ShowButton)
		active = append(active, s.Active)
	}
	if diff := cmp.Diff([]bool{true, false, true}, buttons); diff != "" {
		t.Errorf("show_button (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, false, false}, active); diff != "" {
		t.Errorf("active (-want +got):\n%s", diff)
	}
}

func TestRenderInstanceIDsAreUnique(t *testing.T) {
	rec := slider.Demo("")
	rec.ID = 1
	if Render(rec, slider.Overrides{}).InstanceID == Render(rec, slider.Overrides{}).InstanceID {
		t.Error("two renders share an instance id")
	}
}

func TestRenderWithoutDots(t *testing.T) {
	rec := slider.Demo("")
	rec.Settings.ShowDots = false
	if p := Render(rec, slider.Overrides{}); p.Dots != 0 {
		t.Errorf("dots = %d, want 0", p.Dots)
	}
}
