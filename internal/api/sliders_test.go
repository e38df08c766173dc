package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/AaronLay10/SliderEngine/internal/slider"
	"github.com/AaronLay10/SliderEngine/internal/storage"
)

type sliderResponse struct {
	OK    bool          `json:"ok"`
	Error string        `json:"error"`
	Data  slider.Slider `json:"data"`
}

func TestListSliders(t *testing.T) {
	env := newTestEnv(t)

	var list []storage.Summary
	if code := env.do(t, "GET", "/api/sliders", nil, &list); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(list) != 1 || list[0].Name != "Demo Slider" || list[0].SlideCount != 3 {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestGetSlider(t *testing.T) {
	env := newTestEnv(t)

	var rec slider.Slider
	if code := env.do(t, "GET", fmt.Sprintf("/api/sliders/%d", env.demoID), nil, &rec); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if rec.Name != "Demo Slider" || len(rec.Slides) != 3 {
		t.Errorf("unexpected slider: %+v", rec)
	}

	var resp Response
	if code := env.do(t, "GET", "/api/sliders/999", nil, &resp); code != http.StatusNotFound || resp.OK {
		t.Errorf("missing slider: %d %+v", code, resp)
	}
}

func TestCreateSliderSanitizes(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"name": "  <b>Lobby</b>  ",
		"slides": [{
			"image": "javascript:alert(1)",
			"title": "Hello\u0007 <script>x</script>world",
			"description": "line one\nline two",
			"button_text": "Go",
			"button_url": "/tickets",
			"overlay_opacity": "1.7"
		}],
		"settings": {"autoplay_delay": 10, "transition_speed": 50, "color_scheme": "neon", "show_dots": false}
	}`

	var resp sliderResponse
	if code := env.do(t, "POST", "/api/sliders", body, &resp); code != http.StatusCreated {
		t.Fatalf("status = %d, resp = %+v", code, resp)
	}
	rec := resp.Data
	if rec.ID == 0 || rec.Name != "Lobby" {
		t.Errorf("unexpected record: %+v", rec)
	}
	s := rec.Slides[0]
	if s.Image != "" || s.ButtonURL != "/tickets" || s.OverlayOpacity != 1 {
		t.Errorf("slide not sanitized: %+v", s)
	}
	if s.Description != "line one\nline two" {
		t.Errorf("description = %q", s.Description)
	}
	st := rec.Settings
	if st.AutoplayDelayMS != slider.MinAutoplayDelayMS || st.TransitionSpeedMS != slider.MinTransitionSpeedMS {
		t.Errorf("timings not clamped: %+v", st)
	}
	if st.ColorScheme != slider.SchemeLight || st.ShowDots || !st.ShowArrows {
		t.Errorf("settings = %+v", st)
	}

	stored, err := env.store.Get(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("store.Get: %v", err)
	}
	if stored.Name != "Lobby" {
		t.Errorf("stored name = %q", stored.Name)
	}
}

func TestSaveSliderValidation(t *testing.T) {
	env := newTestEnv(t)

	var resp Response
	if code := env.do(t, "POST", "/api/sliders", `{"name": "   "}`, &resp); code != http.StatusBadRequest {
		t.Errorf("blank name: %d %+v", code, resp)
	}
	if code := env.do(t, "POST", "/api/sliders", `{not json`, &resp); code != http.StatusBadRequest {
		t.Errorf("bad json: %d", code)
	}
	if code := env.do(t, "POST", "/api/sliders", `{"id": 999, "name": "ghost"}`, &resp); code != http.StatusNotFound {
		t.Errorf("update missing via POST: %d", code)
	}
}

func TestUpdateSlider(t *testing.T) {
	env := newTestEnv(t)
	path := fmt.Sprintf("/api/sliders/%d", env.demoID)

	var current slider.Slider
	env.do(t, "GET", path, nil, &current)
	current.Name = "Renamed"
	current.Slides = current.Slides[:2]

	var resp sliderResponse
	if code := env.do(t, "PUT", path, current, &resp); code != http.StatusOK {
		t.Fatalf("status = %d, resp = %+v", code, resp)
	}
	if resp.Data.ID != env.demoID || resp.Data.Name != "Renamed" || len(resp.Data.Slides) != 2 {
		t.Errorf("unexpected update: %+v", resp.Data)
	}

	// POST with an id is the same save path.
	current.Name = "Again"
	if code := env.do(t, "POST", "/api/sliders", current, &resp); code != http.StatusOK || resp.Data.Name != "Again" {
		t.Errorf("POST update: %d %+v", code, resp.Data)
	}

	if code := env.do(t, "PUT", "/api/sliders/999", current, nil); code != http.StatusNotFound {
		t.Errorf("PUT missing: %d", code)
	}
}

func TestDeleteSliderDetachesEmbeds(t *testing.T) {
	env := newTestEnv(t)

	var created Response
	env.do(t, "POST", "/api/embeds", CreateEmbedRequest{SliderID: env.demoID}, &created)
	if env.server.embeds.Count() != 1 {
		t.Fatalf("embeds = %d", env.server.embeds.Count())
	}

	path := fmt.Sprintf("/api/sliders/%d", env.demoID)
	var resp Response
	if code := env.do(t, "DELETE", path, nil, &resp); code != http.StatusOK || !resp.OK {
		t.Fatalf("delete: %d %+v", code, resp)
	}
	if env.server.embeds.Count() != 0 {
		t.Errorf("embeds left running: %d", env.server.embeds.Count())
	}
	if code := env.do(t, "DELETE", path, nil, nil); code != http.StatusNotFound {
		t.Errorf("second delete: %d", code)
	}
}

func TestSliderJSONShape(t *testing.T) {
	env := newTestEnv(t)

	var raw map[string]json.RawMessage
	env.do(t, "GET", fmt.Sprintf("/api/sliders/%d", env.demoID), nil, &raw)
	for _, key := range []string{"id", "name", "slides", "settings", "created_at", "updated_at"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	var settings map[string]interface{}
	if err := json.Unmarshal(raw["settings"], &settings); err != nil {
		t.Fatalf("settings: %v", err)
	}
	for _, key := range []string{"autoplay", "autoplay_delay", "transition_speed", "show_dots", "show_arrows",
		"show_progress", "pause_on_hover", "infinite_loop", "height", "animation_type", "color_scheme"} {
		if _, ok := settings[key]; !ok {
			t.Errorf("settings missing key %q", key)
		}
	}
}
