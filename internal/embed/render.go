package embed

import (
	"github.com/google/uuid"

	"github.com/AaronLay10/SliderEngine/internal/slider"
)

// RenderedSlide is one slide as the render layer draws it.
type RenderedSlide struct {
	slider.Slide
	Active     bool `json:"active"`
	ShowButton bool `json:"show_button"`
}

// Payload is everything a renderer needs to draw one embed: the container
// id and theme, the effective settings, and the slides.
type Payload struct {
	InstanceID string          `json:"instance_id"`
	SliderID   int64           `json:"slider_id"`
	ThemeClass string          `json:"theme_class"`
	Settings   slider.Settings `json:"settings"`
	Slides     []RenderedSlide `json:"slides"`
	Dots       int             `json:"dots"`
}

// InstanceID returns a fresh container id for a render of slider id.
func InstanceID(id int64) string {
	return "ims-slider-" + formatID(id) + "-" + uuid.NewString()
}

// Render builds the payload for rec with ov applied. The first slide is
// active.
func Render(rec slider.Slider, ov slider.Overrides) Payload {
	def := rec.Definition()
	settings := ov.Apply(def.Settings)

	p := Payload{
		InstanceID: InstanceID(rec.ID),
		SliderID:   rec.ID,
		ThemeClass: settings.ThemeClass(),
		Settings:   settings,
		Slides:     make([]RenderedSlide, 0, len(def.Slides)),
	}
	for i, s := range def.Slides {
		p.Slides = append(p.Slides, RenderedSlide{
			Slide:      s,
			Active:     i == 0,
			ShowButton: s.HasButton(),
		})
	}
	if settings.ShowDots {
		p.Dots = len(def.Slides)
	}
	return p
}
