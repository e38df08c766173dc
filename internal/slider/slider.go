// Package slider defines the slider record and the validated definition
// handed to a carousel instance.
package slider

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timing bounds accepted for a slider. Values outside are clamped.
const (
	MinAutoplayDelayMS   = 1000
	MinTransitionSpeedMS = 200
	MaxTimingMS          = 24 * 60 * 60 * 1000
)

// Defaults applied to new sliders.
const (
	DefaultAutoplayDelayMS   = 5000
	DefaultTransitionSpeedMS = 800
	DefaultHeight            = "500px"
	DefaultOverlayOpacity    = 0.4
	AnimationSlide           = "slide"
)

// ErrNoSlides is returned when a definition carries an empty slide sequence.
var ErrNoSlides = errors.New("slider has no slides")

// ColorScheme selects the theme palette of a rendered slider.
type ColorScheme string

const (
	SchemeLight  ColorScheme = "light"
	SchemeDark   ColorScheme = "dark"
	SchemeViolet ColorScheme = "violet"
)

// Valid reports whether cs is one of the known schemes.
func (cs ColorScheme) Valid() bool {
	switch cs {
	case SchemeLight, SchemeDark, SchemeViolet:
		return true
	}
	return false
}

// Opacity is an overlay opacity in [0,1]. It decodes from either a JSON
// number or a numeric string, since stored sliders carry both.
type Opacity float64

func (o *Opacity) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*o = DefaultOverlayOpacity
		return nil
	}
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("invalid overlay_opacity %s: %w", string(b), err)
	}
	*o = Opacity(f)
	return nil
}

// Clamp limits o to [0,1].
func (o Opacity) Clamp() Opacity {
	switch {
	case o < 0:
		return 0
	case o > 1:
		return 1
	}
	return o
}

// Slide is one entry of a slider: a background image with optional overlay
// text and a call-to-action button.
type Slide struct {
	Image          string  `json:"image"`
	Title          string  `json:"title"`
	Subtitle       string  `json:"subtitle"`
	Description    string  `json:"description"`
	ButtonText     string  `json:"button_text"`
	ButtonURL      string  `json:"button_url"`
	OverlayOpacity Opacity `json:"overlay_opacity"`
}

// HasButton reports whether the slide renders its button.
func (s Slide) HasButton() bool {
	return s.ButtonText != ""
}

// UnmarshalJSON defaults a missing overlay_opacity to DefaultOverlayOpacity.
func (s *Slide) UnmarshalJSON(b []byte) error {
	type plain Slide
	p := plain{OverlayOpacity: DefaultOverlayOpacity}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = Slide(p)
	return nil
}

// Settings are the display and timing options of a slider.
type Settings struct {
	Autoplay          bool        `json:"autoplay"`
	AutoplayDelayMS   int         `json:"autoplay_delay"`
	TransitionSpeedMS int         `json:"transition_speed"`
	ShowDots          bool        `json:"show_dots"`
	ShowArrows        bool        `json:"show_arrows"`
	ShowProgress      bool        `json:"show_progress"`
	PauseOnHover      bool        `json:"pause_on_hover"`
	InfiniteLoop      bool        `json:"infinite_loop"`
	Height            string      `json:"height"`
	AnimationType     string      `json:"animation_type"`
	ColorScheme       ColorScheme `json:"color_scheme"`
}

// DefaultSettings returns the settings given to a newly created slider.
func DefaultSettings() Settings {
	return Settings{
		Autoplay:          true,
		AutoplayDelayMS:   DefaultAutoplayDelayMS,
		TransitionSpeedMS: DefaultTransitionSpeedMS,
		ShowDots:          true,
		ShowArrows:        true,
		ShowProgress:      true,
		PauseOnHover:      true,
		InfiniteLoop:      true,
		Height:            DefaultHeight,
		AnimationType:     AnimationSlide,
		ColorScheme:       SchemeLight,
	}
}

// Normalize returns a copy with timings clamped to [min, MaxTimingMS] and
// enumerations forced to known values.
func (s Settings) Normalize() Settings {
	s.AutoplayDelayMS = clampMS(s.AutoplayDelayMS, MinAutoplayDelayMS)
	s.TransitionSpeedMS = clampMS(s.TransitionSpeedMS, MinTransitionSpeedMS)
	if !s.ColorScheme.Valid() {
		s.ColorScheme = SchemeLight
	}
	if s.Height == "" {
		s.Height = DefaultHeight
	}
	s.AnimationType = AnimationSlide
	return s
}

// AutoplayDelay returns the clamped autoplay interval as a duration.
func (s Settings) AutoplayDelay() time.Duration {
	return time.Duration(clampMS(s.AutoplayDelayMS, MinAutoplayDelayMS)) * time.Millisecond
}

// TransitionSpeed returns the clamped settle delay as a duration.
func (s Settings) TransitionSpeed() time.Duration {
	return time.Duration(clampMS(s.TransitionSpeedMS, MinTransitionSpeedMS)) * time.Millisecond
}

func clampMS(ms, lo int) int {
	switch {
	case ms < lo:
		return lo
	case ms > MaxTimingMS:
		return MaxTimingMS
	}
	return ms
}

// ThemeClass returns the CSS class carried by the slider container.
func (s Settings) ThemeClass() string {
	return "ims-theme-" + string(s.ColorScheme)
}

// UnmarshalJSON starts from DefaultSettings so documents that omit a key
// keep the default rather than the zero value.
func (s *Settings) UnmarshalJSON(b []byte) error {
	type plain Settings
	p := plain(DefaultSettings())
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = Settings(p)
	return nil
}

// Definition is the immutable input of one carousel instance.
type Definition struct {
	Slides   []Slide
	Settings Settings
}

// Validate checks structural preconditions of the definition.
func (d Definition) Validate() error {
	if len(d.Slides) == 0 {
		return ErrNoSlides
	}
	return nil
}

// Slider is a persisted slider record. Slides and Settings are stored as two
// JSON documents.
type Slider struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slides    []Slide   `json:"slides"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Definition returns a carousel definition built from a copy of the record,
// with overlay opacities clamped and settings normalized.
func (s *Slider) Definition() Definition {
	slides := make([]Slide, len(s.Slides))
	for i, sl := range s.Slides {
		sl.OverlayOpacity = sl.OverlayOpacity.Clamp()
		slides[i] = sl
	}
	return Definition{
		Slides:   slides,
		Settings: s.Settings.Normalize(),
	}
}

// EncodeDocuments marshals the two stored JSON documents of a slider.
func EncodeDocuments(slides []Slide, settings Settings) (slidesJSON, settingsJSON []byte, err error) {
	if slides == nil {
		slides = []Slide{}
	}
	slidesJSON, err = json.Marshal(slides)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal slides: %w", err)
	}
	settingsJSON, err = json.Marshal(settings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	return slidesJSON, settingsJSON, nil
}

// DecodeDocuments parses the two stored JSON documents of a slider.
func DecodeDocuments(slidesJSON, settingsJSON []byte) ([]Slide, Settings, error) {
	var slides []Slide
	if len(slidesJSON) > 0 {
		if err := json.Unmarshal(slidesJSON, &slides); err != nil {
			return nil, Settings{}, fmt.Errorf("failed to parse slides JSON: %w", err)
		}
	}
	settings := DefaultSettings()
	if len(settingsJSON) > 0 {
		if err := json.Unmarshal(settingsJSON, &settings); err != nil {
			return nil, Settings{}, fmt.Errorf("failed to parse settings JSON: %w", err)
		}
	}
	return slides, settings, nil
}
