package slider

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// ErrNameRequired is returned when a slider is saved without a name.
var ErrNameRequired = errors.New("slider name is required")

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeText strips markup and control characters from a single-line
// field and collapses internal whitespace.
func SanitizeText(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// SanitizeTextarea is SanitizeText for multi-line fields: line breaks are
// kept, each line is cleaned on its own.
func SanitizeTextarea(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = SanitizeText(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// SanitizeURL accepts http, https and mailto URLs plus relative references.
// Anything else becomes the empty string.
func SanitizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return raw
	case "":
		if u.Host != "" {
			// protocol-relative
			return raw
		}
		if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "#") || strings.HasPrefix(raw, "?") {
			return raw
		}
		return ""
	}
	return ""
}

// SanitizeSlide cleans every field of a slide.
func SanitizeSlide(s Slide) Slide {
	return Slide{
		Image:          SanitizeURL(s.Image),
		Title:          SanitizeText(s.Title),
		Subtitle:       SanitizeText(s.Subtitle),
		Description:    SanitizeTextarea(s.Description),
		ButtonText:     SanitizeText(s.ButtonText),
		ButtonURL:      SanitizeURL(s.ButtonURL),
		OverlayOpacity: s.OverlayOpacity.Clamp(),
	}
}

// SanitizeSettings cleans free-text settings and normalizes the rest.
func SanitizeSettings(s Settings) Settings {
	s.Height = SanitizeText(s.Height)
	s.ColorScheme = ColorScheme(SanitizeText(string(s.ColorScheme)))
	return s.Normalize()
}

// Sanitize returns a cleaned copy of a slider about to be saved. ID and
// timestamps are left to the store.
func Sanitize(s Slider) (Slider, error) {
	out := Slider{
		ID:       s.ID,
		Name:     SanitizeText(s.Name),
		Settings: SanitizeSettings(s.Settings),
		Slides:   make([]Slide, 0, len(s.Slides)),
	}
	if out.Name == "" {
		return Slider{}, ErrNameRequired
	}
	for _, slide := range s.Slides {
		out.Slides = append(out.Slides, SanitizeSlide(slide))
	}
	return out, nil
}
