package slider

import "strings"

// Overrides are per-embed replacements of stored settings, taken from the
// embed's attributes.
type Overrides struct {
	Height   string
	Autoplay string // "true" or "false"; anything else leaves the stored value
}

// Apply returns settings with the overrides applied.
func (o Overrides) Apply(s Settings) Settings {
	if h := SanitizeText(o.Height); h != "" {
		s.Height = h
	}
	switch strings.ToLower(strings.TrimSpace(o.Autoplay)) {
	case "true":
		s.Autoplay = true
	case "false":
		s.Autoplay = false
	}
	return s
}
