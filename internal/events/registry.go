package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// slider records
	"slider.created": {},
	"slider.updated": {},
	"slider.deleted": {},
	"slider.seeded":  {},

	// embed sessions
	"embed.attached": {},
	"embed.detached": {},
	"embed.input":    {},
	"embed.rejected": {},

	// carousel notifications
	"carousel.transition_started": {},
	"carousel.transition_ended":   {},
	"carousel.progress":           {},

	// mqtt bridge
	"mqtt.connected":    {},
	"mqtt.disconnected": {},
	"mqtt.error":        {},

	// system
	"system.startup":  {},
	"system.shutdown": {},
	"system.error":    {},
}

// transientEvents are broadcast to live subscribers but neither buffered
// nor logged.
var transientEvents = map[string]struct{}{
	"carousel.progress": {},
}

func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}

// IsTransient reports whether event skips the buffer and the log.
func IsTransient(event string) bool {
	_, ok := transientEvents[event]
	return ok
}
