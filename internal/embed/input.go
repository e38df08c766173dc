package embed

import (
	"errors"
	"fmt"

	"github.com/AaronLay10/SliderEngine/internal/carousel"
)

var (
	ErrUnknownInput = errors.New("unknown input type")
	ErrInvalidInput = errors.New("invalid input")
)

// Input types accepted by Command.
const (
	InputNext         = "next"
	InputPrev         = "prev"
	InputDot          = "dot"
	InputPointerDown  = "pointer_down"
	InputPointerMove  = "pointer_move"
	InputPointerUp    = "pointer_up"
	InputKey          = "key"
	InputPointerEnter = "pointer_enter"
	InputPointerLeave = "pointer_leave"
	InputVisibility   = "visibility"
)

// Command is one user interaction forwarded from a remote client, over HTTP
// or MQTT.
type Command struct {
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Index   int     `json:"index,omitempty"`
	Key     string  `json:"key,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
}

// Validate checks the command carries what its type needs.
func (c Command) Validate() error {
	switch c.Type {
	case InputNext, InputPrev, InputDot, InputPointerDown, InputPointerMove,
		InputPointerUp, InputKey, InputPointerEnter, InputPointerLeave:
		return nil
	case InputVisibility:
		if c.Visible == nil {
			return fmt.Errorf("%w: visibility requires \"visible\"", ErrInvalidInput)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownInput, c.Type)
}

// Apply feeds the command to h and reports whether it started a
// navigation. Commands that only record state report false.
func (c Command) Apply(h *carousel.Handle) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}
	switch c.Type {
	case InputNext:
		return h.Next(), nil
	case InputPrev:
		return h.Prev(), nil
	case InputDot:
		return h.Dot(c.Index), nil
	case InputPointerDown:
		h.PointerDown(c.X)
	case InputPointerMove:
		h.PointerMove(c.X)
	case InputPointerUp:
		return h.PointerUp(c.X), nil
	case InputKey:
		return h.Key(c.Key), nil
	case InputPointerEnter:
		h.PointerEnter()
	case InputPointerLeave:
		h.PointerLeave()
	case InputVisibility:
		h.SetVisible(*c.Visible)
	}
	return false, nil
}
