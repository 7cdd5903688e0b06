package event

import (
	"fmt"
	"math"
	"time"

	"github.com/go-drift/controlbind/pkg/errors"
)

// KindClick is reported when the user clicks a control.
const KindClick Kind = "click"

// ClickEvent describes a click on a native control.
type ClickEvent struct {
	// X is the horizontal position in logical pixels, relative to the map container.
	X float64 `json:"x" yaml:"x" cbor:"x"`
	// Y is the vertical position in logical pixels, relative to the map container.
	Y float64 `json:"y" yaml:"y" cbor:"y"`
	// Button is the mouse button index (0 is primary).
	Button int `json:"button,omitempty" yaml:"button,omitempty" cbor:"button,omitempty"`
	// Target names the part of the control that was hit, e.g. "zoom-in",
	// "zoom-out", or "compass". Empty when the native side does not say.
	Target string `json:"target,omitempty" yaml:"target,omitempty" cbor:"target,omitempty"`
	// Timestamp is when the native control observed the click. Zero if unknown.
	Timestamp time.Time `json:"-" yaml:"-" cbor:"-"`
}

// Kind implements Event.
func (ClickEvent) Kind() Kind { return KindClick }

// DecodeClick converts an opaque payload into a ClickEvent. The payload must
// carry numeric x and y fields; button, target, and timestamp are optional.
func DecodeClick(payload any) (ClickEvent, error) {
	switch p := payload.(type) {
	case *ClickEvent:
		if p == nil {
			return ClickEvent{}, &errors.DecodeError{Event: string(KindClick), Reason: "nil event"}
		}
		payload = *p
	}
	if e, ok := payload.(ClickEvent); ok {
		if err := e.validate(); err != nil {
			return ClickEvent{}, err
		}
		return e, nil
	}

	m, err := fields(KindClick, payload)
	if err != nil {
		return ClickEvent{}, err
	}

	var e ClickEvent
	if e.X, err = requireCoordinate(m, "x"); err != nil {
		return ClickEvent{}, err
	}
	if e.Y, err = requireCoordinate(m, "y"); err != nil {
		return ClickEvent{}, err
	}

	if v, ok := m["button"]; ok && v != nil {
		b, ok := toInt(v)
		if !ok || b < 0 {
			return ClickEvent{}, fieldError("button", "expected non-negative integer", v)
		}
		e.Button = b
	}
	if v, ok := m["target"]; ok && v != nil {
		s, ok := parseString(v)
		if !ok {
			return ClickEvent{}, fieldError("target", "expected string", v)
		}
		e.Target = s
	}
	if v, ok := m["timestamp"]; ok && v != nil {
		ts, ok := parseTime(v)
		if !ok {
			return ClickEvent{}, fieldError("timestamp", "expected milliseconds since epoch", v)
		}
		e.Timestamp = ts
	}
	return e, nil
}

// validate applies the field rules of the map path to an already typed event.
func (e ClickEvent) validate() error {
	if !finite(e.X) {
		return fieldError("x", "not a finite number", e.X)
	}
	if !finite(e.Y) {
		return fieldError("y", "not a finite number", e.Y)
	}
	if e.Button < 0 {
		return fieldError("button", "expected non-negative integer", e.Button)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func requireCoordinate(m map[string]any, key string) (float64, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, fieldError(key, "missing", nil)
	}
	f, ok := toFloat64(v)
	if !ok {
		return 0, fieldError(key, fmt.Sprintf("expected number, got %T", v), v)
	}
	if !finite(f) {
		return 0, fieldError(key, "not a finite number", v)
	}
	return f, nil
}

func fieldError(field, reason string, got any) *errors.DecodeError {
	return &errors.DecodeError{Event: string(KindClick), Field: field, Reason: reason, Got: got}
}

func init() {
	Register(KindClick, func(payload any) (Event, error) {
		e, err := DecodeClick(payload)
		if err != nil {
			return nil, err
		}
		return e, nil
	})
}
