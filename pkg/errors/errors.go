// Package errors provides structured error handling for control bindings.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPlatform indicates a native bridge or control registry error.
	KindPlatform
	// KindDecode indicates an event payload could not be decoded.
	KindDecode
	// KindBusy indicates a delivery was rejected because the listener was
	// already executing.
	KindBusy
	// KindGone indicates the control facade was released before delivery.
	KindGone
	// KindInit indicates the native control could not be constructed.
	KindInit
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindDecode:
		return "decode"
	case KindBusy:
		return "busy"
	case KindGone:
		return "gone"
	case KindInit:
		return "init"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Sentinel errors for the binding layer.
var (
	// ErrBusy is returned when a listener is already executing.
	ErrBusy = errors.New("handler already executing")

	// ErrGone is reported when the control was released before an event arrived.
	ErrGone = errors.New("control no longer exists")

	// ErrUnroutable is returned when no route exists for an event kind.
	ErrUnroutable = errors.New("no route for event kind")

	// ErrUnknownKind is returned when no decoder exists for an event kind.
	ErrUnknownKind = errors.New("unknown event kind")
)

// BindError represents a structured error raised while binding or
// delivering events to a control.
type BindError struct {
	// Op is the operation that failed (e.g., "navigation.Attach").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Control names the control type, if applicable.
	Control string
	// Event is the event kind being delivered, if applicable.
	Event string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *BindError) Error() string {
	if e.Event != "" {
		return fmt.Sprintf("%s [%s] event=%s: %v", e.Op, e.Kind, e.Event, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first BindError in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	var be *BindError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindUnknown
}

// DecodeError represents a failure to decode an event payload.
type DecodeError struct {
	// Event is the event kind being decoded.
	Event string
	// Field is the payload field at fault, empty if the payload as a whole
	// was rejected.
	Field string
	// Reason is a human-readable cause.
	Reason string
	// Got is the value received.
	Got any
	// Err is an underlying parser error, if any.
	Err error
}

func (e *DecodeError) Error() string {
	msg := "failed to decode " + e.Event + " event"
	if e.Field != "" {
		msg += ": field " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "binding.dispatch").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}
