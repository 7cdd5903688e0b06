package platform

import (
	"sync"
	"sync/atomic"
)

// NativeControl is the Go-side handle of a control owned by the native host.
type NativeControl interface {
	// ControlID returns the unique identifier for this control.
	ControlID() int64

	// ControlType returns the type identifier for this control (e.g., "navigation_control").
	ControlType() string

	// On subscribes handler to every native event named event. Handlers run
	// synchronously on the UI thread, in subscription order.
	On(event string, handler func(payload any))

	// Emit delivers payload to every handler subscribed to event.
	Emit(event string, payload any)

	// Dispose releases Go-side resources for the control.
	Dispose()
}

// ControlFactory creates controls of a specific type.
type ControlFactory interface {
	// Create builds a control instance from construction parameters.
	Create(controlID int64, params map[string]any) (NativeControl, error)

	// ControlType returns the control type this factory creates.
	ControlType() string
}

// baseControl provides the subscription bookkeeping shared by controls.
type baseControl struct {
	controlID   int64
	controlType string

	mu       sync.RWMutex
	handlers map[string][]func(payload any)
	disposed atomic.Bool
}

func (c *baseControl) init(controlID int64, controlType string) {
	c.controlID = controlID
	c.controlType = controlType
	c.handlers = make(map[string][]func(payload any))
}

func (c *baseControl) ControlID() int64 {
	return c.controlID
}

func (c *baseControl) ControlType() string {
	return c.controlType
}

func (c *baseControl) On(event string, handler func(payload any)) {
	if handler == nil {
		return
	}
	c.mu.Lock()
	c.handlers[event] = append(c.handlers[event], handler)
	c.mu.Unlock()
}

// Emit snapshots the handler list so a handler may subscribe or re-enter
// Emit without deadlocking.
func (c *baseControl) Emit(event string, payload any) {
	c.mu.RLock()
	handlers := make([]func(payload any), len(c.handlers[event]))
	copy(handlers, c.handlers[event])
	c.mu.RUnlock()

	for _, h := range handlers {
		h(payload)
	}
}

// Dispose marks the control disposed. Handlers stay attached: deliveries
// already in flight when the native side tears the control down still reach
// them and are dropped there.
func (c *baseControl) Dispose() {
	c.disposed.Store(true)
}

// IsDisposed reports whether Dispose has been called.
func (c *baseControl) IsDisposed() bool {
	return c.disposed.Load()
}
