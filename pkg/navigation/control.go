// Package navigation binds application listeners to the native navigation
// control (zoom buttons and compass).
//
// Attach builds the native control and returns the NavigationControl that
// owns it. The returned value is the only thing the application needs to keep
// alive; once it becomes unreachable the native control is disposed and any
// event still delivered to it is dropped with a warning.
package navigation

import (
	"runtime"
	"sync/atomic"
	"weak"

	"github.com/google/uuid"

	"github.com/go-drift/controlbind/pkg/binding"
	"github.com/go-drift/controlbind/pkg/diag"
	"github.com/go-drift/controlbind/pkg/errors"
	"github.com/go-drift/controlbind/pkg/event"
	"github.com/go-drift/controlbind/pkg/platform"
)

const controlName = "NavigationControl"

// routes lists every event kind the navigation control delivers.
var routes = []binding.Route[NavigationControl, Listener]{
	{
		Kind:   event.KindClick,
		Decode: decoder(event.KindClick),
		Invoke: func(l Listener, c *NavigationControl, e event.Event) {
			l.OnClick(c, e.(event.ClickEvent))
		},
	},
}

func decoder(kind event.Kind) event.DecodeFunc {
	return func(payload any) (event.Event, error) {
		return event.Decode(kind, payload)
	}
}

// NavigationControl owns a native navigation control and the binding that
// delivers its events to a Listener.
type NavigationControl struct {
	native  platform.NativeControl
	options Options

	handle atomic.Pointer[binding.Handle[NavigationControl, Listener]]
}

type attachConfig struct {
	registry *platform.ControlRegistry
	logger   diag.Logger
}

// AttachOption customizes Attach.
type AttachOption func(*attachConfig)

// WithLogger sets where binding diagnostics go. The default discards them.
func WithLogger(l diag.Logger) AttachOption {
	return func(c *attachConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry creates the native control through r instead of the global
// registry.
func WithRegistry(r *platform.ControlRegistry) AttachOption {
	return func(c *attachConfig) {
		if r != nil {
			c.registry = r
		}
	}
}

// Attach builds a native navigation control from opts and binds l to its
// events. A nil listener ignores every event.
//
// Only construction can fail; once Attach returns, delivery problems are
// reported through the logger and never reach the caller.
func Attach(opts Options, l Listener, attachOpts ...AttachOption) (*NavigationControl, error) {
	const op = "navigation.Attach"

	cfg := attachConfig{logger: diag.Nop()}
	for _, o := range attachOpts {
		o(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = platform.GetControlRegistry()
	}
	if l == nil {
		l = BaseListener{}
	}

	if err := opts.Validate(); err != nil {
		return nil, &errors.BindError{Op: op, Kind: errors.KindInit, Control: controlName, Err: err}
	}
	native, err := cfg.registry.Create(platform.NavigationControlType, opts.Build())
	if err != nil {
		return nil, &errors.BindError{Op: op, Kind: errors.KindInit, Control: controlName, Err: err}
	}

	c := &NavigationControl{
		native:  native,
		options: opts,
	}

	h := binding.NewHandle(weak.Make(c), l, routes, binding.Config{
		Control: controlName,
		Logger:  cfg.logger,
	})
	h.Subscribe(native)
	c.setHandle(h)

	runtime.AddCleanup(c, disposeOnUIThread(cfg.registry), native.ControlID())

	cfg.logger.Debug("control attached",
		"control", controlName,
		"control_id", native.ControlID(),
		"binding", h.ID().String())
	return c, nil
}

// disposeOnUIThread returns the cleanup run once a control is collected.
// Cleanups run on a runtime goroutine, so the dispose is posted to the UI
// thread when a dispatch function is installed.
func disposeOnUIThread(registry *platform.ControlRegistry) func(controlID int64) {
	return func(controlID int64) {
		if !platform.Dispatch(func() { registry.Dispose(controlID) }) {
			registry.Dispose(controlID)
		}
	}
}

func (c *NavigationControl) setHandle(h *binding.Handle[NavigationControl, Listener]) {
	if !c.handle.CompareAndSwap(nil, h) {
		panic("navigation: binding handle already set")
	}
}

// ControlID returns the native control's identifier.
func (c *NavigationControl) ControlID() int64 {
	return c.native.ControlID()
}

// Options returns the options the control was attached with.
func (c *NavigationControl) Options() Options {
	return c.options
}

// Native returns the underlying native control.
func (c *NavigationControl) Native() platform.NativeControl {
	return c.native
}

// BindingID identifies this control's binding in diagnostics.
func (c *NavigationControl) BindingID() uuid.UUID {
	if h := c.handle.Load(); h != nil {
		return h.ID()
	}
	return uuid.Nil
}
