package platform

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-drift/controlbind/pkg/diag"
	"github.com/go-drift/controlbind/pkg/errors"
)

// ControlsChannel is the method channel used to create and dispose native controls.
const ControlsChannel = "controlbind/controls"

// DisposedEvent is sent by the native side once it has torn a control down.
// Until then, events for a disposed control are still delivered to its
// subscribers.
const DisposedEvent = "disposed"

// NativeBridge defines the interface for calling native platform code.
type NativeBridge interface {
	// InvokeMethod calls a method on the native side.
	InvokeMethod(channel, method string, args []byte) ([]byte, error)
}

// ControlRegistry manages control types and live control instances.
type ControlRegistry struct {
	factories map[string]ControlFactory
	controls  map[int64]NativeControl
	retired   map[int64]NativeControl
	nextID    atomic.Int64
	mu        sync.RWMutex

	bridgeMu sync.RWMutex
	bridge   NativeBridge
	codec    MessageCodec
	logger   diag.Logger

	channel *MethodChannel
}

// NewControlRegistry creates a registry with the built-in control factories
// registered. A nil bridge leaves the registry unable to create controls
// until SetBridge is called.
func NewControlRegistry(bridge NativeBridge) *ControlRegistry {
	r := &ControlRegistry{
		factories: make(map[string]ControlFactory),
		controls:  make(map[int64]NativeControl),
		retired:   make(map[int64]NativeControl),
		bridge:    bridge,
		codec:     DefaultCodec,
		logger:    diag.Nop(),
	}
	r.channel = &MethodChannel{name: ControlsChannel, registry: r}
	for _, f := range builtinFactories {
		r.RegisterFactory(f())
	}
	return r
}

var (
	defaultRegistryMu sync.Mutex
	defaultRegistry   *ControlRegistry
)

// GetControlRegistry returns the global control registry.
func GetControlRegistry() *ControlRegistry {
	defaultRegistryMu.Lock()
	defer defaultRegistryMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = NewControlRegistry(nil)
	}
	return defaultRegistry
}

// builtinFactories holds constructors for factories every registry starts with.
var builtinFactories []func() ControlFactory

// SetNativeBridge sets the native bridge of the global registry.
// Called by the bridge package during initialization.
func SetNativeBridge(bridge NativeBridge) {
	GetControlRegistry().SetBridge(bridge)
}

// SetBridge replaces the registry's native bridge.
func (r *ControlRegistry) SetBridge(bridge NativeBridge) {
	r.bridgeMu.Lock()
	r.bridge = bridge
	r.bridgeMu.Unlock()
}

// SetCodec replaces the codec used for method arguments and event payloads.
// Nil restores DefaultCodec.
func (r *ControlRegistry) SetCodec(codec MessageCodec) {
	if codec == nil {
		codec = DefaultCodec
	}
	r.bridgeMu.Lock()
	r.codec = codec
	r.bridgeMu.Unlock()
}

// SetLogger sets where bridge-side failures are reported. Nil discards them.
func (r *ControlRegistry) SetLogger(logger diag.Logger) {
	if logger == nil {
		logger = diag.Nop()
	}
	r.bridgeMu.Lock()
	r.logger = logger
	r.bridgeMu.Unlock()
}

func (r *ControlRegistry) bridgeAndCodec() (NativeBridge, MessageCodec) {
	r.bridgeMu.RLock()
	defer r.bridgeMu.RUnlock()
	return r.bridge, r.codec
}

func (r *ControlRegistry) log() diag.Logger {
	r.bridgeMu.RLock()
	defer r.bridgeMu.RUnlock()
	return r.logger
}

// RegisterFactory registers a factory for a control type.
func (r *ControlRegistry) RegisterFactory(factory ControlFactory) {
	r.mu.Lock()
	r.factories[factory.ControlType()] = factory
	r.mu.Unlock()
}

// Create creates a new control of the given type and asks the native side to
// build it. The Go-side control is discarded if native creation fails.
func (r *ControlRegistry) Create(controlType string, params map[string]any) (NativeControl, error) {
	r.mu.RLock()
	factory, ok := r.factories[controlType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrControlTypeNotFound, controlType)
	}

	controlID := r.nextID.Add(1)

	control, err := factory.Create(controlID, params)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.controls[controlID] = control
	r.mu.Unlock()

	_, err = r.channel.Invoke("create", map[string]any{
		"controlId":   controlID,
		"controlType": controlType,
		"params":      params,
	})
	if err != nil {
		r.mu.Lock()
		delete(r.controls, controlID)
		r.mu.Unlock()
		control.Dispose()
		return nil, err
	}

	return control, nil
}

// Dispose destroys a control and asks the native side to tear it down. The
// control stops being live immediately but keeps receiving events until the
// native side sends DisposedEvent. Disposing an unknown ID is a no-op.
func (r *ControlRegistry) Dispose(controlID int64) {
	r.mu.Lock()
	control, ok := r.controls[controlID]
	if ok {
		delete(r.controls, controlID)
		r.retired[controlID] = control
	}
	r.mu.Unlock()

	if !ok {
		return
	}
	control.Dispose()
	if _, err := r.channel.Invoke("dispose", map[string]any{"controlId": controlID}); err != nil {
		// No acknowledgement will follow.
		r.forget(controlID)
		r.log().Error("failed to dispose native control", &errors.BindError{
			Op:      "platform.Dispose",
			Kind:    errors.KindPlatform,
			Control: control.ControlType(),
			Err:     err,
		}, "control_id", controlID)
	}
}

func (r *ControlRegistry) forget(controlID int64) {
	r.mu.Lock()
	delete(r.retired, controlID)
	r.mu.Unlock()
}

// IsDisposing reports whether a control was disposed and the native side has
// not acknowledged the teardown yet.
func (r *ControlRegistry) IsDisposing(controlID int64) bool {
	r.mu.RLock()
	_, ok := r.retired[controlID]
	r.mu.RUnlock()
	return ok
}

// GetControl returns a live control by ID, or nil.
func (r *ControlRegistry) GetControl(controlID int64) NativeControl {
	r.mu.RLock()
	control := r.controls[controlID]
	r.mu.RUnlock()
	return control
}

// Len returns the number of live controls.
func (r *ControlRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.controls)
}

// lookup returns a live or disposing control.
func (r *ControlRegistry) lookup(controlID int64) (control NativeControl, disposing bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.controls[controlID]; ok {
		return c, false
	}
	c, ok := r.retired[controlID]
	return c, ok
}

// HandleEvent is called from the bridge when a native control emits an
// event. The payload is decoded with the registry codec and delivered
// synchronously to the control's subscribers. Events still in flight for a
// disposed control are delivered until the native side sends DisposedEvent.
func (r *ControlRegistry) HandleEvent(controlID int64, event string, data []byte) error {
	control, disposing := r.lookup(controlID)
	if disposing && event == DisposedEvent {
		r.forget(controlID)
		r.log().Debug("native control torn down", "control_id", controlID)
		return nil
	}
	if control == nil {
		err := fmt.Errorf("%w: %d", ErrControlNotFound, controlID)
		r.log().Warn("event for unknown control", "control_id", controlID, "event", event, "error", err)
		return err
	}

	_, codec := r.bridgeAndCodec()
	payload, err := codec.Decode(data)
	if err != nil {
		be := &errors.BindError{
			Op:      "platform.HandleEvent",
			Kind:    errors.KindDecode,
			Control: control.ControlType(),
			Event:   event,
			Err:     err,
		}
		r.log().Error("failed to decode native event", be, "control_id", controlID)
		return be
	}

	control.Emit(event, payload)
	return nil
}

// HandleEvent routes a native event through the global registry.
func HandleEvent(controlID int64, event string, data []byte) error {
	return GetControlRegistry().HandleEvent(controlID, event, data)
}

// ResetForTest resets all global platform state for test isolation. It
// replaces the global registry, clears the native bridge, and removes the
// dispatch function. This should only be called from tests.
func ResetForTest() {
	defaultRegistryMu.Lock()
	defaultRegistry = nil
	defaultRegistryMu.Unlock()

	dispatchMu.Lock()
	dispatchFunc = nil
	dispatchMu.Unlock()
}
