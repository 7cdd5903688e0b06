package binding

import (
	"weak"

	"github.com/google/uuid"

	"github.com/go-drift/controlbind/pkg/diag"
	"github.com/go-drift/controlbind/pkg/errors"
	"github.com/go-drift/controlbind/pkg/event"
)

// Subscriber is the native control's event subscription API.
type Subscriber interface {
	// On registers handler for every native event named event.
	On(event string, handler func(payload any))
}

// Config configures a Handle.
type Config struct {
	// Control names the control type in diagnostics (e.g., "NavigationControl").
	Control string
	// Logger receives every diagnostic. Nil discards them.
	Logger diag.Logger
}

// Handle owns one dispatch closure per route. The closures share a single
// Cell and reach the control only through a weak pointer, so the control may
// own the Handle without forming a cycle.
//
// The closure table is fixed at construction.
type Handle[F, L any] struct {
	id       uuid.UUID
	kinds    []event.Kind
	handlers map[event.Kind]func(payload any)
}

// NewHandle builds the dispatch closures for routes. Every closure resolves
// target on delivery and silently skips it if the control is gone.
func NewHandle[F, L any](target weak.Pointer[F], listener L, routes []Route[F, L], cfg Config) *Handle[F, L] {
	if cfg.Logger == nil {
		cfg.Logger = diag.Nop()
	}
	h := &Handle[F, L]{
		id:       uuid.New(),
		kinds:    make([]event.Kind, 0, len(routes)),
		handlers: make(map[event.Kind]func(payload any), len(routes)),
	}
	cell := NewCell(listener, routes)
	for _, r := range routes {
		if _, dup := h.handlers[r.Kind]; dup {
			continue
		}
		h.kinds = append(h.kinds, r.Kind)
		h.handlers[r.Kind] = h.dispatcher(r, target, cell, cfg)
	}
	return h
}

// ID identifies the binding in diagnostics.
func (h *Handle[F, L]) ID() uuid.UUID {
	return h.id
}

// Kinds returns the bound event kinds in route order.
func (h *Handle[F, L]) Kinds() []event.Kind {
	out := make([]event.Kind, len(h.kinds))
	copy(out, h.kinds)
	return out
}

// Handler returns the dispatch closure for kind.
func (h *Handle[F, L]) Handler(kind event.Kind) (func(payload any), bool) {
	fn, ok := h.handlers[kind]
	return fn, ok
}

// Subscribe registers every dispatch closure with s, one call per kind.
func (h *Handle[F, L]) Subscribe(s Subscriber) {
	for _, kind := range h.kinds {
		s.On(string(kind), h.handlers[kind])
	}
}

func (h *Handle[F, L]) dispatcher(r Route[F, L], target weak.Pointer[F], cell *Cell[F, L], cfg Config) func(payload any) {
	const op = "binding.dispatch"
	log := cfg.Logger
	fields := []any{"control", cfg.Control, "event", string(r.Kind), "binding", h.id.String()}
	fail := func(kind errors.ErrorKind, err error) *errors.BindError {
		return &errors.BindError{Op: op, Kind: kind, Control: cfg.Control, Event: string(r.Kind), Err: err}
	}

	return func(payload any) {
		defer errors.RecoverWithCallback(op, func(p *errors.PanicError) {
			be := fail(errors.KindPanic, p)
			be.StackTrace = p.StackTrace
			log.Error("event handler panicked", be, fields...)
		})

		log.Debug("event received", append(fields, "payload", payload)...)

		control := target.Value()
		if control == nil {
			log.Warn("control no longer exists, dropping event", append(fields, "error", fail(errors.KindGone, errors.ErrGone))...)
			return
		}

		e, err := r.Decode(payload)
		if err != nil {
			log.Error("failed to decode event", fail(errors.KindDecode, err), fields...)
			return
		}

		switch err := cell.TryDispatch(control, e); err {
		case nil:
		case errors.ErrBusy:
			log.Error("event handler is already executing, dropping event", fail(errors.KindBusy, err), fields...)
		default:
			log.Error("failed to dispatch event", fail(errors.KindUnknown, err), fields...)
		}
	}
}
