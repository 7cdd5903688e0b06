package binding

import (
	"sync"

	"github.com/go-drift/controlbind/pkg/errors"
	"github.com/go-drift/controlbind/pkg/event"
)

// Route connects one event kind to its decoder and to the listener method
// that receives it. A control declares its supported kinds as a static slice
// of routes.
type Route[F, L any] struct {
	// Kind is the event kind name passed to the native control.
	Kind event.Kind
	// Decode converts the native payload into a typed event.
	Decode event.DecodeFunc
	// Invoke calls the listener method for this kind.
	Invoke func(listener L, control *F, e event.Event)
}

// Cell guards the single listener shared by every dispatch closure of a
// binding. Access is exclusive and never blocks: a delivery that finds the
// listener already executing is rejected with errors.ErrBusy.
type Cell[F, L any] struct {
	mu       sync.Mutex
	listener L
	routes   map[event.Kind]func(L, *F, event.Event)
}

// NewCell wraps listener behind an exclusive-access guard.
func NewCell[F, L any](listener L, routes []Route[F, L]) *Cell[F, L] {
	c := &Cell[F, L]{
		listener: listener,
		routes:   make(map[event.Kind]func(L, *F, event.Event), len(routes)),
	}
	for _, r := range routes {
		c.routes[r.Kind] = r.Invoke
	}
	return c
}

// TryDispatch invokes the listener method matching e's kind. It returns
// errors.ErrBusy without touching the listener if another dispatch holds the
// cell, including a re-entrant one from further up the same call stack.
func (c *Cell[F, L]) TryDispatch(control *F, e event.Event) error {
	invoke, ok := c.routes[e.Kind()]
	if !ok {
		return errors.ErrUnroutable
	}
	if !c.mu.TryLock() {
		return errors.ErrBusy
	}
	defer c.mu.Unlock()
	invoke(c.listener, control, e)
	return nil
}
