package navigation

import "github.com/go-drift/controlbind/pkg/event"

// Listener receives events from a NavigationControl. Each method runs on the
// UI thread and must return before the native callback does.
//
// Embed BaseListener to pick up no-op defaults and override only the events
// you need. New event kinds are added here together with a no-op on
// BaseListener, so embedders keep compiling.
type Listener interface {
	// OnClick is called when the user clicks the control.
	OnClick(c *NavigationControl, e event.ClickEvent)
}

// BaseListener implements every Listener method as a no-op.
type BaseListener struct{}

// OnClick does nothing.
func (BaseListener) OnClick(*NavigationControl, event.ClickEvent) {}

// ListenerFuncs adapts plain functions to Listener. Nil fields are no-ops.
type ListenerFuncs struct {
	Click func(c *NavigationControl, e event.ClickEvent)
}

// OnClick calls f.Click if set.
func (f ListenerFuncs) OnClick(c *NavigationControl, e event.ClickEvent) {
	if f.Click != nil {
		f.Click(c, e)
	}
}

var (
	_ Listener = BaseListener{}
	_ Listener = ListenerFuncs{}
)
