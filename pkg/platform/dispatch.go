package platform

import "sync"

// Native hosts deliver events on their own threads. Control handlers expect
// the UI thread, so bridges hop through the registered dispatch function
// before routing an event.

var (
	dispatchMu   sync.RWMutex
	dispatchFunc func(callback func())
)

// RegisterDispatch installs the function that schedules callbacks on the UI
// thread. Hosts call it once during startup; nil unregisters it.
func RegisterDispatch(fn func(callback func())) {
	dispatchMu.Lock()
	dispatchFunc = fn
	dispatchMu.Unlock()
}

// Inline runs callbacks immediately on the calling goroutine. Use it when the
// bridge already calls in on the UI thread.
func Inline(callback func()) { callback() }

// Dispatch schedules callback on the UI thread. It returns false when no
// dispatch function is installed or callback is nil.
func Dispatch(callback func()) bool {
	dispatchMu.RLock()
	fn := dispatchFunc
	dispatchMu.RUnlock()
	if fn == nil || callback == nil {
		return false
	}
	fn(callback)
	return true
}

// PostEvent schedules HandleEvent on the UI thread for the global registry
// and reports whether the event was scheduled. Routing errors are reported
// through the registry logger.
func PostEvent(controlID int64, event string, data []byte) bool {
	return Dispatch(func() {
		_ = HandleEvent(controlID, event, data)
	})
}
