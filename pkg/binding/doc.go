// Package binding connects native control events to typed listener methods.
//
// A binding has three parts:
//
//   - a static table of [Route] values, one per event kind, pairing a decoder
//     with the listener method that receives the decoded event;
//   - a [Cell] holding the listener behind a non-blocking exclusive guard;
//   - a [Handle] owning one dispatch closure per route.
//
// The control that owns a Handle is reachable from the closures only through
// a weak pointer. Dropping the last strong reference to the control therefore
// releases it even while the native side still holds the closures; later
// deliveries find the weak pointer empty, log a warning, and return.
//
// Closures never panic and never return errors. Payloads that fail to decode,
// deliveries that find the listener already executing, deliveries for a
// released control, and listener panics all end in a diag.Logger call. Events
// are never queued or retried.
package binding
