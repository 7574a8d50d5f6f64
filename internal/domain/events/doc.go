// Package events provides the shell's publish/subscribe bus for cross-page
// communication.
//
// Delivery is synchronous: Emit invokes every handler registered for the
// event name at the time of the call, in registration order, followed by the
// wildcard ("*") handlers. Handlers run outside the bus lock, so they may
// subscribe, cancel or emit re-entrantly. A panicking handler propagates to
// the caller of Emit.
//
// Example Usage:
//
//	bus := events.New()
//	sub := bus.On("app:tick", func(e events.Event) {
//	    fmt.Println(e.Payload)
//	})
//	bus.Emit("app:tick", "tick")
//	sub.Cancel()
package events
