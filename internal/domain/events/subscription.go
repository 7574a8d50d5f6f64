package events

import "github.com/GriffinCanCode/miniapp/backend/internal/shared/id"

// Subscription identifies one registration made with On.
type Subscription struct {
	bus  *Emitter
	name string
	id   id.SubscriptionID
}

// ID returns the subscription identifier.
func (s Subscription) ID() id.SubscriptionID { return s.id }

// Name returns the event name the handler was registered for.
func (s Subscription) Name() string { return s.name }

// Cancel removes this registration. It reports whether the registration was
// still present.
func (s Subscription) Cancel() bool {
	if s.bus == nil {
		return false
	}
	return s.bus.remove(s.name, s.id)
}

// Subscribe registers a typed handler. Events whose payload is not a T are
// skipped.
func Subscribe[T any](bus *Emitter, name string, fn func(T)) Subscription {
	return bus.On(name, func(e Event) {
		if v, ok := e.Payload.(T); ok {
			fn(v)
		}
	})
}
