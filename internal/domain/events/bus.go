package events

import (
	"sync"

	"github.com/GriffinCanCode/miniapp/backend/internal/shared/id"
)

// Wildcard is the event name whose handlers receive every event.
const Wildcard = "*"

// Event is one emission delivered to handlers.
type Event struct {
	Name    string `json:"name"`
	Payload any    `json:"payload"`
}

// Handler receives events.
type Handler func(Event)

// Observer is notified after each emission with the number of handlers that
// were invoked.
type Observer func(name string, delivered int)

// Option configures an Emitter.
type Option func(*Emitter)

// WithObserver registers an emission observer.
func WithObserver(o Observer) Option {
	return func(e *Emitter) {
		e.observer = o
	}
}

type listener struct {
	id      id.SubscriptionID
	handler Handler
}

// Emitter is the event bus. The zero value is not usable; use New.
type Emitter struct {
	mu       sync.RWMutex
	all      map[string][]listener
	observer Observer
}

// New creates an empty bus.
func New(opts ...Option) *Emitter {
	e := &Emitter{
		all: make(map[string][]listener),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// On registers h for name. Registering the same handler twice makes it fire
// twice. Use Wildcard to receive every event.
func (e *Emitter) On(name string, h Handler) Subscription {
	l := listener{id: id.NewSubscriptionID(), handler: h}

	e.mu.Lock()
	e.all[name] = append(e.all[name], l)
	e.mu.Unlock()

	return Subscription{bus: e, name: name, id: l.id}
}

// OnAny registers h for every event.
func (e *Emitter) OnAny(h Handler) Subscription {
	return e.On(Wildcard, h)
}

// Off removes every handler registered for name.
func (e *Emitter) Off(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.all, name)
}

// Clear removes every handler.
func (e *Emitter) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.all = make(map[string][]listener)
}

// Emit delivers payload to the handlers of name, then to wildcard handlers.
func (e *Emitter) Emit(name string, payload any) {
	e.mu.RLock()
	targets := make([]Handler, 0, len(e.all[name])+len(e.all[Wildcard]))
	for _, l := range e.all[name] {
		targets = append(targets, l.handler)
	}
	if name != Wildcard {
		for _, l := range e.all[Wildcard] {
			targets = append(targets, l.handler)
		}
	}
	observer := e.observer
	e.mu.RUnlock()

	evt := Event{Name: name, Payload: payload}
	for _, h := range targets {
		h(evt)
	}

	if observer != nil {
		observer(name, len(targets))
	}
}

// All returns the name to handlers mapping, in registration order, as of
// the time of the call. The result is a copy: editing it does not change the
// bus, and later On or Off calls are not reflected in it.
func (e *Emitter) All() map[string][]Handler {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string][]Handler, len(e.all))
	for name, ls := range e.all {
		hs := make([]Handler, len(ls))
		for i, l := range ls {
			hs[i] = l.handler
		}
		out[name] = hs
	}
	return out
}

// Count returns the number of handlers registered for name.
func (e *Emitter) Count(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.all[name])
}

// Names returns a handler count per registered event name.
func (e *Emitter) Names() map[string]int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]int, len(e.all))
	for name, ls := range e.all {
		out[name] = len(ls)
	}
	return out
}

func (e *Emitter) remove(name string, sid id.SubscriptionID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls := e.all[name]
	for i, l := range ls {
		if l.id != sid {
			continue
		}
		next := make([]listener, 0, len(ls)-1)
		next = append(next, ls[:i]...)
		next = append(next, ls[i+1:]...)
		if len(next) == 0 {
			delete(e.all, name)
		} else {
			e.all[name] = next
		}
		return true
	}
	return false
}
