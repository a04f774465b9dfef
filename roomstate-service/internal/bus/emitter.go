// Package bus fans controller output out to in-process subscribers.
package bus

import (
	"sync"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// Handler receives an emitted event. Handlers run synchronously on the
// emitting goroutine and must not block for long.
type Handler func(ev *domain.Event)

type subscription struct {
	id      uint64
	name    domain.EventName // empty for OnAny
	handler Handler
}

// Emitter delivers events to handlers in registration order.
type Emitter struct {
	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewEmitter creates an emitter with no subscribers.
func NewEmitter() *Emitter {
	return &Emitter{}
}

// On registers h for events named name. The returned func unsubscribes.
func (e *Emitter) On(name domain.EventName, h Handler) func() {
	return e.add(name, h)
}

// OnAny registers h for every event. The returned func unsubscribes.
func (e *Emitter) OnAny(h Handler) func() {
	return e.add("", h)
}

func (e *Emitter) add(name domain.EventName, h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, subscription{id: id, name: name, handler: h})

	return func() { e.remove(id) }
}

func (e *Emitter) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers ev to every matching handler.
func (e *Emitter) Emit(ev *domain.Event) {
	e.mu.RLock()
	subs := make([]subscription, len(e.subs))
	copy(subs, e.subs)
	e.mu.RUnlock()

	for _, s := range subs {
		if s.name == "" || s.name == ev.Name {
			s.handler(ev)
		}
	}
}
