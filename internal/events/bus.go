package events

import (
	"sync"

	"github.com/edgeabyss/ridersim/internal/telemetry"
)

// Handler processes an event. Returning an error logs it but does not stop dispatch.
type Handler func(Event) error

// Bus is a synchronous in-process event bus. Subscribers run in registration
// order on the publisher's goroutine, which for rider events is the session
// goroutine. Handlers that do real work (disk, network) should hand off to
// their own channel.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish dispatches an event to every handler registered for its type.
// A failing handler does not stop the others.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(e); err != nil {
			telemetry.Warnf("event handler failed for %s (session %s): %v", e.Type, e.SessionID, err)
		}
	}
}
