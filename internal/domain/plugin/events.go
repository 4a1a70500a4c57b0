package plugin

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the registry.
const (
	// EventPluginRegistered fires after a plugin's install hook succeeds.
	EventPluginRegistered = "plugin:registered"
	// EventPluginUnregistered fires after a plugin has been removed.
	EventPluginUnregistered = "plugin:unregistered"
)

// Event is a fire-and-forget lifecycle notification. Events carry no
// inputs to the resolution algorithm.
type Event struct {
	// ID uniquely identifies this event instance.
	ID string
	// Type is one of the Event* constants.
	Type string
	// Plugin is the name of the plugin the event concerns.
	Plugin string
	// Time is when the event was emitted.
	Time time.Time
}

// Handler receives emitted events.
type Handler func(Event)

// Emitter dispatches lifecycle events to subscribed handlers.
type Emitter struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewEmitter creates a new event emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for the given event type and returns a
// function that removes the subscription.
func (e *Emitter) Subscribe(eventType string, h Handler) func() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handlers[eventType] = append(e.handlers[eventType], h)
	idx := len(e.handlers[eventType]) - 1

	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		handlers := e.handlers[eventType]
		if idx < len(handlers) && handlers[idx] != nil {
			handlers[idx] = nil
		}
	}
}

// Emit dispatches an event of the given type to all subscribed handlers.
// Handlers run synchronously in subscription order.
func (e *Emitter) Emit(eventType, pluginName string) {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers[eventType]))
	copy(handlers, e.handlers[eventType])
	e.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	event := Event{
		ID:     uuid.NewString(),
		Type:   eventType,
		Plugin: pluginName,
		Time:   time.Now(),
	}
	for _, h := range handlers {
		if h != nil {
			h(event)
		}
	}
}
