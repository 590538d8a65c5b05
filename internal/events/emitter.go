package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// subscription binds a handler to one event type, or to every type when
// eventType is empty.
type subscription struct {
	eventType string
	handler   EventHandler
}

func (s subscription) matches(event *Event) bool {
	return s.eventType == "" || s.eventType == event.Type
}

// InMemoryEventEmitter dispatches events synchronously to the handlers
// registered with it, in registration order.
type InMemoryEventEmitter struct {
	mu     sync.RWMutex
	subs   []subscription
	logger *slog.Logger
}

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	return &InMemoryEventEmitter{
		logger: logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler subscribes handler to every event.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.Subscribe("", handler)
}

// Subscribe registers handler for events of the given type only.
func (e *InMemoryEventEmitter) Subscribe(eventType string, handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subs = append(e.subs, subscription{eventType: eventType, handler: handler})
	e.logger.Debug("registered event handler", "event_type", eventType, "handler_count", len(e.subs))
}

// EmitEvent delivers event to every matching handler. A failing handler
// does not stop delivery; all handler errors are joined in the result.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *Event) error {
	e.mu.RLock()
	subs := make([]subscription, 0, len(e.subs))
	for _, s := range e.subs {
		if s.matches(event) {
			subs = append(subs, s)
		}
	}
	e.mu.RUnlock()

	logger := e.logger.With("event_id", event.ID, "event_type", event.Type)
	if len(subs) == 0 {
		logger.Debug("no handlers for event")
		return nil
	}

	var errs []error
	for i, s := range subs {
		if err := s.handler.HandleEvent(ctx, event); err != nil {
			logger.Error("handler failed to process event", "error", err, "handler_index", i)
			errs = append(errs, fmt.Errorf("handler %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
