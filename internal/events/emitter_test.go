package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEmitter() *InMemoryEventEmitter {
	return NewInMemoryEventEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func mustEvent(t *testing.T, eventType string) *Event {
	t.Helper()
	event, err := NewEvent(eventType, map[string]int{"total": 4})
	require.NoError(t, err)
	return event
}

func TestInMemoryEventEmitter_NoHandlers(t *testing.T) {
	emitter := newTestEmitter()
	assert.NoError(t, emitter.EmitEvent(context.Background(), mustEvent(t, "tasks.update_completed")))
}

func TestInMemoryEventEmitter_DeliversToAllHandlers(t *testing.T) {
	emitter := newTestEmitter()
	first := &MockEventHandler{}
	second := &MockEventHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := mustEvent(t, "tasks.update_completed")
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	assert.Equal(t, 1, first.HandledCount)
	assert.Equal(t, 1, second.HandledCount)
	assert.Same(t, event, first.LastEvent)
	assert.Same(t, event, second.LastEvent)
}

func TestInMemoryEventEmitter_SubscribeFiltersByType(t *testing.T) {
	emitter := newTestEmitter()
	updates := &MockEventHandler{}
	everything := &MockEventHandler{}
	emitter.Subscribe("tasks.update_completed", updates)
	emitter.RegisterHandler(everything)

	require.NoError(t, emitter.EmitEvent(context.Background(), mustEvent(t, "tasks.added")))
	require.NoError(t, emitter.EmitEvent(context.Background(), mustEvent(t, "tasks.update_completed")))

	assert.Equal(t, 1, updates.HandledCount)
	assert.Equal(t, "tasks.update_completed", updates.LastEvent.Type)
	assert.Equal(t, 2, everything.HandledCount)
}

func TestInMemoryEventEmitter_FailingHandlerDoesNotStopDelivery(t *testing.T) {
	emitter := newTestEmitter()
	errFirst := errors.New("first failed")
	errSecond := errors.New("second failed")
	failing := &MockEventHandler{HandlerError: errFirst}
	alsoFailing := &MockEventHandler{HandlerError: errSecond}
	ok := &MockEventHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(ok)
	emitter.RegisterHandler(alsoFailing)

	err := emitter.EmitEvent(context.Background(), mustEvent(t, "tasks.update_completed"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errFirst)
	assert.ErrorIs(t, err, errSecond)

	assert.Equal(t, 1, failing.HandledCount)
	assert.Equal(t, 1, ok.HandledCount)
	assert.Equal(t, 1, alsoFailing.HandledCount)
}
