package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type updateSummary struct {
	UpdateID  uuid.UUID `json:"update_id"`
	Completed int       `json:"completed"`
}

func TestNewEvent_RoundTripsPayload(t *testing.T) {
	summary := updateSummary{UpdateID: uuid.New(), Completed: 4}

	event, err := NewEvent("tasks.update_completed", summary)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "tasks.update_completed", event.Type)
	assert.Equal(t, time.UTC, event.CreatedAt.Location())
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)
	assert.JSONEq(t, `{"update_id":"`+summary.UpdateID.String()+`","completed":4}`, string(event.Payload))

	var decoded updateSummary
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, summary, decoded)
}

func TestNewEvent_DistinctIDs(t *testing.T) {
	a, err := NewEvent("x", nil)
	require.NoError(t, err)
	b, err := NewEvent("x", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := NewEvent("tasks.update_completed", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tasks.update_completed")
}

func TestUnmarshalPayload_Malformed(t *testing.T) {
	event := &Event{Type: "tasks.update_completed", Payload: []byte(`{"completed":`)}
	var decoded updateSummary
	assert.Error(t, event.UnmarshalPayload(&decoded))
}

// MockEventHandler records what it receives and returns HandlerError.
type MockEventHandler struct {
	LastEvent    *Event
	HandlerError error
	HandledCount int
}

func (h *MockEventHandler) HandleEvent(_ context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	boom := errors.New("boom")
	handler := HandlerFunc(func(_ context.Context, event *Event) error {
		got = event
		return boom
	})

	event, err := NewEvent("tasks.update_completed", nil)
	require.NoError(t, err)

	assert.ErrorIs(t, handler.HandleEvent(context.Background(), event), boom)
	assert.Same(t, event, got)
}
