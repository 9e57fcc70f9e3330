package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventHandler records the events it receives.
type MockEventHandler struct {
	HandledCount int
	LastEvent    *Event
	HandlerError error
}

func (h *MockEventHandler) HandleEvent(_ context.Context, event *Event) error {
	h.HandledCount++
	h.LastEvent = event
	return h.HandlerError
}

func TestNewEvent(t *testing.T) {
	projectID := uuid.New()
	event, err := NewEvent(TypeProjectCreated, map[string]string{"project_id": projectID.String()})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeProjectCreated, event.Type)
	assert.False(t, event.CreatedAt.IsZero())

	var payload map[string]string
	require.NoError(t, event.UnmarshalPayload(&payload))
	assert.Equal(t, projectID.String(), payload["project_id"])
}

func TestNewEventUnmarshalablePayload(t *testing.T) {
	_, err := NewEvent(TypeProjectCreated, make(chan int))
	assert.Error(t, err)
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	h := HandlerFunc(func(_ context.Context, e *Event) error {
		got = e
		return errors.New("boom")
	})

	event, err := NewEvent(TypeImageDeleted, nil)
	require.NoError(t, err)
	assert.EqualError(t, h.HandleEvent(context.Background(), event), "boom")
	assert.Same(t, event, got)
}

func TestNopEmitter(t *testing.T) {
	event, err := NewEvent(TypeUserDeleted, nil)
	require.NoError(t, err)
	assert.NoError(t, NopEmitter{}.EmitEvent(context.Background(), event))
}
