package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/phrazzld/projpool-api/internal/events"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange string
	key      string
	msg      amqp091.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp091.Publishing) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublisherHandleEvent(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "projpool.events", nil)

	event, err := events.NewEvent(events.TypeImageUploaded, map[string]string{"image_id": "abc"})
	require.NoError(t, err)

	require.NoError(t, p.HandleEvent(context.Background(), event))
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, "projpool.events", got.exchange)
	assert.Equal(t, events.TypeImageUploaded, got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)
	assert.Equal(t, amqp091.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, event.ID.String(), got.msg.MessageId)

	var decoded events.Event
	require.NoError(t, json.Unmarshal(got.msg.Body, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.JSONEq(t, `{"image_id":"abc"}`, string(decoded.Payload))
}

func TestPublisherHandleEventError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel/connection is not open")}
	p := newPublisher(ch, "projpool.events", nil)

	event, err := events.NewEvent(events.TypeProjectDeleted, nil)
	require.NoError(t, err)

	assert.Error(t, p.HandleEvent(context.Background(), event))
}

func TestPublisherClose(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "projpool.events", nil)

	assert.False(t, p.IsConnected())
	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublisherWithEmitter(t *testing.T) {
	ch := &fakeChannel{}
	emitter := events.NewInMemoryEventEmitter(nil)
	emitter.RegisterHandler(newPublisher(ch, "projpool.events", nil))

	event, err := events.NewEvent(events.TypeUserRegistered, map[string]string{"username": "ada"})
	require.NoError(t, err)
	require.NoError(t, emitter.EmitEvent(context.Background(), event))
	assert.Len(t, ch.published, 1)
}
