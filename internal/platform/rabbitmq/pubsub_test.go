package rabbitmq

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSubRoundTrip(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("Skipping integration test: RABBITMQ_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := New(ctx, url)
	require.NoError(t, err)
	defer conn.Close()

	pubsub := NewPubSub(conn, 4, nil)
	defer pubsub.Close()

	topic := "docanalyzer.test." + watermill.NewShortUUID()
	messages, err := pubsub.Subscribe(ctx, topic)
	require.NoError(t, err)

	sent := message.NewMessage(watermill.NewUUID(), []byte(`{"request_id":"req_1"}`))
	sent.Metadata.Set("content_type", "application/json")
	require.NoError(t, pubsub.Publish(topic, sent))

	select {
	case got := <-messages:
		assert.Equal(t, sent.UUID, got.UUID)
		assert.Equal(t, string(sent.Payload), string(got.Payload))
		assert.Equal(t, "application/json", got.Metadata.Get("content_type"))
		got.Ack()
	case <-ctx.Done():
		t.Fatal("message not delivered")
	}
}

func TestClosedPubSubRejectsUse(t *testing.T) {
	pubsub := NewPubSub(nil, 0, nil)
	require.NoError(t, pubsub.Close())

	assert.ErrorIs(t, pubsub.Publish("t", message.NewMessage("1", nil)), ErrPubSubClosed)
	_, err := pubsub.Subscribe(context.Background(), "t")
	assert.ErrorIs(t, err, ErrPubSubClosed)
}
