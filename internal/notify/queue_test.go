package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/paykit/order-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// unique connection name per test to avoid adapter caching across tests
	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func TestQueue_PublishAndConsume(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	queue, err := NewQueue(adapter, QueueConfig{
		Name:          "test:notifications",
		ConsumerGroup: "test-group",
		ConsumerName:  "test-consumer",
		PollInterval:  50 * time.Millisecond,
		BatchSize:     10,
		MaxLen:        1000,
	})
	require.NoError(t, err)
	defer queue.Stop()

	event := EmailEvent{
		Kind:        EmailKindVerification,
		Recipient:   "a@example.com",
		CustomerID:  7,
		VerifyToken: "tok",
	}
	require.NoError(t, queue.PublishEmail(context.Background(), event))

	received := make(chan EmailEvent, 1)
	err = queue.Consume(func(ctx context.Context, msg *Message) error {
		received <- msg.Event
		return nil
	})
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, event, got)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestQueue_RequiresName(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	_, err := NewQueue(adapter, QueueConfig{})
	assert.Error(t, err)
}

func TestQueue_FailedHandlerLeavesMessagePending(t *testing.T) {
	mr, adapter := setupTestRedis(t)
	defer mr.Close()

	queue, err := NewQueue(adapter, QueueConfig{
		Name:          "test:notifications",
		ConsumerGroup: "test-group",
		ConsumerName:  "test-consumer",
		PollInterval:  50 * time.Millisecond,
		BatchSize:     10,
	})
	require.NoError(t, err)
	defer queue.Stop()

	require.NoError(t, queue.PublishEmail(context.Background(), EmailEvent{
		Kind:      EmailKindVerification,
		Recipient: "a@example.com",
	}))

	seen := make(chan struct{}, 1)
	err = queue.Consume(func(ctx context.Context, msg *Message) error {
		seen <- struct{}{}
		return assert.AnError
	})
	require.NoError(t, err)

	select {
	case <-seen:
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	// not acked, so the stream still holds it
	length, err := queue.Len()
	require.NoError(t, err)
	assert.Equal(t, int64(1), length)
}

func TestLogMailer_Send(t *testing.T) {
	mailer := NewLogMailer("http://localhost:8080")

	err := mailer.Send(context.Background(), EmailEvent{
		Kind:        EmailKindVerification,
		Recipient:   "a@example.com",
		VerifyToken: "tok",
	})
	assert.NoError(t, err)

	err = mailer.Send(context.Background(), EmailEvent{Kind: "unknown"})
	assert.Error(t, err)
}
