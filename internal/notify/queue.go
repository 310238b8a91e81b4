package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/paykit/order-gateway/pkg/redis"
)

type QueueConfig struct {
	Name          string
	ConsumerGroup string
	ConsumerName  string
	PollInterval  time.Duration
	BatchSize     int64
	MaxLen        int64
}

// Queue is a redis-streams backed notification queue with a consumer group,
// so multiple notifier processes can share the stream without double
// delivery.
type Queue struct {
	adapter redis.RedisAdapter
	config  QueueConfig
	cancel  context.CancelFunc
}

type Message struct {
	ID    string
	Event EmailEvent
}

// Handler processes one queued notification. A nil return acks the message;
// an error leaves it pending for reclaim.
type Handler func(ctx context.Context, msg *Message) error

func NewQueue(adapter redis.RedisAdapter, config QueueConfig) (*Queue, error) {
	if config.Name == "" {
		return nil, fmt.Errorf("queue name is required")
	}
	if config.ConsumerGroup == "" {
		config.ConsumerGroup = "default-group"
	}
	if config.ConsumerName == "" {
		config.ConsumerName = fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}

	q := &Queue{
		adapter: adapter,
		config:  config,
	}

	// group might already exist, which is fine
	_ = q.adapter.XGroupCreateMkStream(q.config.Name, q.config.ConsumerGroup, "0")

	return q, nil
}

// PublishEmail appends the event to the stream.
func (q *Queue) PublishEmail(ctx context.Context, event EmailEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = q.adapter.XAdd(q.config.Name, map[string]interface{}{
		"data":      string(data),
		"timestamp": time.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if q.config.MaxLen > 0 {
		_ = q.adapter.XTrimApprox(q.config.Name, q.config.MaxLen)
	}
	return nil
}

// Consume polls the stream until Stop is called, feeding each decoded event
// to handler and acking on success.
func (q *Queue) Consume(handler Handler) error {
	if handler == nil {
		return fmt.Errorf("handler is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel

	go q.consumeLoop(ctx, handler)
	return nil
}

func (q *Queue) Stop() {
	if q.cancel != nil {
		q.cancel()
	}
}

func (q *Queue) Len() (int64, error) {
	return q.adapter.XLen(q.config.Name)
}

func (q *Queue) consumeLoop(ctx context.Context, handler Handler) {
	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			q.processMessages(ctx, handler)
		}
	}
}

func (q *Queue) processMessages(ctx context.Context, handler Handler) {
	messages, err := q.adapter.XReadGroup(
		q.config.ConsumerGroup,
		q.config.ConsumerName,
		q.config.Name,
		">",
		q.config.BatchSize,
	)
	if err != nil {
		return
	}

	for _, streamMsg := range messages {
		raw, _ := streamMsg.Values["data"].(string)

		var event EmailEvent
		if err := json.Unmarshal([]byte(raw), &event); err != nil {
			// undecodable messages are acked away instead of poisoning
			// the stream
			_ = q.adapter.XAck(q.config.Name, q.config.ConsumerGroup, streamMsg.ID)
			continue
		}

		msg := &Message{ID: streamMsg.ID, Event: event}
		if err := handler(ctx, msg); err == nil {
			_ = q.adapter.XAck(q.config.Name, q.config.ConsumerGroup, streamMsg.ID)
		}
	}
}
