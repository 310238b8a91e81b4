package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var NilError = goredis.Nil

type Options = goredis.UniversalOptions

// StreamMessage represents a message in a Redis Stream
type StreamMessage struct {
	ID     string
	Values map[string]interface{}
}

// RedisAdapter exposes the subset of redis commands the service uses:
// key/value helpers plus the stream operations backing the notification
// queue.
type RedisAdapter interface {
	Set(key string, value []byte, ttl time.Duration) error
	SetNX(key string, value []byte, ttl time.Duration) (bool, error)
	Get(key string) ([]byte, error)
	Del(key string) error
	Client() goredis.UniversalClient

	XAdd(key string, values map[string]interface{}) (string, error)
	XReadGroup(group, consumer, key, id string, count int64) ([]StreamMessage, error)
	XAck(key, group string, ids ...string) error
	XGroupCreateMkStream(key, group, start string) error
	XLen(key string) (int64, error)
	XTrimApprox(key string, maxLen int64) error
}

type redisAdapter struct {
	prefix   string
	Conn     goredis.UniversalClient
	ConnName string
}

var redisLock = &sync.RWMutex{}
var redisInstance map[string]RedisAdapter

// NewRedisAdapter returns a shared adapter per connection name so repeated
// wiring of the same connection reuses one client.
func NewRedisAdapter(connName string, keysPrefix string, opts *goredis.UniversalOptions) (RedisAdapter, error) {
	redisLock.RLock()
	if redisInstance != nil {
		if adapter, ok := redisInstance[connName]; ok {
			redisLock.RUnlock()
			return adapter, nil
		}
	}
	redisLock.RUnlock()

	redisLock.Lock()
	defer redisLock.Unlock()

	if redisInstance == nil {
		redisInstance = make(map[string]RedisAdapter)
	}
	if adapter, ok := redisInstance[connName]; ok {
		return adapter, nil
	}

	client := goredis.NewUniversalClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	adapter := &redisAdapter{
		prefix:   keysPrefix,
		Conn:     client,
		ConnName: connName,
	}
	redisInstance[connName] = adapter
	return adapter, nil
}

func (r *redisAdapter) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

func (r *redisAdapter) Set(key string, value []byte, ttl time.Duration) error {
	return r.Conn.Set(context.Background(), r.key(key), value, ttl).Err()
}

func (r *redisAdapter) SetNX(key string, value []byte, ttl time.Duration) (bool, error) {
	return r.Conn.SetNX(context.Background(), r.key(key), value, ttl).Result()
}

func (r *redisAdapter) Get(key string) ([]byte, error) {
	return r.Conn.Get(context.Background(), r.key(key)).Bytes()
}

func (r *redisAdapter) Del(key string) error {
	return r.Conn.Del(context.Background(), r.key(key)).Err()
}

func (r *redisAdapter) Client() goredis.UniversalClient {
	return r.Conn
}

func (r *redisAdapter) XAdd(key string, values map[string]interface{}) (string, error) {
	return r.Conn.XAdd(context.Background(), &goredis.XAddArgs{
		Stream: r.key(key),
		Values: values,
	}).Result()
}

func (r *redisAdapter) XReadGroup(group, consumer, key, id string, count int64) ([]StreamMessage, error) {
	streams, err := r.Conn.XReadGroup(context.Background(), &goredis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{r.key(key), id},
		Count:    count,
		Block:    -1,
	}).Result()
	if err != nil {
		return nil, err
	}

	var messages []StreamMessage
	for _, stream := range streams {
		for _, msg := range stream.Messages {
			messages = append(messages, StreamMessage{
				ID:     msg.ID,
				Values: msg.Values,
			})
		}
	}
	return messages, nil
}

func (r *redisAdapter) XAck(key, group string, ids ...string) error {
	return r.Conn.XAck(context.Background(), r.key(key), group, ids...).Err()
}

func (r *redisAdapter) XGroupCreateMkStream(key, group, start string) error {
	return r.Conn.XGroupCreateMkStream(context.Background(), r.key(key), group, start).Err()
}

func (r *redisAdapter) XLen(key string) (int64, error) {
	return r.Conn.XLen(context.Background(), r.key(key)).Result()
}

func (r *redisAdapter) XTrimApprox(key string, maxLen int64) error {
	return r.Conn.XTrimMaxLenApprox(context.Background(), r.key(key), maxLen, 0).Err()
}
