package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	URL      string // redis://host:port/db or host:port
	Password string
	DB       int
	Stream   string // stream key prefix (default: "sfb")
	MaxLen   int64  // approximate stream cap (default: 100000)
}

// RedisQueue appends messages to Redis Streams, one stream per subject
type RedisQueue struct {
	client *redis.Client
	config RedisConfig
}

func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return newRedisQueueWithClient(client, cfg), nil
}

func newRedisQueueWithClient(client *redis.Client, cfg RedisConfig) *RedisQueue {
	if cfg.Stream == "" {
		cfg.Stream = "sfb"
	}
	if cfg.MaxLen == 0 {
		cfg.MaxLen = 100000
	}
	return &RedisQueue{client: client, config: cfg}
}

// Name returns "redis"
func (q *RedisQueue) Name() string { return "redis" }

func (q *RedisQueue) streamName(subject string) string {
	return fmt.Sprintf("%s:%s", q.config.Stream, subject)
}

// Publish appends msg to the subject's stream. Headers become extra fields.
func (q *RedisQueue) Publish(ctx context.Context, msg Message) error {
	stream := q.streamName(msg.Subject)

	values := make(map[string]interface{}, len(msg.Headers)+2)
	for k, v := range msg.Headers {
		values["h:"+k] = v
	}
	if msg.Key != "" {
		values["key"] = msg.Key
	}
	values["data"] = msg.Data

	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: q.config.MaxLen,
		Approx: true,
		ID:     "*",
		Values: values,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", stream, err)
	}
	return nil
}

// Close closes the Redis client
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
