package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig represents Apache Kafka producer configuration
type KafkaConfig struct {
	Brokers      []string
	BatchTimeout time.Duration // default: 10ms
	RequiredAcks int           // 0=none, 1=leader, -1=all (default: 1)
	MaxAttempts  int           // default: 3
}

// KafkaQueue publishes to Kafka, one writer per topic
type KafkaQueue struct {
	config  KafkaConfig
	writers map[string]*kafka.Writer
	mu      sync.Mutex
}

func newKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}

	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}
	if cfg.RequiredAcks == 0 {
		cfg.RequiredAcks = int(kafka.RequireOne)
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 3
	}

	return &KafkaQueue{
		config:  cfg,
		writers: make(map[string]*kafka.Writer),
	}, nil
}

// Name returns "kafka"
func (q *KafkaQueue) Name() string { return "kafka" }

func (q *KafkaQueue) writer(topic string) *kafka.Writer {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w, ok := q.writers[topic]; ok {
		return w
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(q.config.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           q.config.BatchTimeout,
		RequiredAcks:           kafka.RequiredAcks(q.config.RequiredAcks),
		MaxAttempts:            q.config.MaxAttempts,
		AllowAutoTopicCreation: true,
	}
	q.writers[topic] = w
	return w
}

// kafkaMessage converts msg to the wire form; the key drives partitioning
func kafkaMessage(msg Message) kafka.Message {
	km := kafka.Message{
		Value: msg.Data,
		Time:  time.Now(),
	}
	if msg.Key != "" {
		km.Key = []byte(msg.Key)
	}
	for k, v := range msg.Headers {
		km.Headers = append(km.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return km
}

// Publish writes msg to the topic named by its subject
func (q *KafkaQueue) Publish(ctx context.Context, msg Message) error {
	if err := q.writer(msg.Subject).WriteMessages(ctx, kafkaMessage(msg)); err != nil {
		return fmt.Errorf("failed to publish to kafka topic %s: %w", msg.Subject, err)
	}
	return nil
}

// Close closes every writer
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var lastErr error
	for topic, w := range q.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
		delete(q.writers, topic)
	}
	return lastErr
}
