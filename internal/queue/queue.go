// Package queue publishes messages to NATS JetStream, Redis Streams, Kafka or an in-process buffer.
package queue

import "context"

// Message is a single outbound message
type Message struct {
	Subject string
	Key     string            // partition/dedup key, optional
	Headers map[string]string // transport headers, optional
	Data    []byte
}

// Publisher publishes messages to a queue
type Publisher interface {
	// Publish delivers one message and returns once the broker accepted it
	Publish(ctx context.Context, msg Message) error

	// Name returns the backend name (nats, redis, kafka, memory)
	Name() string

	// Close releases the connection
	Close() error
}

// MessageHandler handles messages delivered by the memory queue
type MessageHandler func(msg Message) error
