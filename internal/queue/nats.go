package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSConfig represents NATS connection settings
type NATSConfig struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration // connect timeout (default: 5s)
}

// NATSQueue publishes to NATS JetStream. A stream is created on first use of
// each subject so that messages survive until a consumer reads them.
type NATSQueue struct {
	conn    *nats.Conn
	js      nats.JetStreamContext
	streams map[string]struct{}
	mu      sync.Mutex
}

func newNATSQueue(cfg NATSConfig) (*NATSQueue, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	opts := []nats.Option{
		nats.Name("sfb-publisher"),
		nats.Timeout(cfg.Timeout),
	}
	if cfg.Username != "" {
		opts = append(opts, nats.UserInfo(cfg.Username, cfg.Password))
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSQueueWithConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

func newNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSQueue{
		conn:    conn,
		js:      js,
		streams: make(map[string]struct{}),
	}, nil
}

// Name returns "nats"
func (q *NATSQueue) Name() string { return "nats" }

// StreamName returns the JetStream stream that holds subject
func StreamName(subject string) string {
	return "SFB_" + sanitizeStreamName(subject)
}

func (q *NATSQueue) ensureStream(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.streams[subject]; ok {
		return nil
	}

	name := StreamName(subject)
	if _, err := q.js.StreamInfo(name); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return fmt.Errorf("failed to look up stream %s: %w", name, err)
		}
		if _, err := q.js.AddStream(&nats.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
			Storage:  nats.FileStorage,
			MaxAge:   24 * time.Hour,
		}); err != nil {
			return fmt.Errorf("failed to create stream for subject %s: %w", subject, err)
		}
	}

	q.streams[subject] = struct{}{}
	return nil
}

// Publish sends msg and waits for the JetStream ack
func (q *NATSQueue) Publish(ctx context.Context, msg Message) error {
	if err := q.ensureStream(msg.Subject); err != nil {
		return err
	}

	m := nats.NewMsg(msg.Subject)
	m.Data = msg.Data
	for k, v := range msg.Headers {
		m.Header.Set(k, v)
	}
	if msg.Key != "" {
		m.Header.Set(nats.MsgIdHdr, msg.Key)
	}

	if _, err := q.js.PublishMsg(m, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", msg.Subject, err)
	}
	return nil
}

// Close drains and closes the connection
func (q *NATSQueue) Close() error {
	if q.conn.IsClosed() {
		return nil
	}
	return q.conn.Drain()
}

// sanitizeStreamName keeps A-Z, a-z, 0-9, dash and underscore
func sanitizeStreamName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
