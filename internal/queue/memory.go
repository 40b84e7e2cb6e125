package queue

import (
	"context"
	"fmt"
	"sync"
)

const memoryBufferSize = 1024

// MemoryQueue keeps published messages in per-subject buffered channels.
// Used for development and tests.
type MemoryQueue struct {
	channels      map[string]chan Message
	subscriptions map[string]context.CancelFunc
	closed        bool
	mu            sync.Mutex
	wg            sync.WaitGroup
}

// NewMemoryQueue creates an empty in-memory queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		channels:      make(map[string]chan Message),
		subscriptions: make(map[string]context.CancelFunc),
	}
}

func (q *MemoryQueue) channel(subject string) (chan Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, fmt.Errorf("memory queue is closed")
	}
	if ch, ok := q.channels[subject]; ok {
		return ch, nil
	}
	ch := make(chan Message, memoryBufferSize)
	q.channels[subject] = ch
	return ch, nil
}

// Name returns "memory"
func (q *MemoryQueue) Name() string { return "memory" }

// Publish buffers a copy of the message. A full buffer is an error.
func (q *MemoryQueue) Publish(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]byte, len(msg.Data))
	copy(data, msg.Data)
	msg.Data = data

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return fmt.Errorf("memory queue is closed")
	}
	ch, ok := q.channels[msg.Subject]
	if !ok {
		ch = make(chan Message, memoryBufferSize)
		q.channels[msg.Subject] = ch
	}

	select {
	case ch <- msg:
		return nil
	default:
		return fmt.Errorf("channel full for subject: %s", msg.Subject)
	}
}

// Subscribe consumes a subject in the background until Unsubscribe or Close
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	ch, err := q.channel(subject)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.subscriptions[subject] = cancel

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				_ = handler(msg)
			}
		}
	}()

	return nil
}

// Unsubscribe stops the consumer for subject
func (q *MemoryQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Pending returns the number of buffered, unconsumed messages for subject
func (q *MemoryQueue) Pending(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if ch, ok := q.channels[subject]; ok {
		return len(ch)
	}
	return 0
}

// Close stops all consumers and drops buffered messages
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	q.mu.Unlock()

	q.wg.Wait()

	q.mu.Lock()
	for subject, ch := range q.channels {
		close(ch)
		delete(q.channels, subject)
	}
	q.mu.Unlock()
	return nil
}
