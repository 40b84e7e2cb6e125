package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_PublishBuffers(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	data := []byte("payload")
	require.NoError(t, q.Publish(context.Background(), Message{Subject: "sfb.packages", Data: data}))
	data[0] = 'X'

	assert.Equal(t, 1, q.Pending("sfb.packages"))
	assert.Equal(t, 0, q.Pending("other"))
	assert.Equal(t, "memory", q.Name())
}

func TestMemoryQueue_SubscribeReceivesCopy(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	var (
		mu   sync.Mutex
		got  []Message
		done = make(chan struct{}, 2)
	)
	require.NoError(t, q.Subscribe("sfb.packages", func(msg Message) error {
		mu.Lock()
		got = append(got, msg)
		mu.Unlock()
		done <- struct{}{}
		return nil
	}))

	data := []byte("first")
	require.NoError(t, q.Publish(context.Background(), Message{
		Subject: "sfb.packages",
		Key:     "req-1",
		Headers: map[string]string{"dataset": "sales"},
		Data:    data,
	}))
	data[0] = 'X'
	require.NoError(t, q.Publish(context.Background(), Message{Subject: "sfb.packages", Data: []byte("second")}))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, "first", string(got[0].Data))
	assert.Equal(t, "req-1", got[0].Key)
	assert.Equal(t, "sales", got[0].Headers["dataset"])
	assert.Equal(t, "second", string(got[1].Data))
}

func TestMemoryQueue_DuplicateSubscribe(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	handler := func(Message) error { return nil }
	require.NoError(t, q.Subscribe("a", handler))
	assert.Error(t, q.Subscribe("a", handler))

	require.NoError(t, q.Unsubscribe("a"))
	assert.Error(t, q.Unsubscribe("a"))
}

func TestMemoryQueue_ChannelFull(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	for i := 0; i < memoryBufferSize; i++ {
		require.NoError(t, q.Publish(context.Background(), Message{Subject: "s", Data: []byte{1}}))
	}
	err := q.Publish(context.Background(), Message{Subject: "s", Data: []byte{1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel full")
}

func TestMemoryQueue_CancelledContext(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, q.Publish(ctx, Message{Subject: "s"}), context.Canceled)
}

func TestMemoryQueue_Closed(t *testing.T) {
	q := NewMemoryQueue()
	require.NoError(t, q.Subscribe("s", func(Message) error { return nil }))
	require.NoError(t, q.Close())
	require.NoError(t, q.Close())

	assert.Error(t, q.Publish(context.Background(), Message{Subject: "s"}))
	assert.Error(t, q.Subscribe("s", func(Message) error { return nil }))
}
