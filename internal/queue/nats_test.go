package queue

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestNATS starts an embedded JetStream-enabled NATS server
func setupTestNATS(t *testing.T) string {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func TestNATSQueue_PublishCreatesStream(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(NATSConfig{URL: url})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()
	assert.Equal(t, "nats", q.Name())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = q.Publish(ctx, Message{
		Subject: "sfb.packages",
		Key:     "req-42",
		Headers: map[string]string{"Sfb-Dataset": "sales"},
		Data:    []byte(`{"dataset":"sales"}`),
	})
	require.NoError(t, err)

	info, err := q.js.StreamInfo(StreamName("sfb.packages"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.State.Msgs)

	raw, err := q.js.GetLastMsg(StreamName("sfb.packages"), "sfb.packages")
	require.NoError(t, err)
	assert.Equal(t, `{"dataset":"sales"}`, string(raw.Data))
	assert.Equal(t, "sales", raw.Header.Get("Sfb-Dataset"))
	assert.Equal(t, "req-42", raw.Header.Get(nats.MsgIdHdr))
}

func TestNATSQueue_DuplicateKeyDeduplicated(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(NATSConfig{URL: url})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	msg := Message{Subject: "sfb.dedup", Key: "same", Data: []byte("x")}
	require.NoError(t, q.Publish(ctx, msg))
	require.NoError(t, q.Publish(ctx, msg))

	info, err := q.js.StreamInfo(StreamName("sfb.dedup"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), info.State.Msgs)
}

func TestNATSQueue_ConnectFailure(t *testing.T) {
	_, err := newNATSQueue(NATSConfig{URL: "nats://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}

func TestStreamName(t *testing.T) {
	assert.Equal(t, "SFB_sfb_packages", StreamName("sfb.packages"))
	assert.Equal(t, "SFB_a_b-c", StreamName("a>b-c"))
}
