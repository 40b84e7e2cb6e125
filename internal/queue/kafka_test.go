package queue

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaQueue_RequiresBrokers(t *testing.T) {
	_, err := newKafkaQueue(KafkaConfig{})
	assert.Error(t, err)
}

func TestNewKafkaQueue_Defaults(t *testing.T) {
	q, err := newKafkaQueue(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	assert.Equal(t, 10*time.Millisecond, q.config.BatchTimeout)
	assert.Equal(t, int(kafka.RequireOne), q.config.RequiredAcks)
	assert.Equal(t, 3, q.config.MaxAttempts)
	assert.Equal(t, "kafka", q.Name())
}

func TestKafkaQueue_WriterPerTopic(t *testing.T) {
	q, err := newKafkaQueue(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	a := q.writer("sfb.packages")
	assert.Same(t, a, q.writer("sfb.packages"))
	assert.NotSame(t, a, q.writer("sfb.other"))
	assert.Equal(t, "sfb.packages", a.Topic)
}

func TestKafkaMessage(t *testing.T) {
	km := kafkaMessage(Message{
		Subject: "sfb.packages",
		Key:     "req-1",
		Headers: map[string]string{"dataset": "sales"},
		Data:    []byte("body"),
	})

	assert.Equal(t, []byte("req-1"), km.Key)
	assert.Equal(t, []byte("body"), km.Value)
	require.Len(t, km.Headers, 1)
	assert.Equal(t, "dataset", km.Headers[0].Key)
	assert.Equal(t, []byte("sales"), km.Headers[0].Value)

	assert.Nil(t, kafkaMessage(Message{Data: []byte("x")}).Key)
}
