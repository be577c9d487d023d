package testutil

import (
	"context"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// KafkaBroker is a single-node Kafka started for one test. It is terminated
// by t.Cleanup.
type KafkaBroker struct {
	Brokers []string
}

// StartKafka runs a KRaft broker and registers its teardown.
func StartKafka(ctx context.Context, t *testing.T) *KafkaBroker {
	t.Helper()

	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("credit-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.Terminate(stopCtx); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	return &KafkaBroker{Brokers: brokers}
}

// CreateTopic makes sure topic exists before anything is produced to it.
// Dialing the partition leader auto-creates the topic.
func (kb *KafkaBroker) CreateTopic(ctx context.Context, t *testing.T, topic string) {
	t.Helper()
	conn, err := kafkago.DialLeader(ctx, "tcp", kb.Brokers[0], topic, 0)
	require.NoError(t, err, "create topic %s", topic)
	require.NoError(t, conn.Close())
}

// Reader consumes partition 0 of topic from the beginning.
func (kb *KafkaBroker) Reader(t *testing.T, topic string) *kafkago.Reader {
	t.Helper()
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:   kb.Brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { _ = r.Close() })
	return r
}
