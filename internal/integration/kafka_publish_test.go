//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/couchcryptid/bee-colony-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/bee-colony-dashboard/internal/config"
	"github.com/couchcryptid/bee-colony-dashboard/internal/dashboard"
	"github.com/couchcryptid/bee-colony-dashboard/internal/dataset"
	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/couchcryptid/bee-colony-dashboard/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const testViewsTopic = "test-views"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node broker and returns its address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("bee-dashboard-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestViewEventsPublished drives a view query through the dashboard service
// and reads the resulting event back from Kafka.
func TestViewEventsPublished(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testViewsTopic)

	cfg := &config.Config{
		KafkaEnabled:    true,
		KafkaBrokers:    []string{broker},
		KafkaViewsTopic: testViewsTopic,
	}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	d, err := dataset.NewLoader(dataset.S3Options{}, discardLogger()).Load(ctx, "../dataset/testdata/bees_small.csv")
	require.NoError(t, err)

	metrics := observability.NewMetricsForTesting()
	svc := dashboard.New(writer, discardLogger(), metrics)
	svc.SetDataset(d)

	views, err := svc.ComputeViews(ctx, domain.NewSelection(2015, "Pesticides", "Disease"))
	require.NoError(t, err)
	require.Len(t, views.Bar.Bars, 2)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testViewsTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from views topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}

	var event domain.ViewEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))

	assert.Equal(t, "2015|Disease,Pesticides", string(msg.Key))
	assert.Equal(t, "2015", headers["year"])
	assert.NotEmpty(t, headers["computed_at"])
	assert.Equal(t, 2015, event.Year)
	assert.Equal(t, 2, event.States)
	assert.Equal(t, "Ohio", event.TopState)
	assert.InDelta(t, 15.0, event.TopValue, 1e-9)
}
