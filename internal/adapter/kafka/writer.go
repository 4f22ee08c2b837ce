package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/bee-colony-dashboard/internal/config"
	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces view events to a Kafka topic.
// It implements dashboard.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured views topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaViewsTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		// Events are written one per request; the 1s default would stall it.
		BatchTimeout: 10 * time.Millisecond,
	}
	logger.Info("kafka view publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaViewsTopic)
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes a single view event. Events for the same
// selection share a key and therefore a partition.
func (w *Writer) Publish(ctx context.Context, event domain.ViewEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ViewEvent into a Kafka message.
func serializeToMessage(event domain.ViewEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize view event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "year", Value: []byte(strconv.Itoa(event.Year))},
			{Key: "computed_at", Value: []byte(event.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
