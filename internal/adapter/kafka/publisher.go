// Package kafka publishes prediction events to a Kafka topic for downstream
// consumers. Publishing is optional telemetry: the engine treats a nil
// publisher as disabled and never blocks a response on delivery.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/voltgrid/station-inference-service/internal/config"
	"github.com/voltgrid/station-inference-service/internal/engine"
)

// Publisher produces prediction events to the configured topic.
// It implements engine.Notifier.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the prediction-event topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
		Async:        true,
	}
	return &Publisher{writer: w, logger: logger}
}

// PublishPrediction serializes and publishes one prediction event.
func (p *Publisher) PublishPrediction(ctx context.Context, event engine.PredictionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a prediction event into a Kafka message, keyed
// by model identifier so per-model events stay ordered within a partition.
func serializeToMessage(event engine.PredictionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize prediction event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Model),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "family", Value: []byte(event.Family)},
			{Key: "predicted_at", Value: []byte(event.PredictedAt.Format(time.RFC3339))},
		},
	}, nil
}
