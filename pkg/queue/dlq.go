package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DLQTopicPrefix is the prefix for dead letter queue topics. A message that
// exhausts its retries on topic T is parked on DLQTopicPrefix + "." + T.
const DLQTopicPrefix = "movies.dlq"

// DLQTopic returns the dead letter topic name for a source topic.
func DLQTopic(sourceTopic string) string {
	return fmt.Sprintf("%s.%s", DLQTopicPrefix, sourceTopic)
}

// DLQProducer publishes poison messages to a dead letter topic along with the
// failure context needed to triage them later.
type DLQProducer struct {
	producer *Producer
	logger   *slog.Logger
}

// DLQMessage wraps a failed event with failure metadata.
type DLQMessage struct {
	OriginalTopic string    `json:"original_topic"`
	FailedAt      time.Time `json:"failed_at"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error"`
	Event         *Event    `json:"event"`
}

// NewDLQProducer creates a producer targeting the dead letter topic for the
// given source topic.
func NewDLQProducer(brokers []string, sourceTopic string, logger *slog.Logger) *DLQProducer {
	cfg := DefaultProducerConfig(brokers, DLQTopic(sourceTopic))
	return &DLQProducer{
		producer: NewProducer(cfg, logger),
		logger:   logger,
	}
}

// Publish parks a failed event on the dead letter topic.
func (d *DLQProducer) Publish(ctx context.Context, sourceTopic string, event *Event, attempts int, lastErr error) error {
	dlqEvent, err := NewEvent("dlq.parked", event.AggregateID, event.AggregateType, "queue.dlq", DLQMessage{
		OriginalTopic: sourceTopic,
		FailedAt:      time.Now().UTC(),
		Attempts:      attempts,
		LastError:     lastErr.Error(),
		Event:         event,
	})
	if err != nil {
		return fmt.Errorf("build dlq event: %w", err)
	}

	if err := d.producer.Publish(ctx, dlqEvent); err != nil {
		return fmt.Errorf("publish to dlq: %w", err)
	}

	dlqMessages.WithLabelValues(sourceTopic).Inc()
	d.logger.Warn("event parked on dead letter queue",
		slog.String("source_topic", sourceTopic),
		slog.String("event_id", event.EventID),
		slog.Int("attempts", attempts),
		slog.String("last_error", lastErr.Error()),
	)
	return nil
}

// Close closes the underlying producer.
func (d *DLQProducer) Close() error {
	return d.producer.Close()
}
