package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Handler processes a single event. Returning an error triggers a retry; once
// retries are exhausted the message is parked on the dead letter queue.
type Handler func(ctx context.Context, event *Event) error

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers        []string
	Topic          string
	GroupID        string
	MinBytes       int
	MaxBytes       int
	MaxWait        time.Duration
	CommitInterval time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
}

// DefaultConsumerConfig returns a consumer config with sensible defaults.
func DefaultConsumerConfig(brokers []string, topic, groupID string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        500 * time.Millisecond,
		CommitInterval: 0, // synchronous commits
		MaxRetries:     3,
		RetryBackoff:   time.Second,
	}
}

// Consumer reads events from a topic and dispatches them to a handler with
// bounded retries. Offsets are committed only after the handler succeeds or
// the message has been parked on the DLQ, so no message is silently dropped.
type Consumer struct {
	reader     *kafka.Reader
	handler    Handler
	dlq        *DLQProducer
	logger     *slog.Logger
	topic      string
	maxRetries int
	backoff    time.Duration
}

// NewConsumer creates a consumer for the given topic and group.
func NewConsumer(cfg ConsumerConfig, handler Handler, dlq *DLQProducer, logger *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		MaxWait:        cfg.MaxWait,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    kafka.FirstOffset,
	})

	return &Consumer{
		reader:     reader,
		handler:    handler,
		dlq:        dlq,
		logger:     logger,
		topic:      cfg.Topic,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
	}
}

// Run consumes messages until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer started", slog.String("topic", c.topic))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.logger.Error("commit failed",
				slog.String("topic", c.topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		// Malformed envelope: retrying cannot help, park immediately.
		c.logger.Error("unmarshal event failed",
			slog.String("topic", c.topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		consumerErrors.WithLabelValues(c.topic, "unmarshal").Inc()
		c.park(ctx, &Event{EventType: "unknown", Data: msg.Value}, 0, err)
		return
	}

	start := time.Now()
	var handleErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		handleErr = c.handler(ctx, event)
		if handleErr == nil {
			consumerMessages.WithLabelValues(c.topic, event.EventType).Inc()
			consumerDuration.WithLabelValues(c.topic, event.EventType).Observe(time.Since(start).Seconds())
			return
		}

		c.logger.Warn("handler failed",
			slog.String("topic", c.topic),
			slog.String("event_id", event.EventID),
			slog.Int("attempt", attempt),
			slog.String("error", handleErr.Error()),
		)

		if attempt < c.maxRetries {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}
	}

	consumerErrors.WithLabelValues(c.topic, event.EventType).Inc()
	c.park(ctx, event, c.maxRetries, handleErr)
}

func (c *Consumer) park(ctx context.Context, event *Event, attempts int, cause error) {
	if c.dlq == nil {
		c.logger.Error("no dlq configured, dropping poison message",
			slog.String("topic", c.topic),
			slog.String("event_id", event.EventID),
		)
		return
	}
	if err := c.dlq.Publish(ctx, c.topic, event, attempts, cause); err != nil {
		c.logger.Error("dlq publish failed",
			slog.String("topic", c.topic),
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()),
		)
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
