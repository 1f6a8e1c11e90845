package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	producerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_producer_messages_total",
		Help: "Total messages published, by topic and event type.",
	}, []string{"topic", "event_type"})

	producerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_producer_errors_total",
		Help: "Total publish failures, by topic and event type.",
	}, []string{"topic", "event_type"})

	consumerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_consumer_messages_total",
		Help: "Total messages successfully processed, by topic and event type.",
	}, []string{"topic", "event_type"})

	consumerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_consumer_errors_total",
		Help: "Total messages that exhausted retries, by topic and event type.",
	}, []string{"topic", "event_type"})

	consumerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "queue_consumer_handle_duration_seconds",
		Help:    "Time spent handling a message, by topic and event type.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic", "event_type"})

	dlqMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_dlq_messages_total",
		Help: "Total messages parked on dead letter queues, by source topic.",
	}, []string{"source_topic"})

	duplicatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "queue_duplicates_skipped_total",
		Help: "Total duplicate deliveries skipped by the idempotency guard.",
	}, []string{"event_type"})
)
