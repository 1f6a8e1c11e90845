package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jasondotparse/movie-library-explorer/pkg/queue"
)

// Kafka topic constants for the write pipeline.
const (
	TopicMovieSubmitted = "movies.catalog.submission_requested"
)

// Aggregate type constant.
const AggregateTypeMovie = "movie"

// Source identifier for events originating from the catalog API.
const SourceCatalogAPI = "catalog-api"

// MovieSubmission is the payload for a submission_requested event. It carries
// validated movie attributes; the record ID is assigned by the ingest worker.
type MovieSubmission struct {
	Title  string  `json:"title"`
	Genre  string  `json:"genre"`
	Rating float64 `json:"rating"`
	Year   int     `json:"year"`
}

// Producer publishes catalog submission events to the queue.
type Producer struct {
	queue  *queue.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(q *queue.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		queue:  q,
		logger: logger,
	}
}

// PublishMovieSubmitted publishes a submission_requested event keyed by the
// correlation ID. An optional eventID overrides the generated one so callers
// with deterministic identifiers (content hashes) get publish idempotency.
func (p *Producer) PublishMovieSubmitted(ctx context.Context, correlationID, eventID string, submission *MovieSubmission) error {
	event, err := queue.NewEvent(TopicMovieSubmitted, correlationID, AggregateTypeMovie, SourceCatalogAPI, submission)
	if err != nil {
		return fmt.Errorf("create submission event: %w", err)
	}
	event.WithEventID(eventID)

	if err := p.queue.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish submission event: %w", err)
	}

	p.logger.DebugContext(ctx, "published submission event",
		slog.String("correlation_id", correlationID),
		slog.String("event_id", event.EventID),
		slog.String("title", submission.Title),
	)

	return nil
}
