package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/domain"
	catalogevent "github.com/jasondotparse/movie-library-explorer/internal/catalog/event"
	"github.com/jasondotparse/movie-library-explorer/pkg/queue"
)

// Consumer group ID for the ingest worker.
const ConsumerGroupID = "ingest-worker"

// ConsumerHandler persists movie submissions arriving on the queue.
type ConsumerHandler struct {
	repo   domain.MovieRepository
	logger *slog.Logger
}

// NewConsumerHandler creates a new event consumer handler.
func NewConsumerHandler(repo domain.MovieRepository, logger *slog.Logger) *ConsumerHandler {
	return &ConsumerHandler{
		repo:   repo,
		logger: logger,
	}
}

// Handle processes an incoming queue event based on its event type.
func (h *ConsumerHandler) Handle(ctx context.Context, event *queue.Event) error {
	switch event.EventType {
	case catalogevent.TopicMovieSubmitted:
		return h.handleSubmission(ctx, event)
	default:
		h.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

// handleSubmission re-validates the submission payload and inserts the movie.
// Payloads that cannot pass validation are permanent failures; the returned
// error sends them through the retry path and on to the dead letter queue.
func (h *ConsumerHandler) handleSubmission(ctx context.Context, event *queue.Event) error {
	var submission catalogevent.MovieSubmission
	if err := event.UnmarshalData(&submission); err != nil {
		return fmt.Errorf("unmarshal submission payload: %w", err)
	}

	if err := validateSubmission(&submission); err != nil {
		return fmt.Errorf("invalid submission %s: %w", event.EventID, err)
	}

	now := time.Now().UTC()
	movie := &domain.Movie{
		ID:        uuid.New().String(),
		Title:     submission.Title,
		Genre:     submission.Genre,
		Rating:    submission.Rating,
		Year:      submission.Year,
		CreatedAt: &now,
		UpdatedAt: &now,
	}

	inserted, err := h.repo.Create(ctx, movie)
	if err != nil {
		return fmt.Errorf("persist movie: %w", err)
	}

	if !inserted {
		h.logger.InfoContext(ctx, "duplicate movie skipped",
			slog.String("correlation_id", event.AggregateID),
			slog.String("title", movie.Title),
		)
		return nil
	}

	h.logger.InfoContext(ctx, "movie persisted",
		slog.String("correlation_id", event.AggregateID),
		slog.String("movie_id", movie.ID),
		slog.String("title", movie.Title),
	)

	return nil
}

func validateSubmission(s *catalogevent.MovieSubmission) error {
	if strings.TrimSpace(s.Title) == "" || len(s.Title) > 255 {
		return fmt.Errorf("title must be 1-255 characters")
	}
	if strings.TrimSpace(s.Genre) == "" || len(s.Genre) > 100 {
		return fmt.Errorf("genre must be 1-100 characters")
	}
	if s.Rating < 0 || s.Rating > 10 {
		return fmt.Errorf("rating must be between 0 and 10")
	}
	if s.Year < 1900 || s.Year > 2100 {
		return fmt.Errorf("year must be between 1900 and 2100")
	}
	return nil
}
