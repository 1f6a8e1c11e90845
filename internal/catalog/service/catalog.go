package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/domain"
	"github.com/jasondotparse/movie-library-explorer/internal/catalog/event"
	apperrors "github.com/jasondotparse/movie-library-explorer/pkg/errors"
)

// Pagination bounds for the top-rated listing.
const (
	DefaultTopRatedLimit = 10
	MaxTopRatedLimit     = 100
)

// SubmissionPublisher publishes accepted movie submissions to the write
// pipeline.
type SubmissionPublisher interface {
	PublishMovieSubmitted(ctx context.Context, correlationID, eventID string, submission *event.MovieSubmission) error
}

// CatalogService implements the business logic for catalog operations.
type CatalogService struct {
	repo      domain.MovieRepository
	publisher SubmissionPublisher
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo domain.MovieRepository, publisher SubmissionPublisher, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitMovieInput holds the parameters for submitting a movie.
type SubmitMovieInput struct {
	Title  string
	Genre  string
	Rating float64
	Year   int
}

// SubmitMovie accepts a movie submission and enqueues it for asynchronous
// persistence. It returns the correlation ID handed back to the client; this
// is not the eventual record ID.
func (s *CatalogService) SubmitMovie(ctx context.Context, input *SubmitMovieInput) (string, error) {
	if strings.TrimSpace(input.Title) == "" {
		return "", apperrors.InvalidInput("title is required")
	}
	if strings.TrimSpace(input.Genre) == "" {
		return "", apperrors.InvalidInput("genre is required")
	}
	if input.Rating < 0 || input.Rating > 10 {
		return "", apperrors.InvalidInput("rating must be between 0 and 10")
	}
	if input.Year < 1900 || input.Year > 2100 {
		return "", apperrors.InvalidInput("year must be between 1900 and 2100")
	}

	correlationID := uuid.New().String()
	submission := &event.MovieSubmission{
		Title:  input.Title,
		Genre:  input.Genre,
		Rating: input.Rating,
		Year:   input.Year,
	}

	if err := s.publisher.PublishMovieSubmitted(ctx, correlationID, "", submission); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue submission",
			slog.String("correlation_id", correlationID),
			slog.String("error", err.Error()),
		)
		return "", apperrors.Unavailable("submission queue is unavailable")
	}

	s.logger.InfoContext(ctx, "movie submission accepted",
		slog.String("correlation_id", correlationID),
		slog.String("title", input.Title),
	)

	return correlationID, nil
}

// SearchMovies returns movies whose title contains the query.
func (s *CatalogService) SearchMovies(ctx context.Context, title string) ([]domain.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.InvalidInput("Title parameter is required")
	}

	movies, err := s.repo.SearchByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	return movies, nil
}

// FilterMovies returns movies matching the given criteria.
func (s *CatalogService) FilterMovies(ctx context.Context, filter domain.MovieFilter) ([]domain.Movie, error) {
	if filter.MinRating != nil && (*filter.MinRating < 0 || *filter.MinRating > 10) {
		return nil, apperrors.InvalidInput("minRating must be between 0 and 10")
	}

	movies, err := s.repo.Filter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("filter movies: %w", err)
	}
	return movies, nil
}

// TopRatedPage is a page of the top-rated listing.
type TopRatedPage struct {
	Movies  []domain.Movie
	Start   int
	Limit   int
	Total   int
	HasMore bool
}

// TopRatedMovies returns a page of movies ordered by rating descending.
func (s *CatalogService) TopRatedMovies(ctx context.Context, start, limit int) (*TopRatedPage, error) {
	if start < 0 || limit < 1 || limit > MaxTopRatedLimit {
		return nil, apperrors.InvalidInput("Invalid pagination parameters")
	}

	movies, total, err := s.repo.TopRated(ctx, start, limit)
	if err != nil {
		return nil, fmt.Errorf("top rated movies: %w", err)
	}

	return &TopRatedPage{
		Movies:  movies,
		Start:   start,
		Limit:   limit,
		Total:   total,
		HasMore: start+limit < total,
	}, nil
}

// Dashboard returns catalog-wide aggregate statistics.
func (s *CatalogService) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	summary, err := s.repo.DashboardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return summary, nil
}
