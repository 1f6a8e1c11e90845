package domain

import (
	"context"
	"time"
)

// Movie represents a catalog entry. The updated_at column exists in the
// store but is never exposed over the API.
type Movie struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Genre     string     `json:"genre"`
	Rating    float64    `json:"rating"`
	Year      int        `json:"year"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"-"`
}

// MovieFilter defines criteria for the filter listing. All fields are
// optional; empty criteria match everything.
type MovieFilter struct {
	Genres    []string
	MinRating *float64
	Year      *int
}

// GenreCount is one entry of the dashboard genre leaderboard.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// YearCount is one entry of the dashboard per-year histogram.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// DashboardSummary aggregates catalog-wide statistics.
type DashboardSummary struct {
	TotalMovies   int          `json:"totalMovies"`
	AverageRating float64      `json:"averageRating"`
	TopGenres     []GenreCount `json:"topGenres"`
	MoviesByYear  []YearCount  `json:"moviesByYear"`
}

// MovieRepository defines the interface for movie persistence operations.
type MovieRepository interface {
	// Create inserts a new movie. Duplicate title/genre/year combinations
	// are skipped without error and reported via the return value.
	Create(ctx context.Context, movie *Movie) (inserted bool, err error)

	// SearchByTitle returns movies whose title contains the query
	// (case-insensitive), ordered by title.
	SearchByTitle(ctx context.Context, query string) ([]Movie, error)

	// Filter returns movies matching the given criteria, ordered by rating
	// descending then title.
	Filter(ctx context.Context, filter MovieFilter) ([]Movie, error)

	// TopRated returns a page of movies ordered by rating descending along
	// with the total number of movies in the catalog.
	TopRated(ctx context.Context, start, limit int) ([]Movie, int, error)

	// DashboardStats computes catalog-wide aggregate statistics.
	DashboardStats(ctx context.Context) (*DashboardSummary, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error
}
