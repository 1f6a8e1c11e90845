package postgres

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/domain"
	"github.com/jasondotparse/movie-library-explorer/pkg/database"
)

// MovieRepository implements domain.MovieRepository using PostgreSQL.
type MovieRepository struct {
	pool database.DBTX
}

// NewMovieRepository creates a new PostgreSQL-backed movie repository.
func NewMovieRepository(pool database.DBTX) *MovieRepository {
	return &MovieRepository{pool: pool}
}

// Create inserts a new movie. A duplicate title/genre/year combination is
// skipped and reported as inserted=false.
func (r *MovieRepository) Create(ctx context.Context, m *domain.Movie) (bool, error) {
	query := `
		INSERT INTO movies (id, title, genre, rating, year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT unique_movie_combination DO NOTHING`

	ct, err := r.pool.Exec(ctx, query,
		m.ID,
		m.Title,
		m.Genre,
		m.Rating,
		m.Year,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert movie: %w", err)
	}

	return ct.RowsAffected() > 0, nil
}

// SearchByTitle returns movies whose title contains the query, ordered by title.
func (r *MovieRepository) SearchByTitle(ctx context.Context, query string) ([]domain.Movie, error) {
	sql := `
		SELECT id, title, genre, rating, year, created_at
		FROM movies
		WHERE title ILIKE $1
		ORDER BY title`

	rows, err := r.pool.Query(ctx, sql, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer rows.Close()

	return scanMovies(rows, true)
}

// Filter returns movies matching the criteria, ordered by rating descending
// then title.
func (r *MovieRepository) Filter(ctx context.Context, filter domain.MovieFilter) ([]domain.Movie, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if len(filter.Genres) > 0 {
		conditions = append(conditions, fmt.Sprintf("genre = ANY($%d)", argIndex))
		args = append(args, filter.Genres)
		argIndex++
	}

	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", argIndex))
		args = append(args, *filter.MinRating)
		argIndex++
	}

	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("year = $%d", argIndex))
		args = append(args, *filter.Year)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	sql := fmt.Sprintf(`
		SELECT id, title, genre, rating, year, created_at
		FROM movies
		%s
		ORDER BY rating DESC, title`, whereClause)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("filter movies: %w", err)
	}
	defer rows.Close()

	return scanMovies(rows, true)
}

// TopRated returns a page of movies ordered by rating descending along with
// the total catalog size.
func (r *MovieRepository) TopRated(ctx context.Context, start, limit int) ([]domain.Movie, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movies: %w", err)
	}

	sql := `
		SELECT id, title, genre, rating, year
		FROM movies
		ORDER BY rating DESC, title, id
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, sql, limit, start)
	if err != nil {
		return nil, 0, fmt.Errorf("top rated movies: %w", err)
	}
	defer rows.Close()

	movies, err := scanMovies(rows, false)
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// DashboardStats computes catalog-wide aggregate statistics.
func (r *MovieRepository) DashboardStats(ctx context.Context) (*domain.DashboardSummary, error) {
	summary := &domain.DashboardSummary{
		TopGenres:    []domain.GenreCount{},
		MoviesByYear: []domain.YearCount{},
	}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM movies`).Scan(&summary.TotalMovies); err != nil {
		return nil, fmt.Errorf("count movies: %w", err)
	}

	var avg *float64
	if err := r.pool.QueryRow(ctx, `SELECT AVG(rating) FROM movies`).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}
	if avg != nil {
		// One decimal place, matching the API contract.
		summary.AverageRating = math.Round(*avg*10) / 10
	}

	genreRows, err := r.pool.Query(ctx, `
		SELECT genre, COUNT(*) as count
		FROM movies
		GROUP BY genre
		ORDER BY count DESC, genre
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top genres: %w", err)
	}
	defer genreRows.Close()

	for genreRows.Next() {
		var gc domain.GenreCount
		if err := genreRows.Scan(&gc.Genre, &gc.Count); err != nil {
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		summary.TopGenres = append(summary.TopGenres, gc)
	}
	if err := genreRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genre rows: %w", err)
	}

	yearRows, err := r.pool.Query(ctx, `
		SELECT year, COUNT(*) as count
		FROM movies
		GROUP BY year
		ORDER BY year DESC
		LIMIT 20`)
	if err != nil {
		return nil, fmt.Errorf("movies by year: %w", err)
	}
	defer yearRows.Close()

	for yearRows.Next() {
		var yc domain.YearCount
		if err := yearRows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, fmt.Errorf("scan year row: %w", err)
		}
		summary.MoviesByYear = append(summary.MoviesByYear, yc)
	}
	if err := yearRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate year rows: %w", err)
	}

	return summary, nil
}

// Ping verifies store connectivity.
func (r *MovieRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// rowsScanner is the subset of pgx.Rows used by scanMovies.
type rowsScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanMovies(rows rowsScanner, withCreatedAt bool) ([]domain.Movie, error) {
	movies := []domain.Movie{}

	for rows.Next() {
		var m domain.Movie

		var err error
		if withCreatedAt {
			err = rows.Scan(&m.ID, &m.Title, &m.Genre, &m.Rating, &m.Year, &m.CreatedAt)
		} else {
			err = rows.Scan(&m.ID, &m.Title, &m.Genre, &m.Rating, &m.Year)
		}
		if err != nil {
			return nil, fmt.Errorf("scan movie row: %w", err)
		}

		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}

	return movies, nil
}
