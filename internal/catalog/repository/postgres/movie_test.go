package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/domain"
	"github.com/jasondotparse/movie-library-explorer/pkg/database"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupRepo(t *testing.T) (*MovieRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewMovieRepository(mock)
	return repo, mock
}

func sampleMovie() *domain.Movie {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Movie{
		ID:        "7c9a2f1e-1111-2222-3333-444455556666",
		Title:     "The Long Voyage",
		Genre:     "Drama",
		Rating:    8.4,
		Year:      2019,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

func movieColumns() []string {
	return []string{"id", "title", "genre", "rating", "year", "created_at"}
}

func movieRow(m *domain.Movie) *pgxmock.Rows {
	return pgxmock.NewRows(movieColumns()).
		AddRow(m.ID, m.Title, m.Genre, m.Rating, m.Year, m.CreatedAt)
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestMovieRepository_Create_Inserted(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	m := sampleMovie()

	mock.ExpectExec("INSERT INTO movies").
		WithArgs(m.ID, m.Title, m.Genre, m.Rating, m.Year, m.CreatedAt, m.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	inserted, err := repo.Create(context.Background(), m)
	assert.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_Create_DuplicateSkipped(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	m := sampleMovie()

	// ON CONFLICT DO NOTHING reports zero affected rows for duplicates.
	mock.ExpectExec("INSERT INTO movies").
		WithArgs(m.ID, m.Title, m.Genre, m.Rating, m.Year, m.CreatedAt, m.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	inserted, err := repo.Create(context.Background(), m)
	assert.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_Create_ExecError(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	m := sampleMovie()

	mock.ExpectExec("INSERT INTO movies").
		WithArgs(m.ID, m.Title, m.Genre, m.Rating, m.Year, m.CreatedAt, m.UpdatedAt).
		WillReturnError(errors.New("connection refused"))

	_, err := repo.Create(context.Background(), m)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "insert movie")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// SearchByTitle
// ---------------------------------------------------------------------------

func TestMovieRepository_SearchByTitle_WrapsQueryInWildcards(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	m := sampleMovie()

	mock.ExpectQuery("SELECT .+ FROM movies WHERE title ILIKE").
		WithArgs("%Voyage%").
		WillReturnRows(movieRow(m))

	movies, err := repo.SearchByTitle(context.Background(), "Voyage")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, m.Title, movies[0].Title)
	assert.NotNil(t, movies[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_SearchByTitle_NoMatches(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM movies WHERE title ILIKE").
		WithArgs("%zzz%").
		WillReturnRows(pgxmock.NewRows(movieColumns()))

	movies, err := repo.SearchByTitle(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// Filter
// ---------------------------------------------------------------------------

func TestMovieRepository_Filter_AllCriteria(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	m := sampleMovie()
	minRating := 8.0
	year := 2019

	mock.ExpectQuery("SELECT .+ FROM movies WHERE genre = ANY.+ AND rating >= .+ AND year =").
		WithArgs([]string{"Drama", "Thriller"}, minRating, year).
		WillReturnRows(movieRow(m))

	movies, err := repo.Filter(context.Background(), domain.MovieFilter{
		Genres:    []string{"Drama", "Thriller"},
		MinRating: &minRating,
		Year:      &year,
	})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_Filter_NoCriteriaReturnsAll(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	m := sampleMovie()

	mock.ExpectQuery("SELECT .+ FROM movies\\s+ORDER BY rating DESC").
		WillReturnRows(movieRow(m))

	movies, err := repo.Filter(context.Background(), domain.MovieFilter{})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// TopRated
// ---------------------------------------------------------------------------

func TestMovieRepository_TopRated_ReturnsPageAndTotal(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	m := sampleMovie()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM movies").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))
	mock.ExpectQuery("SELECT .+ FROM movies\\s+ORDER BY rating DESC, title, id\\s+LIMIT").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "genre", "rating", "year"}).
			AddRow(m.ID, m.Title, m.Genre, m.Rating, m.Year))

	movies, total, err := repo.TopRated(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	require.Len(t, movies, 1)
	// The listing omits creation timestamps.
	assert.Nil(t, movies[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_TopRated_CountError(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM movies").
		WillReturnError(errors.New("connection refused"))

	_, _, err := repo.TopRated(context.Background(), 0, 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "count movies")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// DashboardStats
// ---------------------------------------------------------------------------

func TestMovieRepository_DashboardStats_Success(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	avg := 7.345

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM movies").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT AVG\\(rating\\) FROM movies").
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow(&avg))
	mock.ExpectQuery("SELECT genre, COUNT\\(\\*\\)").
		WillReturnRows(pgxmock.NewRows([]string{"genre", "count"}).
			AddRow("Drama", 2).
			AddRow("Comedy", 1))
	mock.ExpectQuery("SELECT year, COUNT\\(\\*\\)").
		WillReturnRows(pgxmock.NewRows([]string{"year", "count"}).
			AddRow(2021, 2).
			AddRow(2019, 1))

	summary, err := repo.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalMovies)
	assert.Equal(t, 7.3, summary.AverageRating)
	require.Len(t, summary.TopGenres, 2)
	assert.Equal(t, "Drama", summary.TopGenres[0].Genre)
	require.Len(t, summary.MoviesByYear, 2)
	assert.Equal(t, 2021, summary.MoviesByYear[0].Year)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieRepository_DashboardStats_EmptyCatalog(t *testing.T) {
	repo, mock := setupRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM movies").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT AVG\\(rating\\) FROM movies").
		WillReturnRows(pgxmock.NewRows([]string{"avg"}).AddRow((*float64)(nil)))
	mock.ExpectQuery("SELECT genre, COUNT\\(\\*\\)").
		WillReturnRows(pgxmock.NewRows([]string{"genre", "count"}))
	mock.ExpectQuery("SELECT year, COUNT\\(\\*\\)").
		WillReturnRows(pgxmock.NewRows([]string{"year", "count"}))

	summary, err := repo.DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalMovies)
	assert.Zero(t, summary.AverageRating)
	assert.NotNil(t, summary.TopGenres)
	assert.Empty(t, summary.TopGenres)
	assert.NotNil(t, summary.MoviesByYear)
	assert.Empty(t, summary.MoviesByYear)
	assert.NoError(t, mock.ExpectationsWereMet())
}
