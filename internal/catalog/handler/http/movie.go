package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/domain"
	"github.com/jasondotparse/movie-library-explorer/internal/catalog/service"
	"github.com/jasondotparse/movie-library-explorer/pkg/httputil"
	"github.com/jasondotparse/movie-library-explorer/pkg/validator"
)

// MovieHandler handles HTTP requests for movie endpoints.
type MovieHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewMovieHandler creates a new movie HTTP handler.
func NewMovieHandler(svc *service.CatalogService, logger *slog.Logger) *MovieHandler {
	return &MovieHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// SubmitMovieRequest is the JSON request body for submitting a movie.
// Rating and Year are pointers so the required check rejects absent fields
// while still accepting zero values.
type SubmitMovieRequest struct {
	Title  string   `json:"title" validate:"required,min=1,max=255"`
	Genre  string   `json:"genre" validate:"required,min=1,max=100"`
	Rating *float64 `json:"rating" validate:"required,gte=0,lte=10"`
	Year   *int     `json:"year" validate:"required,gte=1900,lte=2100"`
}

// --- Response DTOs ---

// SubmitMovieResponse acknowledges an accepted submission. ID is the
// correlation identifier, not the eventual record ID.
type SubmitMovieResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// SearchResponse is the body of the search endpoint.
type SearchResponse struct {
	Movies []domain.Movie `json:"movies"`
}

// FilterResponse is the body of the filter endpoint. Filters echoes the
// criteria that were applied.
type FilterResponse struct {
	Movies     []domain.Movie `json:"movies"`
	TotalCount int            `json:"totalCount"`
	Filters    map[string]any `json:"filters"`
}

// Pagination describes a page of the top-rated listing.
type Pagination struct {
	Start   int  `json:"start"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

// TopRatedResponse is the body of the top-rated endpoint.
type TopRatedResponse struct {
	Movies     []domain.Movie `json:"movies"`
	Pagination Pagination     `json:"pagination"`
}

// --- Handlers ---

// SubmitMovie handles POST /api/movies. The movie is validated, enqueued,
// and persisted asynchronously; the response carries only a correlation ID.
func (h *MovieHandler) SubmitMovie(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SubmitMovieRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	id, err := h.service.SubmitMovie(r.Context(), &service.SubmitMovieInput{
		Title:  req.Title,
		Genre:  req.Genre,
		Rating: *req.Rating,
		Year:   *req.Year,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, SubmitMovieResponse{
		ID:      id,
		Message: "Movie creation request received",
	})
}

// SearchMovies handles GET /api/movies/search?title=...
func (h *MovieHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.SearchMovies(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, SearchResponse{Movies: movies})
}

// FilterMovies handles GET /api/movies/filter?genre=...&minRating=...&year=...
// The genre parameter may be repeated to match any of several genres.
func (h *MovieHandler) FilterMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var filter domain.MovieFilter
	filters := map[string]any{}

	if genres := query["genre"]; len(genres) > 0 {
		filter.Genres = genres
		filters["genres"] = genres
	}

	if v := query.Get("minRating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
				Error: &httputil.ErrorResponse{Code: "VALIDATION_ERROR", Message: "Invalid minRating value"},
			})
			return
		}
		filter.MinRating = &rating
		filters["minRating"] = rating
	}

	if v := query.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
				Error: &httputil.ErrorResponse{Code: "VALIDATION_ERROR", Message: "Invalid year value"},
			})
			return
		}
		filter.Year = &year
		filters["year"] = year
	}

	movies, err := h.service.FilterMovies(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FilterResponse{
		Movies:     movies,
		TotalCount: len(movies),
		Filters:    filters,
	})
}

// TopRatedMovies handles GET /api/movies/top-rated?start=...&limit=...
func (h *MovieHandler) TopRatedMovies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start := 0
	limit := service.DefaultTopRatedLimit

	if v := query.Get("start"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
				Error: &httputil.ErrorResponse{Code: "VALIDATION_ERROR", Message: "Invalid pagination parameters"},
			})
			return
		}
		start = n
	}
	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorBody{
				Error: &httputil.ErrorResponse{Code: "VALIDATION_ERROR", Message: "Invalid pagination parameters"},
			})
			return
		}
		limit = n
	}

	page, err := h.service.TopRatedMovies(r.Context(), start, limit)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TopRatedResponse{
		Movies: page.Movies,
		Pagination: Pagination{
			Start:   page.Start,
			Limit:   page.Limit,
			Total:   page.Total,
			HasMore: page.HasMore,
		},
	})
}

// Dashboard handles GET /api/dashboard
func (h *MovieHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Dashboard(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, summary)
}
