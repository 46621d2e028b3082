package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/store"
)

// MovieHandler serves the movie catalogue endpoints.
type MovieHandler struct {
	Movies store.MovieStore
}

func NewMovieHandler(movies store.MovieStore) *MovieHandler {
	return &MovieHandler{Movies: movies}
}

type createMovieReq struct {
	Title       string  `json:"title"`
	Poster      string  `json:"poster"`
	Director    string  `json:"director"`
	Producer    string  `json:"producer"`
	Singer      string  `json:"singer"`
	Hero        string  `json:"hero"`
	Heroine     string  `json:"heroine"`
	TotalAmount float64 `json:"total_amount"`
	StockPrice  float64 `json:"stock_price"`
	CreatorID   string  `json:"creator_id"`
}

// List returns all movies, optionally narrowed to one creator via the
// creatorId query parameter.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	filter := store.MovieFilter{CreatorID: strings.TrimSpace(c.QueryParam("creatorId"))}
	movies, err := h.Movies.ListMovies(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch movies"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get returns one movie by id.
func (h *MovieHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movie, err := h.Movies.GetMovie(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch movie"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Create registers a new movie. The id and invested_amount are assigned
// server side, so a client cannot open a campaign with pre-filled funds.
func (h *MovieHandler) Create(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.TotalAmount <= 0 || req.StockPrice <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_amount and stock_price must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movie := model.Movie{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Poster:      req.Poster,
		Director:    req.Director,
		Producer:    req.Producer,
		Singer:      req.Singer,
		Hero:        req.Hero,
		Heroine:     req.Heroine,
		TotalAmount: req.TotalAmount,
		StockPrice:  req.StockPrice,
		CreatorID:   strings.TrimSpace(req.CreatorID),
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Movies.CreateMovie(ctx, &movie); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to add movie"})
	}
	return c.JSON(http.StatusOK, movie)
}

// Update patches a movie's descriptive fields. Funding figures and
// ownership are not editable through this endpoint.
func (h *MovieHandler) Update(c echo.Context) error {
	var upd model.MovieUpdate
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.UpdateMovie(ctx, c.Param("id"), upd); err != nil {
		if errors.Is(err, store.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update movie"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
