package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movigo/show-booking/internal/model"
	"github.com/movigo/show-booking/internal/repository"
)

// MovieHandler exposes the movie catalog: public listing and detail,
// admin-only creation.  Show scheduling lives in ShowHandler.
type MovieHandler struct {
	Movies   *repository.MovieRepo
	ShowRepo *repository.ShowRepo
}

// NewMovieHandler constructs a MovieHandler with the provided repositories.
func NewMovieHandler(movies *repository.MovieRepo, shows *repository.ShowRepo) *MovieHandler {
	if movies == nil || shows == nil {
		panic("nil repository passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, ShowRepo: shows}
}

type createMovieReq struct {
	Title           string     `json:"title"`
	DurationMinutes uint32     `json:"duration_minutes"`
	Genre           string     `json:"genre"`
	Rating          *float64   `json:"rating"`
	Description     string     `json:"description"`
	ReleaseDate     *time.Time `json:"release_date"`
}

// List handles GET /v1/movies.  Public; newest first.
func (h *MovieHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, movies)
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, m)
}

// Create handles POST /v1/movies (ADMIN only).
func (h *MovieHandler) Create(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.DurationMinutes < 1 || req.DurationMinutes > 600 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_minutes must be within 1..600"})
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 10) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be within 0..10"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Movie{
		Title:           req.Title,
		DurationMinutes: req.DurationMinutes,
		Genre:           req.Genre,
		Rating:          req.Rating,
		Description:     req.Description,
		ReleaseDate:     req.ReleaseDate,
	}
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Shows handles GET /v1/movies/:id/shows: all screenings of one movie
// ordered by start time.
func (h *MovieHandler) Shows(c echo.Context) error {
	movieID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, movieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	shows, err := h.ShowRepo.ListByMovie(ctx, movieID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, shows)
}
