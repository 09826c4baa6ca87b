package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/movigo/show-booking/internal/model"
	"github.com/movigo/show-booking/internal/repository"
)

// ShowHandler exposes show scheduling: public listing, admin-only
// creation.  Capacity (total_seats) is fixed at creation and cannot be
// changed afterwards; the booking ledger depends on it staying put.
type ShowHandler struct {
	Shows  *repository.ShowRepo
	Movies *repository.MovieRepo
}

// NewShowHandler constructs a ShowHandler with the provided repositories.
func NewShowHandler(shows *repository.ShowRepo, movies *repository.MovieRepo) *ShowHandler {
	if shows == nil || movies == nil {
		panic("nil repository passed to NewShowHandler")
	}
	return &ShowHandler{Shows: shows, Movies: movies}
}

type createShowReq struct {
	MovieID    uint64    `json:"movie_id"`
	ScreenName string    `json:"screen_name"`
	StartsAt   time.Time `json:"starts_at"`
	TotalSeats uint32    `json:"total_seats"`
	PriceCents uint32    `json:"price_cents"`
}

// List handles GET /v1/shows.  Public; ordered by start time.
func (h *ShowHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shows, err := h.Shows.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, shows)
}

// Create handles POST /v1/shows (ADMIN only).
func (h *ShowHandler) Create(c echo.Context) error {
	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ScreenName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "screen_name required"})
	}
	if req.StartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at required"})
	}
	if req.TotalSeats < 1 || req.TotalSeats > 1000 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be within 1..1000"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	s := &model.Show{
		MovieID:    req.MovieID,
		ScreenName: req.ScreenName,
		StartsAt:   req.StartsAt.UTC(),
		TotalSeats: req.TotalSeats,
		PriceCents: req.PriceCents,
	}
	if err := h.Shows.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}
	return c.JSON(http.StatusCreated, s)
}
