package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/movigo/show-booking/internal/middleware"
	"github.com/movigo/show-booking/internal/model"
	"github.com/movigo/show-booking/internal/queue"
	"github.com/movigo/show-booking/internal/repository"
	"github.com/movigo/show-booking/internal/reservation"
	queue_publisher "github.com/movigo/show-booking/internal/service"
)

// BookingHandler is the HTTP surface over the reservation engine.  All
// serialization and retry behavior lives in the engine; this layer only
// maps engine results onto status codes and publishes booking events.
type BookingHandler struct {
	Engine *reservation.Engine
	Shows  *repository.ShowRepo
	Movies *repository.MovieRepo
}

// NewBookingHandler constructs a BookingHandler.  Shows and Movies are
// used only to enrich published events.
func NewBookingHandler(engine *reservation.Engine, shows *repository.ShowRepo, movies *repository.MovieRepo) *BookingHandler {
	if engine == nil || shows == nil || movies == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Shows: shows, Movies: movies}
}

type bookSeatReq struct {
	SeatNumber uint32 `json:"seat_number"`
}

// Book handles POST /v1/shows/:id/book.  Exactly one of any number of
// concurrent requests for the same (show, seat) gets 201; the rest get
// 409.  Transient storage trouble surfaces as 503 only after the
// engine's retry budget is spent.
func (h *BookingHandler) Book(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req bookSeatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.SeatNumber == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number required"})
	}

	booking, err := h.Engine.Book(c.Request().Context(), showID, req.SeatNumber, userID)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrShowNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		case errors.Is(err, reservation.ErrSeatOutOfRange):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat number out of range"})
		case errors.Is(err, reservation.ErrSeatTaken):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
		case errors.Is(err, reservation.ErrStorageUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "could not complete booking, please try again"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}

	h.publishBooked(booking)

	return c.JSON(http.StatusCreated, echo.Map{
		"message":     "seat booked successfully",
		"booking_id":  booking.ID,
		"seat_number": booking.SeatNumber,
		"show_id":     booking.ShowID,
	})
}

// Cancel handles POST /v1/bookings/:id/cancel.  Only the holder may
// cancel; a second cancel reports the booking as already cancelled.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	booking, err := h.Engine.Cancel(c.Request().Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, reservation.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only cancel your own bookings"})
		case errors.Is(err, reservation.ErrAlreadyCancelled):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking is already cancelled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
		}
	}

	h.publishCancelled(booking)

	return c.JSON(http.StatusOK, echo.Map{
		"message":     "booking cancelled successfully",
		"booking_id":  booking.ID,
		"seat_number": booking.SeatNumber,
		"show_id":     booking.ShowID,
	})
}

// Availability handles GET /v1/shows/:id/availability.  The numbers are
// recomputed from the ledger on every call; this route is deliberately
// kept outside the response cache.
func (h *BookingHandler) Availability(c echo.Context) error {
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	avail, err := h.Engine.Availability(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, reservation.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, avail)
}

// MyBookings handles GET /v1/my/bookings: the caller's bookings, newest
// first, including cancelled ones.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookings, err := h.Engine.UserBookings(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// publishBooked emits a SeatBookedEvent in the background.  Event
// delivery is best effort: a broker outage never fails the booking.
func (h *BookingHandler) publishBooked(b *model.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.SeatBookedEvent{
			EventID:    uuid.NewString(),
			BookingID:  b.ID,
			ShowID:     b.ShowID,
			UserID:     b.UserID,
			SeatNumber: b.SeatNumber,
			BookedAt:   b.CreatedAt.UTC().Format(time.RFC3339),
		}
		if show, err := h.Shows.GetShow(ctx, b.ShowID); err == nil {
			ev.ScreenName = show.ScreenName
			ev.StartsAt = show.StartsAt.UTC().Format(time.RFC3339)
			if movie, err := h.Movies.GetByID(ctx, show.MovieID); err == nil {
				ev.MovieTitle = movie.Title
			}
		}
		if err := queue_publisher.PublishSeatBooked(ctx, ev); err != nil {
			log.Printf("booking: publish booked event failed: %v", err)
		}
	}()
}

// publishCancelled emits a SeatCancelledEvent in the background.
func (h *BookingHandler) publishCancelled(b *model.Booking) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.SeatCancelledEvent{
			EventID:     uuid.NewString(),
			BookingID:   b.ID,
			ShowID:      b.ShowID,
			UserID:      b.UserID,
			SeatNumber:  b.SeatNumber,
			CancelledAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := queue_publisher.PublishSeatCancelled(ctx, ev); err != nil {
			log.Printf("booking: publish cancelled event failed: %v", err)
		}
	}()
}
