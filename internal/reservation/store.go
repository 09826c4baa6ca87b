package reservation

import (
	"context"

	"github.com/movigo/show-booking/internal/model"
)

// ShowStore is the show registry the engine validates against.  It is
// read-only from the engine's point of view; capacity is fixed when a
// show is created.
type ShowStore interface {
	// GetShow returns the show or ErrShowNotFound.
	GetShow(ctx context.Context, showID uint64) (*model.Show, error)
}

// BookingStore is the seat ledger: the authoritative record of all
// bookings.  Implementations must return the package's sentinel errors
// for the logical outcomes documented per method; any other error is
// treated as a transient storage fault and may be retried by the
// engine.
type BookingStore interface {
	// IsSeatBooked reports whether a BOOKED booking exists for the
	// given show and seat number.
	IsSeatBooked(ctx context.Context, showID uint64, seatNumber uint32) (bool, error)

	// Insert persists a new booking with status BOOKED and fills in
	// the generated ID and timestamps.  It returns ErrSeatTaken when a
	// BOOKED booking already occupies the seat.
	Insert(ctx context.Context, b *model.Booking) error

	// GetByID returns the booking or ErrBookingNotFound.
	GetByID(ctx context.Context, bookingID uint64) (*model.Booking, error)

	// Cancel transitions the booking BOOKED -> CANCELLED and reports
	// whether this call performed the transition.  A false return with
	// nil error means the booking was already cancelled, possibly by a
	// concurrent call.
	Cancel(ctx context.Context, bookingID uint64) (bool, error)

	// ListByUser returns all of a user's bookings, newest first.
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)

	// BookedSeatNumbers returns the seat numbers currently BOOKED for
	// a show, in ascending order.
	BookedSeatNumbers(ctx context.Context, showID uint64) ([]uint32, error)

	// CountBooked returns the number of BOOKED bookings for a show.
	CountBooked(ctx context.Context, showID uint64) (uint32, error)
}
