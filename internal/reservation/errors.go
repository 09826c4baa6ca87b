// Package reservation implements the seat reservation engine: the
// booking and cancellation protocols, the per-show locking discipline
// that guarantees at most one BOOKED booking per (show, seat), and the
// read paths derived from the booking ledger.
package reservation

import "errors"

// Sentinel errors returned by the engine.  Handlers map each one to a
// distinct HTTP response so callers can render an accurate message
// without inspecting internals.
//
// Validation and conflict errors are final: the engine never retries
// them.  Only ErrStorageUnavailable indicates a system fault, and it
// is surfaced only after the internal retry budget is exhausted.
var (
	// ErrShowNotFound is returned when the target show does not exist.
	ErrShowNotFound = errors.New("show not found")

	// ErrSeatOutOfRange is returned when the requested seat number is
	// not within 1..TotalSeats for the show.
	ErrSeatOutOfRange = errors.New("seat number out of range")

	// ErrSeatTaken is returned when another BOOKED booking already
	// occupies the requested seat.  This is a logical conflict, not a
	// storage fault, and is never retried.
	ErrSeatTaken = errors.New("seat already booked")

	// ErrStorageUnavailable is returned after transient storage faults
	// persisted through all retry attempts.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrBookingNotFound is returned when no booking exists with the
	// given id.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrNotOwner is returned when a user attempts to cancel a booking
	// held by someone else.
	ErrNotOwner = errors.New("booking belongs to another user")

	// ErrAlreadyCancelled is returned when the booking has already been
	// cancelled.  A second concurrent cancel observes this error rather
	// than silently succeeding.
	ErrAlreadyCancelled = errors.New("booking already cancelled")
)

// isFinal reports whether err is one of the engine's logical results
// that must never be retried.  Anything else coming out of a store is
// treated as a transient infrastructure fault.
func isFinal(err error) bool {
	return errors.Is(err, ErrShowNotFound) ||
		errors.Is(err, ErrSeatOutOfRange) ||
		errors.Is(err, ErrSeatTaken) ||
		errors.Is(err, ErrBookingNotFound) ||
		errors.Is(err, ErrNotOwner) ||
		errors.Is(err, ErrAlreadyCancelled)
}
