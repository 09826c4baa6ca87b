package reservation

import (
	"context"
	"time"

	"github.com/movigo/show-booking/internal/model"
)

// Default retry tuning for the booking protocol.  Three attempts with
// 100ms linear backoff bounds a worst case at roughly 300ms of waiting
// before the fault is surfaced.
const (
	DefaultMaxAttempts = 3
	DefaultRetryBase   = 100 * time.Millisecond
)

// Engine orchestrates seat booking and cancellation over a show
// registry and a booking ledger.  It owns the serialization of
// concurrent booking attempts: callers may invoke Book from any number
// of goroutines without external coordination.
type Engine struct {
	shows    ShowStore
	bookings BookingStore
	locks    *showLocks

	maxAttempts int
	retryBase   time.Duration
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRetry overrides the retry budget and backoff base used for
// transient storage faults during booking.
func WithRetry(maxAttempts int, base time.Duration) Option {
	return func(e *Engine) {
		if maxAttempts > 0 {
			e.maxAttempts = maxAttempts
		}
		if base > 0 {
			e.retryBase = base
		}
	}
}

// NewEngine constructs an Engine.  Both stores must be non-nil.
func NewEngine(shows ShowStore, bookings BookingStore, opts ...Option) *Engine {
	if shows == nil || bookings == nil {
		panic("nil store passed to NewEngine")
	}
	e := &Engine{
		shows:       shows,
		bookings:    bookings,
		locks:       newShowLocks(),
		maxAttempts: DefaultMaxAttempts,
		retryBase:   DefaultRetryBase,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Book reserves seatNumber on a show for a user.  Among concurrent
// attempts for the same (show, seat), exactly one succeeds; the rest
// observe ErrSeatTaken.  Transient storage faults are retried with
// linear backoff before ErrStorageUnavailable is returned; validation
// failures and conflicts are reported immediately.
func (e *Engine) Book(ctx context.Context, showID uint64, seatNumber uint32, userID uint64) (*model.Booking, error) {
	show, err := e.shows.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	if seatNumber < 1 || seatNumber > show.TotalSeats {
		return nil, ErrSeatOutOfRange
	}

	var booking *model.Booking
	err = withRetry(ctx, e.maxAttempts, e.retryBase, func() error {
		b, err := e.bookOnce(ctx, showID, seatNumber, userID)
		if err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// bookOnce runs the critical section of the booking protocol: under
// the show's exclusive lock it re-checks occupancy and inserts the new
// booking.  Any occupancy check made before the lock was acquired is
// informational only; the check inside the critical section is the one
// that counts.
func (e *Engine) bookOnce(ctx context.Context, showID uint64, seatNumber uint32, userID uint64) (*model.Booking, error) {
	mu := e.locks.get(showID)
	mu.Lock()
	defer mu.Unlock()

	taken, err := e.bookings.IsSeatBooked(ctx, showID, seatNumber)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSeatTaken
	}

	b := &model.Booking{
		ShowID:     showID,
		UserID:     userID,
		SeatNumber: seatNumber,
		Status:     model.StatusBooked,
	}
	if err := e.bookings.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Cancel transitions a booking BOOKED -> CANCELLED on behalf of its
// holder.  The per-show lock is not taken: cancellation only narrows
// availability and introduces no uniqueness risk, and the conditional
// transition in the ledger keeps concurrent cancels of the same
// booking from both succeeding.  Transient faults are not retried
// here; the operation is idempotent and safe for the caller to re-issue.
func (e *Engine) Cancel(ctx context.Context, bookingID, userID uint64) (*model.Booking, error) {
	b, err := e.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrNotOwner
	}
	if b.Status != model.StatusBooked {
		return nil, ErrAlreadyCancelled
	}
	transitioned, err := e.bookings.Cancel(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// Lost the race against a concurrent cancel of the same booking.
		return nil, ErrAlreadyCancelled
	}
	b.Status = model.StatusCancelled
	return b, nil
}

// Availability reports the derived availability of a show: the number
// of free seats and the currently booked seat numbers.  It is always
// recomputed from the ledger.
type Availability struct {
	ShowID            uint64   `json:"show_id"`
	TotalSeats        uint32   `json:"total_seats"`
	AvailableSeats    uint32   `json:"available_seats"`
	BookedSeatNumbers []uint32 `json:"booked_seat_numbers"`
}

// Availability returns the current availability of a show or
// ErrShowNotFound.
func (e *Engine) Availability(ctx context.Context, showID uint64) (*Availability, error) {
	show, err := e.shows.GetShow(ctx, showID)
	if err != nil {
		return nil, err
	}
	seats, err := e.bookings.BookedSeatNumbers(ctx, showID)
	if err != nil {
		return nil, err
	}
	if seats == nil {
		seats = []uint32{}
	}
	booked := uint32(len(seats))
	avail := uint32(0)
	if show.TotalSeats > booked {
		avail = show.TotalSeats - booked
	}
	return &Availability{
		ShowID:            showID,
		TotalSeats:        show.TotalSeats,
		AvailableSeats:    avail,
		BookedSeatNumbers: seats,
	}, nil
}

// UserBookings returns all bookings held by a user, newest first.
func (e *Engine) UserBookings(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return e.bookings.ListByUser(ctx, userID)
}
