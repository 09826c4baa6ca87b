package model

import "time"

// BookingStatus is the closed set of lifecycle states for a booking.
// A booking starts as StatusBooked and may transition exactly once to
// StatusCancelled.  There is no way back: re-booking a freed seat
// creates a new Booking row, the cancelled one is kept for history.
type BookingStatus string

const (
	StatusBooked    BookingStatus = "BOOKED"
	StatusCancelled BookingStatus = "CANCELLED"
)

// Booking records one user's claim on one seat of one show.
// For any show, at most one booking with status BOOKED may exist per
// seat number; cancelled rows do not count against that constraint.
// Bookings are never deleted.
//
// Fields:
//  ID         – primary key identifier.
//  ShowID     – show the seat belongs to.
//  UserID     – holder of the booking.
//  SeatNumber – 1-based seat number, bounded by the show's TotalSeats.
//  Status     – current lifecycle state.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Booking struct {
	ID         uint64        `json:"id"`
	ShowID     uint64        `json:"show_id"`
	UserID     uint64        `json:"user_id"`
	SeatNumber uint32        `json:"seat_number"`
	Status     BookingStatus `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}
