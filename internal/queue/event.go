// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatBookedEvent is published when a seat booking is successfully
// committed.  It carries enough information for downstream consumers to
// log, notify, or feed analytics without querying the primary database.
type SeatBookedEvent struct {
	EventID    string `json:"event_id"`
	BookingID  uint64 `json:"booking_id"`
	ShowID     uint64 `json:"show_id"`
	UserID     uint64 `json:"user_id"`
	SeatNumber uint32 `json:"seat_number"`
	MovieTitle string `json:"movie_title"`
	ScreenName string `json:"screen_name"`
	StartsAt   string `json:"starts_at"`
	BookedAt   string `json:"booked_at"`
}

// SeatCancelledEvent is published when a holder cancels a booking and
// the seat becomes available again.
type SeatCancelledEvent struct {
	EventID     string `json:"event_id"`
	BookingID   uint64 `json:"booking_id"`
	ShowID      uint64 `json:"show_id"`
	UserID      uint64 `json:"user_id"`
	SeatNumber  uint32 `json:"seat_number"`
	CancelledAt string `json:"cancelled_at"`
}
