package model

import "time"

// Show represents a scheduled screening of a movie on a particular
// screen.  TotalSeats fixes the seating capacity at creation time and
// is never changed afterwards; seats are addressed by plain numbers
// 1..TotalSeats.  Availability is always derived from the booking
// ledger, never stored on the show itself.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being shown.
//  ScreenName – screen/theater name.
//  StartsAt   – when the show begins.
//  TotalSeats – fixed seating capacity (1..1000).
//  PriceCents – ticket price in cents.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Show struct {
	ID         uint64    `json:"id"`
	MovieID    uint64    `json:"movie_id"`
	ScreenName string    `json:"screen_name"`
	StartsAt   time.Time `json:"starts_at"`
	TotalSeats uint32    `json:"total_seats"`
	PriceCents uint32    `json:"price_cents"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
