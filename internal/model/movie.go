package model

import "time"

// Movie holds catalog information about a film that can be scheduled
// for screenings.  Movies themselves carry no booking state; shows
// reference them and bookings reference shows.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – movie title.
//  DurationMinutes – running time in minutes (1..600).
//  Genre           – free-form genre label, may be empty.
//  Rating          – rating out of 10, nil when not rated yet.
//  Description     – synopsis text, may be empty.
//  ReleaseDate     – theatrical release date, nil when unknown.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Movie struct {
	ID              uint64     `json:"id"`
	Title           string     `json:"title"`
	DurationMinutes uint32     `json:"duration_minutes"`
	Genre           string     `json:"genre,omitempty"`
	Rating          *float64   `json:"rating,omitempty"`
	Description     string     `json:"description,omitempty"`
	ReleaseDate     *time.Time `json:"release_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
