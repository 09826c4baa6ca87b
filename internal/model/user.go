package model

import "time"

// User mirrors the 'users' table.  Passwords are stored only as
// bcrypt hashes.  Role is either CUSTOMER or ADMIN; admins may manage
// the movie and show catalog in addition to booking seats.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
