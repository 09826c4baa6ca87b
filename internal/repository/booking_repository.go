// Package repository contains the MySQL persistence layer.  This file
// implements the booking ledger: the authoritative record of every
// booking ever made.  Rows are never deleted; a cancelled booking stays
// in the table with status CANCELLED so the seat's history survives.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/movigo/show-booking/internal/model"
	"github.com/movigo/show-booking/internal/reservation"
)

// BookingRepo persists bookings.  It satisfies reservation.BookingStore.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = "id, show_id, user_id, seat_number, status, created_at, updated_at"

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}, b *model.Booking) error {
	return row.Scan(&b.ID, &b.ShowID, &b.UserID, &b.SeatNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

// IsSeatBooked reports whether a BOOKED booking occupies the given seat.
func (r *BookingRepo) IsSeatBooked(ctx context.Context, showID uint64, seatNumber uint32) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM bookings WHERE show_id=? AND seat_number=? AND status=?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, showID, seatNumber, model.StatusBooked).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Insert creates a booking row with status BOOKED inside a transaction
// that holds the show row FOR UPDATE.  The engine already serializes
// attempts per show in-process; the row lock makes the check-then-insert
// atomic even when several server processes share the database.
// Returns reservation.ErrSeatTaken when the seat is occupied.
func (r *BookingRepo) Insert(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the show row so no concurrent transaction can pass the
	// occupancy check below until we commit.
	var showID uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM shows WHERE id=? FOR UPDATE`, b.ShowID).Scan(&showID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return reservation.ErrShowNotFound
		}
		return err
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bookings WHERE show_id=? AND seat_number=? AND status=?)`,
		b.ShowID, b.SeatNumber, model.StatusBooked).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return reservation.ErrSeatTaken
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (show_id, user_id, seat_number, status) VALUES (?,?,?,?)`,
		b.ShowID, b.UserID, b.SeatNumber, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Query back the inserted row so DB-default timestamps are populated.
	const sel = `SELECT ` + bookingCols + ` FROM bookings WHERE id=?`
	if err := scanBooking(tx.QueryRowContext(ctx, sel, b.ID), b); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID fetches a booking by id or returns reservation.ErrBookingNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, bookingID uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id=? LIMIT 1`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, bookingID), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Cancel performs the BOOKED -> CANCELLED transition as a conditional
// update.  The WHERE clause on status makes the transition race-safe:
// of two concurrent cancels, only one sees rows-affected = 1.
func (r *BookingRepo) Cancel(ctx context.Context, bookingID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status=? WHERE id=? AND status=?`,
		model.StatusCancelled, bookingID, model.StatusBooked)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ListByUser returns every booking a user has ever made, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE user_id=? ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BookedSeatNumbers returns the seat numbers with a BOOKED booking for
// the show, in ascending order.
func (r *BookingRepo) BookedSeatNumbers(ctx context.Context, showID uint64) ([]uint32, error) {
	const q = `SELECT seat_number FROM bookings WHERE show_id=? AND status=? ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, showID, model.StatusBooked)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]uint32, 0)
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountBooked returns the number of BOOKED bookings for the show.
func (r *BookingRepo) CountBooked(ctx context.Context, showID uint64) (uint32, error) {
	const q = `SELECT COUNT(*) FROM bookings WHERE show_id=? AND status=?`
	var n uint32
	if err := r.db.QueryRowContext(ctx, q, showID, model.StatusBooked).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
