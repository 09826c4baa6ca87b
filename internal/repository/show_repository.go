package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/movigo/show-booking/internal/model"
	"github.com/movigo/show-booking/internal/reservation"
)

// ShowRepo manages persistence for shows.  It is the show registry the
// reservation engine validates against: read-mostly, with capacity
// fixed at creation.  It satisfies reservation.ShowStore.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

const showCols = "id, movie_id, screen_name, starts_at, total_seats, price_cents, created_at, updated_at"

func scanShow(row interface {
	Scan(dest ...interface{}) error
}, s *model.Show) error {
	return row.Scan(&s.ID, &s.MovieID, &s.ScreenName, &s.StartsAt, &s.TotalSeats, &s.PriceCents, &s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a new show and populates the generated ID and
// DB-default timestamps on the passed struct.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO shows (movie_id, screen_name, starts_at, total_seats, price_cents) VALUES (?,?,?,?,?)`,
		s.MovieID, s.ScreenName, s.StartsAt, s.TotalSeats, s.PriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT ` + showCols + ` FROM shows WHERE id=?`
	return scanShow(r.db.QueryRowContext(ctx, sel, s.ID), s)
}

// GetShow fetches a show by id or returns reservation.ErrShowNotFound.
func (r *ShowRepo) GetShow(ctx context.Context, showID uint64) (*model.Show, error) {
	const q = `SELECT ` + showCols + ` FROM shows WHERE id=? LIMIT 1`
	var s model.Show
	if err := scanShow(r.db.QueryRowContext(ctx, q, showID), &s); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all shows ordered by start time.
func (r *ShowRepo) List(ctx context.Context) ([]model.Show, error) {
	const q = `SELECT ` + showCols + ` FROM shows ORDER BY starts_at`
	return r.queryShows(ctx, q)
}

// ListByMovie returns all shows of one movie ordered by start time.
func (r *ShowRepo) ListByMovie(ctx context.Context, movieID uint64) ([]model.Show, error) {
	const q = `SELECT ` + showCols + ` FROM shows WHERE movie_id=? ORDER BY starts_at`
	return r.queryShows(ctx, q, movieID)
}

func (r *ShowRepo) queryShows(ctx context.Context, q string, args ...interface{}) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := scanShow(rows, &s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
