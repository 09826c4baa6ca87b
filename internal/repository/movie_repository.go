package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/movigo/show-booking/internal/model"
)

// ErrMovieNotFound indicates that a movie was not located in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo manages persistence for the movie catalog.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieCols = "id, title, duration_minutes, genre, rating, description, release_date, created_at, updated_at"

func scanMovie(row interface {
	Scan(dest ...interface{}) error
}, m *model.Movie) error {
	var rating sql.NullFloat64
	var release sql.NullTime
	err := row.Scan(&m.ID, &m.Title, &m.DurationMinutes, &m.Genre, &rating, &m.Description, &release, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return err
	}
	if rating.Valid {
		v := rating.Float64
		m.Rating = &v
	}
	if release.Valid {
		t := release.Time
		m.ReleaseDate = &t
	}
	return nil
}

// Create inserts a new movie and populates the generated ID and
// DB-default timestamps on the passed struct.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO movies (title, duration_minutes, genre, rating, description, release_date) VALUES (?,?,?,?,?,?)`,
		m.Title, m.DurationMinutes, m.Genre, m.Rating, m.Description, m.ReleaseDate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT ` + movieCols + ` FROM movies WHERE id=?`
	return scanMovie(r.db.QueryRowContext(ctx, sel, m.ID), m)
}

// GetByID fetches a movie by id or returns ErrMovieNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, movieID uint64) (*model.Movie, error) {
	const q = `SELECT ` + movieCols + ` FROM movies WHERE id=? LIMIT 1`
	var m model.Movie
	if err := scanMovie(r.db.QueryRowContext(ctx, q, movieID), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all movies, newest first.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT ` + movieCols + ` FROM movies ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := scanMovie(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
