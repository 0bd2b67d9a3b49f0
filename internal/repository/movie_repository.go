package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// ErrMovieNotFound indicates that a movie was not located in the DB.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo manages persistence for the regional movie catalogue.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

// Create inserts a movie and assigns the generated ID.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (title, runtime_min) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Title, m.RuntimeMin)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID retrieves a movie by id, returning ErrMovieNotFound when it
// does not exist.
func (r *MovieRepo) GetByID(ctx context.Context, id uint64) (*model.Movie, error) {
	const q = `SELECT id, title, runtime_min FROM movies WHERE id = ?`
	var m model.Movie
	err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Title, &m.RuntimeMin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns the full catalogue ordered by title.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT id, title, runtime_min FROM movies ORDER BY title ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Movie, 0)
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.RuntimeMin); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// Delete removes a movie.  Deletion is blocked with ErrConflict while
// shows still reference the movie.
func (r *MovieRepo) Delete(ctx context.Context, id uint64) error {
	var showCount int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE movie_id = ?`, id).Scan(&showCount); err != nil {
		return err
	}
	if showCount > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}
