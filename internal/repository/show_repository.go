// Package repository contains data access logic for the booking
// domain.  This file covers shows: a Show is a scheduled screening of
// a movie in a hall at a start time and price.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// Create inserts a new show and assigns the generated ID back to the
// struct.  Conflict checking against other shows in the hall is the
// caller's responsibility and must happen before this insert.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	const q = `INSERT INTO shows (movie_id, hall_id, start_time, price_cents) VALUES (?, ?, ?, ?)`
	var price interface{}
	if s.PriceCents != nil {
		price = *s.PriceCents
	}
	res, err := r.db.ExecContext(ctx, q, s.MovieID, s.HallID,
		s.StartTime.Format("2006-01-02 15:04:05"), price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound
// when there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, hall_id, start_time, price_cents FROM shows WHERE id = ?`
	var s model.Show
	var price sql.NullInt64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartTime, &price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if price.Valid {
		p := uint32(price.Int64)
		s.PriceCents = &p
	}
	return &s, nil
}

// PriceTx returns the price of the show backing a reservation,
// read inside the caller's transaction.  The price is nil when the
// show has no price set.
func (r *ShowRepo) PriceTx(ctx context.Context, tx *sql.Tx, showID uint64) (*uint32, error) {
	const q = `SELECT price_cents FROM shows WHERE id = ?`
	var price sql.NullInt64
	err := tx.QueryRowContext(ctx, q, showID).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	if !price.Valid {
		return nil, nil
	}
	p := uint32(price.Int64)
	return &p, nil
}

// List returns all shows in the region ordered by start time.
func (r *ShowRepo) List(ctx context.Context) ([]model.Show, error) {
	const q = `SELECT id, movie_id, hall_id, start_time, price_cents FROM shows ORDER BY start_time ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		var price sql.NullInt64
		if err := rows.Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartTime, &price); err != nil {
			return nil, err
		}
		if price.Valid {
			p := uint32(price.Int64)
			s.PriceCents = &p
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ScheduledShow is a show joined with the movie fields the conflict
// checker needs to compute its occupied window.
type ScheduledShow struct {
	ID         uint64
	MovieTitle string
	RuntimeMin uint32
	StartTime  time.Time
}

// ListByHallWithRuntime returns all shows scheduled in a hall along
// with each show's movie title and runtime.  The conflict checker
// derives every existing show's occupied window from this.
func (r *ShowRepo) ListByHallWithRuntime(ctx context.Context, hallID uint64) ([]ScheduledShow, error) {
	const q = `SELECT s.id, m.title, m.runtime_min, s.start_time
			   FROM shows s
			   JOIN movies m ON m.id = s.movie_id
			   WHERE s.hall_id = ?
			   ORDER BY s.start_time ASC`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ScheduledShow, 0)
	for rows.Next() {
		var s ScheduledShow
		if err := rows.Scan(&s.ID, &s.MovieTitle, &s.RuntimeMin, &s.StartTime); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// ShowDetail is a show joined with its movie title and hall name for
// listing to clients.
type ShowDetail struct {
	ID         uint64    `json:"id"`
	MovieTitle string    `json:"movie_title"`
	HallName   string    `json:"hall_name"`
	StartTime  time.Time `json:"start_time"`
	PriceCents *uint32   `json:"price_cents"`
}

// ListWithDetails returns all shows joined with movie and hall names.
func (r *ShowRepo) ListWithDetails(ctx context.Context) ([]ShowDetail, error) {
	const q = `SELECT s.id, m.title, h.name, s.start_time, s.price_cents
			   FROM shows s
			   JOIN movies m ON m.id = s.movie_id
			   JOIN halls h ON h.id = s.hall_id
			   ORDER BY s.start_time ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]ShowDetail, 0)
	for rows.Next() {
		var d ShowDetail
		var price sql.NullInt64
		if err := rows.Scan(&d.ID, &d.MovieTitle, &d.HallName, &d.StartTime, &price); err != nil {
			return nil, err
		}
		if price.Valid {
			p := uint32(price.Int64)
			d.PriceCents = &p
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// Delete removes a show.  Deletion is blocked with ErrConflict while
// reservations still reference the show, so paid bookings can never be
// orphaned by schedule changes.  ErrShowNotFound is returned when the
// show does not exist.
func (r *ShowRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	var resCount int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE show_id = ?`, id).Scan(&resCount); err != nil {
		return err
	}
	if resCount > 0 {
		err = ErrConflict
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id); err != nil {
		return err
	}
	var n int64
	if n, err = res.RowsAffected(); err != nil {
		return err
	}
	if n == 0 {
		err = ErrShowNotFound
		return err
	}
	return nil
}
