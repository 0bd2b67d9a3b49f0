package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// ReservationRepo provides persistence for reservations.  Reservations
// group one or more seats for a particular show and user; the seats
// themselves live in the reservation_seats table managed by SeatLedger.
// All timestamp fields are naive UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB so that callers can begin
// transactions spanning the reservation tables and the seat ledger.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new reservation within an existing transaction
// and populates the generated ID on the passed model.  The caller is
// responsible for inserting seat holds in the same transaction and
// for committing or rolling back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, show_id, status, created_at) VALUES (?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.UserID, res.ShowID, res.Status,
		res.CreatedAt.Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

// GetByID retrieves a reservation by id.  sql.ErrNoRows is returned
// when no such reservation exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, show_id, status, created_at FROM reservations WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.UserID, &res.ShowID, &res.Status, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetForUpdateTx loads a reservation inside a transaction with a row
// lock.  The payment recorder acquires this lock before its existence
// checks so that a concurrent payment or expiry sweep on the same
// reservation serializes instead of racing.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, show_id, status, created_at FROM reservations WHERE id = ? FOR UPDATE`
	var res model.Reservation
	err := tx.QueryRowContext(ctx, q, id).Scan(&res.ID, &res.UserID, &res.ShowID, &res.Status, &res.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// MarkPaidTx transitions a reservation from pending to the given paid
// status.  The WHERE clause requires the row to still be pending at
// commit time, so whichever of pay and expiry commits first wins; the
// loser observes zero affected rows.  It returns false when the
// reservation was not pending (or no longer exists).
func (r *ReservationRepo) MarkPaidTx(ctx context.Context, tx *sql.Tx, id uint64, paidStatus string) (bool, error) {
	const q = `UPDATE reservations SET status = ? WHERE id = ? AND status = 'pending'`
	res, err := tx.ExecContext(ctx, q, paidStatus, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteTx removes a reservation row.  When requirePending is true the
// delete only applies while the reservation is still pending, which is
// how the expiry reclaimer avoids destroying a reservation that was
// paid concurrently.  It returns false when nothing was deleted;
// deleting an already-deleted reservation is a no-op, not an error.
func (r *ReservationRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64, requirePending bool) (bool, error) {
	q := `DELETE FROM reservations WHERE id = ?`
	if requirePending {
		q += ` AND status = 'pending'`
	}
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListExpiredPending returns the ids of pending reservations created
// at or before the cutoff.  The reclaimer processes each id in its own
// transaction so one broken reservation cannot abort the whole sweep.
func (r *ReservationRepo) ListExpiredPending(ctx context.Context, cutoff time.Time) ([]uint64, error) {
	const q = `SELECT id FROM reservations WHERE status = 'pending' AND created_at <= ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, cutoff.Format("2006-01-02 15:04:05"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByUser returns all reservations belonging to a user, newest
// first.  An empty slice is returned when the user has none.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, user_id, show_id, status, created_at FROM reservations WHERE user_id = ? ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userID)
}

// ListAll returns every reservation in the region, newest first.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
	const q = `SELECT id, user_id, show_id, status, created_at FROM reservations ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(&res.ID, &res.UserID, &res.ShowID, &res.Status, &res.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, rows.Err()
}

// SeatDetail identifies one reserved seat by its position in the hall.
type SeatDetail struct {
	SeatNumber uint32 `json:"seat_number"`
	RowNumber  uint32 `json:"row_number"`
}

// MovieDetails carries the movie fields shown alongside a reservation.
type MovieDetails struct {
	ID         uint64 `json:"id"`
	Title      string `json:"title"`
	RuntimeMin uint32 `json:"runtime"`
}

// ReservationDetail is a reservation joined with its seats, hall,
// movie and show start time, assembled for display.
type ReservationDetail struct {
	Reservation   model.Reservation `json:"reservation"`
	SeatDetails   []SeatDetail      `json:"seat_details"`
	HallName      string            `json:"hall_name"`
	MovieDetails  MovieDetails      `json:"movie_details"`
	ShowStartTime time.Time         `json:"show_start_time"`
}

// AttachDetails resolves seat, hall, movie and show information for
// the given reservations in one batched query over the relation chain
// reservation_seats -> seats -> hall_rows and reservations -> shows ->
// movies/halls, grouped client-side by reservation id.  For N
// reservations this issues exactly one query, never N+1.
func (r *ReservationRepo) AttachDetails(ctx context.Context, reservations []model.Reservation) ([]ReservationDetail, error) {
	details := make([]ReservationDetail, 0, len(reservations))
	if len(reservations) == 0 {
		return details, nil
	}
	index := make(map[uint64]int, len(reservations))
	args := make([]interface{}, 0, len(reservations))
	for _, res := range reservations {
		index[res.ID] = len(details)
		details = append(details, ReservationDetail{
			Reservation: res,
			SeatDetails: []SeatDetail{},
		})
		args = append(args, res.ID)
	}
	query := `SELECT rs.reservation_id, se.seat_number, hr.row_number,
					 h.name, m.id, m.title, m.runtime_min, s.start_time
			  FROM reservation_seats rs
			  JOIN reservations r ON r.id = rs.reservation_id
			  JOIN seats se ON se.id = rs.seat_id
			  JOIN hall_rows hr ON hr.id = se.row_id
			  JOIN shows s ON s.id = r.show_id
			  JOIN halls h ON h.id = s.hall_id
			  JOIN movies m ON m.id = s.movie_id
			  WHERE rs.reservation_id IN (` + placeholders(len(args)) + `)
			  ORDER BY rs.reservation_id, hr.row_number, se.seat_number`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			rid       uint64
			seat      SeatDetail
			hallName  string
			movie     MovieDetails
			startTime time.Time
		)
		if err := rows.Scan(&rid, &seat.SeatNumber, &seat.RowNumber,
			&hallName, &movie.ID, &movie.Title, &movie.RuntimeMin, &startTime); err != nil {
			return nil, err
		}
		idx, ok := index[rid]
		if !ok {
			continue
		}
		details[idx].HallName = hallName
		details[idx].MovieDetails = movie
		details[idx].ShowStartTime = startTime
		details[idx].SeatDetails = append(details[idx].SeatDetails, seat)
	}
	return details, rows.Err()
}
