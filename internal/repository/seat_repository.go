package repository

import (
	"context"
	"database/sql"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// SeatRepo provides read access to seats.  Seat creation happens
// through HallRepo as part of the hall layout; seats have no
// standalone write path.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// CountExisting returns how many of the given seat ids exist.  The
// reservation lifecycle compares this against the batch size to reject
// requests naming unknown seats before any write happens.
func (r *SeatRepo) CountExisting(ctx context.Context, seatIDs []uint64) (int, error) {
	if len(seatIDs) == 0 {
		return 0, nil
	}
	query := `SELECT COUNT(*) FROM seats WHERE id IN (` + placeholders(len(seatIDs)) + `)`
	args := make([]interface{}, 0, len(seatIDs))
	for _, id := range seatIDs {
		args = append(args, id)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListByHall returns all seats of a hall joined through its rows,
// ordered by row and seat number.
func (r *SeatRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	const q = `SELECT se.id, se.row_id, se.seat_number, se.seat_type
			   FROM seats se
			   JOIN hall_rows hr ON hr.id = se.row_id
			   WHERE hr.hall_id = ?
			   ORDER BY hr.row_number, se.seat_number`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.ID, &s.RowID, &s.SeatNumber, &s.SeatType); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
