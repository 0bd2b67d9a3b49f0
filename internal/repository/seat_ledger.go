package repository

import (
	"context"
	"database/sql"
	"strings"
)

// SeatLedger tracks seat-to-reservation associations in the
// reservation_seats table.  It is the source of truth for "is this
// seat taken": a seat is taken exactly while a reservation_seats row
// for it exists.  The table carries a UNIQUE constraint on seat_id,
// so concurrent attempts to hold the same seat resolve at the
// database; the availability pre-check exists only to give callers a
// cheap early answer.
type SeatLedger struct {
	db *sql.DB
}

// NewSeatLedger returns a SeatLedger bound to the given database.
func NewSeatLedger(db *sql.DB) *SeatLedger { return &SeatLedger{db: db} }

// CheckAvailableTx reports whether any of the given seats already has
// an active hold.  The check is all-or-nothing: when it returns
// ErrSeatsTaken the whole batch is rejected and the caller must retry
// with a different seat selection.  Passing an empty slice is a no-op.
func (l *SeatLedger) CheckAvailableTx(ctx context.Context, tx *sql.Tx, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `SELECT COUNT(*) FROM reservation_seats WHERE seat_id IN (` +
		placeholders(len(seatIDs)) + `)`
	args := make([]interface{}, 0, len(seatIDs))
	for _, id := range seatIDs {
		args = append(args, id)
	}
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrSeatsTaken
	}
	return nil
}

// RecordHoldTx inserts one reservation_seats row per seat, all owned
// by the given reservation.  It must run in the same transaction as
// the reservation insert so that a reservation never becomes visible
// without its seats or vice versa.  A unique-constraint violation is
// reported as ErrSeatsTaken: another transaction held one of the
// seats between the availability check and this insert.
func (l *SeatLedger) RecordHoldTx(ctx context.Context, tx *sql.Tx, reservationID uint64, seatIDs []uint64) error {
	if len(seatIDs) == 0 {
		return nil
	}
	query := `INSERT INTO reservation_seats (reservation_id, seat_id) VALUES `
	args := make([]interface{}, 0, len(seatIDs)*2)
	for i, sid := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, reservationID, sid)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	if err != nil && isDuplicateKey(err) {
		return ErrSeatsTaken
	}
	return err
}

// ReleaseTx deletes all holds owned by a reservation, freeing its
// seats.  Used by reservation deletion and by the expiry reclaimer.
// Releasing a reservation with no holds is a no-op.
func (l *SeatLedger) ReleaseTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM reservation_seats WHERE reservation_id = ?`, reservationID)
	return err
}

// SeatIDsTx returns the seat ids currently held by a reservation.
func (l *SeatLedger) SeatIDsTx(ctx context.Context, tx *sql.Tx, reservationID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT seat_id FROM reservation_seats WHERE reservation_id = ?`, reservationID)
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

// placeholders builds a "?, ?, ..." list of length n for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
