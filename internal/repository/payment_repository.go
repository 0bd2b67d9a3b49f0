package repository

import (
	"context"
	"database/sql"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// PaymentRepo provides persistence for payments.  The payments table
// carries a UNIQUE constraint on reservation_id, which is what makes
// "at most one payment per reservation" hold under concurrency; the
// insert is the authoritative check.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// CreateTx inserts a payment within an existing transaction and
// populates the generated ID.  A unique-constraint violation on
// reservation_id is reported as ErrPaymentExists: another transaction
// recorded a payment for the same reservation first.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payments (reservation_id, amount_cents, method, status, payment_ref, created_at)
			   VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, p.ReservationID, p.AmountCents, p.Method, p.Status,
		p.PaymentRef, p.CreatedAt.Format("2006-01-02 15:04:05"))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrPaymentExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// DeleteByReservationTx removes the payment attached to a reservation,
// if any.  Reservation deletion calls this so payment rows never
// outlive their reservation.
func (r *PaymentRepo) DeleteByReservationTx(ctx context.Context, tx *sql.Tx, reservationID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM payments WHERE reservation_id = ?`, reservationID)
	return err
}

// ListAll returns every payment in the region, newest first.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]model.Payment, error) {
	const q = `SELECT id, reservation_id, amount_cents, method, status, payment_ref, created_at
			   FROM payments ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.ReservationID, &p.AmountCents, &p.Method, &p.Status, &p.PaymentRef, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
