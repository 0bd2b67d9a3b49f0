package model

import "time"

// Payment attaches a payment outcome to a reservation.  At most one
// payment may exist per reservation, enforced by a UNIQUE constraint
// on reservation_id.  The amount is copied from the show price at
// creation time and never recomputed.  Payment rows are deleted
// together with their reservation.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – reservation this payment belongs to.
//  AmountCents   – charged amount in cents, copied from the show.
//  Method        – payment method chosen by the user.
//  Status        – recorded outcome (completed); no gateway is
//                  involved, the status is recorded, not processed.
//  PaymentRef    – opaque reference for reconciliation.
//  CreatedAt     – creation timestamp (naive UTC).
type Payment struct {
	ID            uint64    // payments.id
	ReservationID uint64    // payments.reservation_id
	AmountCents   uint32    // payments.amount_cents
	Method        string    // payments.method
	Status        string    // payments.status
	PaymentRef    string    // payments.payment_ref
	CreatedAt     time.Time // payments.created_at
}
