// Package queue defines message payloads exchanged over the message broker.
package queue

const (
	// PaidQueueName carries events for reservations that completed payment.
	PaidQueueName = "booking.paid"
	// ExpiredQueueName carries events for holds reclaimed after the TTL.
	ExpiredQueueName = "booking.expired"
)

// BookingPaidEvent is published when a pending reservation is paid and
// becomes permanent.  It contains enough information for downstream
// consumers to log, notify, or feed analytics without querying the
// regional database.
type BookingPaidEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	AmountCents   uint32 `json:"amount_cents"`
	Region        string `json:"region"`
	PaidAt        string `json:"paid_at"`
}

// BookingExpiredEvent is published when the reclaimer removes a
// pending reservation whose hold outlived the TTL, returning its seats
// to the pool.
type BookingExpiredEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	SeatIDs       []uint64 `json:"seat_ids"`
	Region        string   `json:"region"`
	ExpiredAt     string   `json:"expired_at"`
}
