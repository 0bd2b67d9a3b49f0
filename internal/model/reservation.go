package model

import "time"

// Reservation records a user's booking for a specific show.  It
// aggregates one or more seats taken as a single atomic unit and
// tracks the reservation status.  The seat set is immutable after
// creation; the only way to change it is to delete the whole
// reservation.
//
// UserID references a user in the global database by value only.
// There is no cross-database foreign key; user deletion and
// reservation existence are reconciled lazily (best effort).
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation (global store id).
//  ShowID    – show being reserved.
//  Status    – reservation status (pending, paid).
//  CreatedAt – creation timestamp (naive UTC); expiry is measured
//              from this instant.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	ShowID    uint64    // reservations.show_id
	Status    string    // reservations.status
	CreatedAt time.Time // reservations.created_at
}

// ReservationSeat ties one seat to one reservation.  The seat_id
// column carries a UNIQUE constraint, so for any seat at most one
// row can exist at a time; this constraint is what makes a seat
// "taken" and is the source of truth the seat ledger answers from.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – owning reservation.
//  SeatID        – seat being held.
type ReservationSeat struct {
	ID            uint64 // reservation_seats.id
	ReservationID uint64 // reservation_seats.reservation_id
	SeatID        uint64 // reservation_seats.seat_id
}
