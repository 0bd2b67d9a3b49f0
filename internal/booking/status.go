// Package booking implements the reservation lifecycle: the state
// machine a reservation moves through from creation to payment or
// expiry, the seat-hold semantics tied to it, the periodic reclaim of
// abandoned holds, and the show schedule conflict check.
package booking

import "fmt"

// Status enumerates the states a reservation can be in.  The stored
// vocabulary is deliberately small: a reservation is persisted as
// pending or paid, while cancelled and expired describe the hard
// removal paths (admin delete, reclaimer) and never appear in the
// database: the row is gone.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

// transitions is the full transition table.  Anything absent is
// rejected.
var transitions = map[Status][]Status{
	StatusPending: {StatusPaid, StatusCancelled, StatusExpired},
	StatusPaid:    {StatusCancelled},
}

// CanTransition reports whether moving from one status to another is
// allowed by the transition table.
func CanTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusPaid, StatusCancelled, StatusExpired:
		return Status(raw), nil
	}
	return "", fmt.Errorf("unknown reservation status %q", raw)
}
