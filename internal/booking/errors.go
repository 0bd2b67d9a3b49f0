package booking

import (
	"errors"
	"fmt"
)

// ErrReservationNotFound is returned when a reservation does not
// exist, or when it exists but the requester neither owns it nor has
// the employee capability.  The two cases are deliberately
// indistinguishable so that reservation ids cannot be enumerated.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrNoSeats is returned when a create request carries no usable seat ids.
var ErrNoSeats = errors.New("no valid seat ids provided")

// ErrSeatsUnknown is returned when a create request names seat ids
// that do not exist in the region.
var ErrSeatsUnknown = errors.New("one or more seats do not exist")

// ErrNoPrice is returned when a payment is attempted for a
// reservation whose show has no price (or no longer exists).
var ErrNoPrice = errors.New("no price available for this reservation's show")

// OverlapError reports that a candidate show's occupied window
// intersects one or more existing shows in the same hall.  All
// conflicts are listed so the caller can report them at once.
type OverlapError struct {
	Conflicts []Conflict
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("show overlaps %d existing show(s) in this hall", len(e.Conflicts))
}
