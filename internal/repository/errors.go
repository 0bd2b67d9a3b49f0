// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting
// a show with active reservations).
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a show that still has reservations. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrSeatsTaken is returned when a seat batch cannot be held because
// at least one of the requested seats already has an active hold.
// The failure is batch-level: no seat is named, and nothing is
// written.
var ErrSeatsTaken = errors.New("one or more seats are already reserved")

// ErrPaymentExists is returned when a payment is recorded for a
// reservation that already has one.
var ErrPaymentExists = errors.New("payment already exists for this reservation")

// mysqlDuplicateEntry is the server error number MySQL reports when
// an INSERT violates a unique index.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique-constraint violation.
// The seat ledger and the payment repository rely on this to turn a
// constraint hit into a domain conflict instead of a generic failure;
// the pre-checks in front of those inserts are advisory only.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
