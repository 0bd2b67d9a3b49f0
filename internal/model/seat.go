package model

// Seat describes a physical seat in a hall row.  Seats are
// immutable once created; they disappear only when their hall is
// deleted.  The seat_type indicates whether the seat is standard,
// VIP or accessible for disabled patrons.
//
// Fields:
//  ID         – primary key identifier.
//  RowID      – hall row to which this seat belongs.
//  SeatNumber – number of the seat within the row.
//  SeatType   – type of seat (STANDARD, VIP, ACCESSIBLE).
type Seat struct {
	ID         uint64 // seats.id
	RowID      uint64 // seats.row_id
	SeatNumber uint32 // seats.seat_number
	SeatType   string // seats.seat_type
}
