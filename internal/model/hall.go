package model

// Hall represents a screening hall in a region.  A hall owns its
// rows, and rows own their seats; deleting a hall cascades through
// both.
//
// Fields:
//  ID   – primary key identifier.
//  Name – hall name, unique within a region.
type Hall struct {
	ID   uint64 // halls.id
	Name string // halls.name
}

// HallRow is a numbered row of seats inside a hall.
//
// Fields:
//  ID        – primary key identifier.
//  HallID    – hall to which the row belongs.
//  RowNumber – position of the row inside the hall.
//  SeatCount – number of seats in the row.
type HallRow struct {
	ID        uint64 // hall_rows.id
	HallID    uint64 // hall_rows.hall_id
	RowNumber uint32 // hall_rows.row_number
	SeatCount uint32 // hall_rows.seat_count
}
