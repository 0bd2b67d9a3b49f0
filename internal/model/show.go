package model

import "time"

// Show represents a scheduled screening of a movie in a particular
// hall.  The occupied time window of a show is derived, not stored:
// it runs from StartTime until StartTime plus the movie runtime plus
// a fixed turnaround buffer.  No two shows in the same hall may have
// overlapping occupied windows.
//
// Fields:
//  ID         – primary key identifier.
//  MovieID    – movie being screened.
//  HallID     – hall where the show takes place.
//  StartTime  – when the show begins (naive UTC).
//  PriceCents – ticket price in cents; nil when no price is set.
type Show struct {
	ID         uint64    // shows.id
	MovieID    uint64    // shows.movie_id
	HallID     uint64    // shows.hall_id
	StartTime  time.Time // shows.start_time
	PriceCents *uint32   // shows.price_cents (nullable)
}
