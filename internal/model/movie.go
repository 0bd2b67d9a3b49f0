package model

// Movie is an entry in a region's film catalogue.  The runtime is
// stored in minutes and drives the show conflict computation: a
// show occupies its hall from start_time until start_time plus the
// movie runtime plus the turnaround buffer.
//
// Fields:
//  ID         – primary key identifier.
//  Title      – movie title.
//  RuntimeMin – runtime in minutes.
type Movie struct {
	ID         uint64 // movies.id
	Title      string // movies.title
	RuntimeMin uint32 // movies.runtime_min
}
