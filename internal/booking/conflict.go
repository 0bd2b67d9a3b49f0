package booking

import (
	"context"
	"time"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// TurnaroundBuffer is the fixed cleaning gap required between the end
// of one show and the next booking in the same hall.  It extends the
// occupied window of an existing show, never of the candidate.
const TurnaroundBuffer = 15 * time.Minute

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// Conflict describes one existing show whose occupied window
// intersects a candidate show.
type Conflict struct {
	ShowID     uint64    `json:"show_id"`
	MovieTitle string    `json:"movie_title"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
}

// ConflictReport lists every existing show a candidate collides with.
type ConflictReport struct {
	Conflict  bool       `json:"conflict"`
	Conflicts []Conflict `json:"conflicts"`
}

// CheckShowConflict computes whether a candidate show (hall, movie,
// start time) would overlap any existing show in the same hall.  The
// candidate occupies [start, start+runtime); each existing show
// occupies [start, start+runtime+TurnaroundBuffer).  The full list of
// conflicts is returned, each tagged with the offending show id,
// movie title and occupied window.
func (s *Service) CheckShowConflict(ctx context.Context, hallID, movieID uint64, startTime time.Time) (*ConflictReport, error) {
	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	start := normalizeNaiveUTC(startTime)
	candidate := Window{
		Start: start,
		End:   start.Add(time.Duration(movie.RuntimeMin) * time.Minute),
	}
	existing, err := s.shows.ListByHallWithRuntime(ctx, hallID)
	if err != nil {
		return nil, err
	}
	report := &ConflictReport{Conflicts: []Conflict{}}
	for _, sh := range existing {
		occupied := Window{
			Start: sh.StartTime,
			End:   sh.StartTime.Add(time.Duration(sh.RuntimeMin)*time.Minute + TurnaroundBuffer),
		}
		if candidate.Overlaps(occupied) {
			report.Conflicts = append(report.Conflicts, Conflict{
				ShowID:     sh.ID,
				MovieTitle: sh.MovieTitle,
				StartTime:  occupied.Start,
				EndTime:    occupied.End,
			})
		}
	}
	report.Conflict = len(report.Conflicts) > 0
	return report, nil
}

// AddShow schedules a new show after verifying the hall is free for
// its occupied window.  Any overlap aborts the insert with an
// *OverlapError carrying the full conflict list.
func (s *Service) AddShow(ctx context.Context, show *model.Show) error {
	report, err := s.CheckShowConflict(ctx, show.HallID, show.MovieID, show.StartTime)
	if err != nil {
		return err
	}
	if report.Conflict {
		return &OverlapError{Conflicts: report.Conflicts}
	}
	show.StartTime = normalizeNaiveUTC(show.StartTime)
	return s.shows.Create(ctx, show)
}
