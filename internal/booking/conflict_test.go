package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowOverlaps(t *testing.T) {
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	win := func(startMin, endMin int) Window {
		return Window{
			Start: base.Add(time.Duration(startMin) * time.Minute),
			End:   base.Add(time.Duration(endMin) * time.Minute),
		}
	}
	cases := []struct {
		name string
		a, b Window
		want bool
	}{
		{"identical", win(0, 60), win(0, 60), true},
		{"contained", win(0, 120), win(30, 60), true},
		{"partial front", win(0, 60), win(30, 90), true},
		{"partial back", win(30, 90), win(0, 60), true},
		{"touching at boundary", win(0, 60), win(60, 120), false},
		{"disjoint", win(0, 60), win(90, 120), false},
		{"one minute over", win(0, 61), win(60, 120), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

// expectConflictQueries arranges the movie lookup for the candidate
// and the existing schedule of the hall: one 120 minute movie playing
// at 18:00, occupying the hall until 20:15 including the cleaning gap.
func expectConflictQueries(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT id, title, runtime_min FROM movies WHERE id = \?`).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "runtime_min"}).
			AddRow(2, "Heat", 120))
	mock.ExpectQuery(`SELECT s.id, m.title, m.runtime_min, s.start_time`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "runtime_min", "start_time"}).
			AddRow(5, "Alien", 120, time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)))
}

func TestCheckShowConflict_InsideBuffer(t *testing.T) {
	s, mock := newTestService(t, fakeClock{}, nil)
	expectConflictQueries(mock)

	// 20:10 is five minutes into the 18:00 show's cleaning window
	report, err := s.CheckShowConflict(context.Background(), 1, 2,
		time.Date(2025, 6, 1, 20, 10, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, report.Conflict)
	require.Len(t, report.Conflicts, 1)
	assert.Equal(t, uint64(5), report.Conflicts[0].ShowID)
	assert.Equal(t, "Alien", report.Conflicts[0].MovieTitle)
	assert.Equal(t, time.Date(2025, 6, 1, 20, 15, 0, 0, time.UTC), report.Conflicts[0].EndTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckShowConflict_AtBufferEnd(t *testing.T) {
	s, mock := newTestService(t, fakeClock{}, nil)
	expectConflictQueries(mock)

	// 20:15 is exactly when the hall frees up; half-open windows do
	// not collide at the boundary
	report, err := s.CheckShowConflict(context.Background(), 1, 2,
		time.Date(2025, 6, 1, 20, 15, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, report.Conflict)
	assert.Empty(t, report.Conflicts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckShowConflict_NormalizesOffset(t *testing.T) {
	s, mock := newTestService(t, fakeClock{}, nil)
	expectConflictQueries(mock)

	// 20:10+02:00 keeps its wall-clock reading, it is not shifted to
	// 18:10 UTC; the candidate still lands inside the cleaning gap
	zone := time.FixedZone("CEST", 2*3600)
	report, err := s.CheckShowConflict(context.Background(), 1, 2,
		time.Date(2025, 6, 1, 20, 10, 0, 0, zone))
	require.NoError(t, err)
	assert.True(t, report.Conflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckShowConflict_EmptyHall(t *testing.T) {
	s, mock := newTestService(t, fakeClock{}, nil)
	mock.ExpectQuery(`SELECT id, title, runtime_min FROM movies WHERE id = \?`).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "runtime_min"}).
			AddRow(2, "Heat", 170))
	mock.ExpectQuery(`SELECT s.id, m.title, m.runtime_min, s.start_time`).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "runtime_min", "start_time"}))

	report, err := s.CheckShowConflict(context.Background(), 1, 2,
		time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, report.Conflict)
	assert.NotNil(t, report.Conflicts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
