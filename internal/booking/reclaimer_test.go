package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectListExpired(mock sqlmock.Sqlmock, cutoff string, ids ...uint64) {
	rows := sqlmock.NewRows([]string{"id"})
	for _, id := range ids {
		rows.AddRow(id)
	}
	mock.ExpectQuery(`SELECT id FROM reservations WHERE status = 'pending' AND created_at <= \?`).
		WithArgs(cutoff).
		WillReturnRows(rows)
}

func expectReclaimOne(mock sqlmock.Sqlmock, id uint64, seatIDs ...uint64) {
	seatRows := sqlmock.NewRows([]string{"seat_id"})
	for _, sid := range seatIDs {
		seatRows.AddRow(sid)
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT seat_id FROM reservation_seats WHERE reservation_id = \?`).
		WithArgs(id).
		WillReturnRows(seatRows)
	mock.ExpectExec(`DELETE FROM reservation_seats WHERE reservation_id = \?`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, int64(len(seatIDs))))
	mock.ExpectExec(`DELETE FROM reservations WHERE id = \? AND status = 'pending'`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestReclaimExpired_CutoffIsTTLBeforeNow(t *testing.T) {
	events := newRecordingPublisher()
	s, mock := newTestService(t, fakeClock{now: testNow}, events)

	// now 12:00, TTL 15 minutes: everything created at or before 11:45
	expectListExpired(mock, "2025-06-01 11:45:00", 7)
	expectReclaimOne(mock, 7, 10, 11)

	n, err := s.ReclaimExpired(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uint64{7}, events.expired)
	assert.Equal(t, []uint64{10, 11}, events.seats[7])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReclaimExpired_NothingEligible(t *testing.T) {
	events := newRecordingPublisher()
	s, mock := newTestService(t, fakeClock{now: testNow}, events)

	expectListExpired(mock, "2025-06-01 11:45:00")

	n, err := s.ReclaimExpired(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, events.expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A payment can commit between the eligibility scan and the reclaim
// transaction.  The status-guarded delete then matches nothing, the
// transaction rolls back and the seat holds survive untouched.
func TestReclaimExpired_SkipsReservationPaidMeanwhile(t *testing.T) {
	events := newRecordingPublisher()
	s, mock := newTestService(t, fakeClock{now: testNow}, events)

	expectListExpired(mock, "2025-06-01 11:45:00", 7)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT seat_id FROM reservation_seats WHERE reservation_id = \?`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_id"}).AddRow(10))
	mock.ExpectExec(`DELETE FROM reservation_seats WHERE reservation_id = \?`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM reservations WHERE id = \? AND status = 'pending'`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	n, err := s.ReclaimExpired(context.Background(), testNow)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, events.expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// One broken reservation must not abort the sweep; the remaining ids
// are still processed.
func TestReclaimExpired_FailureIsolation(t *testing.T) {
	events := newRecordingPublisher()
	s, mock := newTestService(t, fakeClock{now: testNow}, events)

	expectListExpired(mock, "2025-06-01 11:45:00", 6, 7)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT seat_id FROM reservation_seats WHERE reservation_id = \?`).
		WithArgs(uint64(6)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()
	expectReclaimOne(mock, 7, 12)

	n, err := s.ReclaimExpired(context.Background(), testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []uint64{7}, events.expired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The sweep normalizes the supplied instant, so an offset-carrying
// now produces the same cutoff as its wall-clock reading.
func TestReclaimExpired_NormalizesNow(t *testing.T) {
	s, mock := newTestService(t, fakeClock{}, nil)

	expectListExpired(mock, "2025-06-01 11:45:00")

	zone := time.FixedZone("CEST", 2*3600)
	n, err := s.ReclaimExpired(context.Background(), time.Date(2025, 6, 1, 12, 0, 0, 0, zone))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
