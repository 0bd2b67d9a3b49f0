package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectReservationByID(mock sqlmock.Sqlmock, id, userID uint64) {
	mock.ExpectQuery(`SELECT id, user_id, show_id, status, created_at FROM reservations WHERE id = \?`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "show_id", "status", "created_at"}).
			AddRow(id, userID, 3, "pending", testNow))
}

func expectDetailsJoin(mock sqlmock.Sqlmock, reservationID uint64) {
	mock.ExpectQuery(`FROM reservation_seats rs`).
		WithArgs(reservationID).
		WillReturnRows(sqlmock.NewRows([]string{
			"reservation_id", "seat_number", "row_number",
			"name", "id", "title", "runtime_min", "start_time",
		}).
			AddRow(reservationID, 4, 2, "Hall A", 2, "Heat", 170, time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)).
			AddRow(reservationID, 5, 2, "Hall A", 2, "Heat", 170, time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)))
}

func TestGetReservationDetails_Owner(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	expectReservationByID(mock, 7, 9)
	expectDetailsJoin(mock, 7)

	detail, err := s.GetReservationDetails(context.Background(), 7, 9, false)
	require.NoError(t, err)
	assert.Equal(t, "Hall A", detail.HallName)
	assert.Equal(t, "Heat", detail.MovieDetails.Title)
	require.Len(t, detail.SeatDetails, 2)
	assert.Equal(t, uint32(4), detail.SeatDetails[0].SeatNumber)
	assert.Equal(t, uint32(2), detail.SeatDetails[0].RowNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A customer asking about someone else's reservation gets the same
// answer as for a reservation that does not exist.
func TestGetReservationDetails_NotOwnerLooksAbsent(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	expectReservationByID(mock, 7, 9)

	_, err := s.GetReservationDetails(context.Background(), 7, 8, false)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReservationDetails_EmployeeSeesAll(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	expectReservationByID(mock, 7, 9)
	expectDetailsJoin(mock, 7)

	detail, err := s.GetReservationDetails(context.Background(), 7, 8, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), detail.Reservation.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReservation_RemovesPaymentHoldsAndRow(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM payments WHERE reservation_id = \?`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM reservation_seats WHERE reservation_id = \?`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM reservations WHERE id = \?`).
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, s.DeleteReservation(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReservation_Missing(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM payments WHERE reservation_id = \?`).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM reservation_seats WHERE reservation_id = \?`).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM reservations WHERE id = \?`).
		WithArgs(uint64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteReservation(context.Background(), 404)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
