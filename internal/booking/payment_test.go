package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
)

func expectReservationLock(mock sqlmock.Sqlmock, id, userID, showID uint64) {
	mock.ExpectQuery(`SELECT id, user_id, show_id, status, created_at FROM reservations WHERE id = \? FOR UPDATE`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "show_id", "status", "created_at"}).
			AddRow(id, userID, showID, "pending", testNow.Add(-5*time.Minute)))
}

func TestCreatePayment_Success(t *testing.T) {
	events := newRecordingPublisher()
	s, mock := newTestService(t, fakeClock{now: testNow}, events)

	mock.ExpectBegin()
	expectReservationLock(mock, 7, 9, 3)
	mock.ExpectQuery(`SELECT price_cents FROM shows WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"price_cents"}).AddRow(2500))
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(`UPDATE reservations SET status = \? WHERE id = \? AND status = 'pending'`).
		WithArgs("paid", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := s.CreatePayment(context.Background(), 7, "card", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), p.ID)
	assert.Equal(t, uint32(2500), p.AmountCents)
	assert.Equal(t, PaymentStatusCompleted, p.Status)
	assert.NotEmpty(t, p.PaymentRef)
	assert.Equal(t, []uint64{7}, events.paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayment_ReservationGone(t *testing.T) {
	events := newRecordingPublisher()
	s, mock := newTestService(t, fakeClock{now: testNow}, events)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, user_id, show_id, status, created_at FROM reservations WHERE id = \? FOR UPDATE`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "show_id", "status", "created_at"}))
	mock.ExpectRollback()

	_, err := s.CreatePayment(context.Background(), 7, "card", 9)
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Empty(t, events.paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayment_NotOwner(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	mock.ExpectBegin()
	expectReservationLock(mock, 7, 9, 3)
	mock.ExpectRollback()

	_, err := s.CreatePayment(context.Background(), 7, "card", 8)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePayment_NoPrice(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	mock.ExpectBegin()
	expectReservationLock(mock, 7, 9, 3)
	mock.ExpectQuery(`SELECT price_cents FROM shows WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"price_cents"}).AddRow(nil))
	mock.ExpectRollback()

	_, err := s.CreatePayment(context.Background(), 7, "card", 9)
	assert.ErrorIs(t, err, ErrNoPrice)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Two clients paying the same reservation race into the payments
// insert; the UNIQUE constraint on reservation_id lets exactly one
// through and the loser sees a duplicate key.
func TestCreatePayment_DuplicatePayment(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	mock.ExpectBegin()
	expectReservationLock(mock, 7, 9, 3)
	mock.ExpectQuery(`SELECT price_cents FROM shows WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"price_cents"}).AddRow(2500))
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '7' for key 'uq_payments_reservation'"})
	mock.ExpectRollback()

	_, err := s.CreatePayment(context.Background(), 7, "card", 9)
	assert.ErrorIs(t, err, repository.ErrPaymentExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The row lock can be granted after another transaction flipped the
// reservation away from pending.  The guarded UPDATE then matches
// nothing and the payment rolls back.
func TestCreatePayment_LostStatusRace(t *testing.T) {
	s, mock := newTestService(t, fakeClock{now: testNow}, nil)

	mock.ExpectBegin()
	expectReservationLock(mock, 7, 9, 3)
	mock.ExpectQuery(`SELECT price_cents FROM shows WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"price_cents"}).AddRow(2500))
	mock.ExpectExec(`INSERT INTO payments`).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(`UPDATE reservations SET status = \? WHERE id = \? AND status = 'pending'`).
		WithArgs("paid", uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.CreatePayment(context.Background(), 7, "card", 9)
	assert.ErrorIs(t, err, repository.ErrPaymentExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
