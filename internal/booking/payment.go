package booking

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
)

// PaymentStatusCompleted is the recorded outcome of a payment.  No
// gateway is involved; the status is recorded, not processed.
const PaymentStatusCompleted = "completed"

// CreatePayment attaches a payment to a reservation and transitions
// it from pending to paid, all in one transaction.  The reservation
// row is locked first so a concurrent payment or expiry sweep on the
// same reservation serializes against this call instead of racing:
//   - if the reservation is gone (expired), ErrReservationNotFound;
//   - if it belongs to someone else, repository.ErrForbidden;
//   - if its show has no price, ErrNoPrice;
//   - if a payment already exists, repository.ErrPaymentExists;
//     the UNIQUE constraint on payments.reservation_id guarantees
//     exactly one winner under concurrency.
//
// The amount is copied from the show price at this moment and never
// recomputed.
func (s *Service) CreatePayment(ctx context.Context, reservationID uint64, method string, requesterID uint64) (*model.Payment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	res, err := s.reservations.GetForUpdateTx(ctx, tx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if res.UserID != requesterID {
		return nil, repository.ErrForbidden
	}
	price, err := s.shows.PriceTx(ctx, tx, res.ShowID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			// the show was deleted out from under the reservation
			return nil, ErrNoPrice
		}
		return nil, err
	}
	if price == nil {
		return nil, ErrNoPrice
	}
	payment := &model.Payment{
		ReservationID: reservationID,
		AmountCents:   *price,
		Method:        method,
		Status:        PaymentStatusCompleted,
		PaymentRef:    uuid.NewString(),
		CreatedAt:     s.clock.Now(),
	}
	if err := s.payments.CreateTx(ctx, tx, payment); err != nil {
		return nil, err
	}
	moved, err := s.reservations.MarkPaidTx(ctx, tx, reservationID, string(StatusPaid))
	if err != nil {
		return nil, err
	}
	if !moved {
		// row exists but is no longer pending; treat as already paid
		return nil, repository.ErrPaymentExists
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	if s.events != nil {
		s.events.BookingPaid(ctx, reservationID, res.UserID, payment.AmountCents, s.region)
	}
	return payment, nil
}
