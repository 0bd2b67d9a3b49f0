package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/pwalcz/cinema-ticket-booking/internal/model"
	"github.com/pwalcz/cinema-ticket-booking/internal/repository"
)

// HoldTTL is how long a pending reservation keeps its seats before
// the reclaimer may delete it, measured from created_at.
const HoldTTL = 15 * time.Minute

// EventPublisher receives domain events emitted by the lifecycle.
// Publishing is best effort: failures are logged by the publisher and
// never interrupt the request flow.
type EventPublisher interface {
	BookingPaid(ctx context.Context, reservationID, userID uint64, amountCents uint32, region string)
	BookingExpired(ctx context.Context, reservationID uint64, seatIDs []uint64, region string)
}

// Service implements the reservation lifecycle for one region.  All
// writes run inside transactions on the region database; the service
// never leaves a reservation visible without its seat holds or vice
// versa.  User accounts live in the separate global database and are
// referenced by id only.
type Service struct {
	region       string
	db           *sql.DB
	ledger       *repository.SeatLedger
	reservations *repository.ReservationRepo
	shows        *repository.ShowRepo
	seats        *repository.SeatRepo
	halls        *repository.HallRepo
	movies       *repository.MovieRepo
	payments     *repository.PaymentRepo
	clock        Clock
	events       EventPublisher
}

// NewService wires a lifecycle service for one region database.  The
// events publisher may be nil, in which case no events are emitted.
func NewService(region string, db *sql.DB, clock Clock, events EventPublisher) *Service {
	if db == nil || clock == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{
		region:       region,
		db:           db,
		ledger:       repository.NewSeatLedger(db),
		reservations: repository.NewReservationRepo(db),
		shows:        repository.NewShowRepo(db),
		seats:        repository.NewSeatRepo(db),
		halls:        repository.NewHallRepo(db),
		movies:       repository.NewMovieRepo(db),
		payments:     repository.NewPaymentRepo(db),
		clock:        clock,
		events:       events,
	}
}

// Region returns the region this service is bound to.
func (s *Service) Region() string { return s.region }

// Movies exposes the region movie repository for catalogue handlers.
func (s *Service) Movies() *repository.MovieRepo { return s.movies }

// Shows exposes the region show repository for schedule handlers.
func (s *Service) Shows() *repository.ShowRepo { return s.shows }

// Halls exposes the region hall repository for venue setup handlers.
func (s *Service) Halls() *repository.HallRepo { return s.halls }

// Seats exposes the region seat repository for layout handlers.
func (s *Service) Seats() *repository.SeatRepo { return s.seats }

// Payments exposes the region payment repository for listing handlers.
func (s *Service) Payments() *repository.PaymentRepo { return s.payments }

// normalizeNaiveUTC strips the timezone from a caller-supplied
// timestamp, keeping the wall-clock fields.  All stored times are
// naive and every comparison elsewhere assumes naive UTC.
func normalizeNaiveUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// dedupeSeatIDs drops zero and repeated ids while preserving order.
func dedupeSeatIDs(seatIDs []uint64) []uint64 {
	unique := make([]uint64, 0, len(seatIDs))
	seen := make(map[uint64]struct{}, len(seatIDs))
	for _, id := range seatIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			unique = append(unique, id)
		}
	}
	return unique
}

// CreateReservation books the given seats for a show on behalf of
// userID.  The seat batch is all-or-nothing: if any seat already has
// an active hold the whole request fails with
// repository.ErrSeatsTaken and nothing is written.  The reservation
// row and its seat holds are created as one atomic unit; the UNIQUE
// constraint on reservation_seats.seat_id settles any race left open
// by the availability pre-check.  A zero createdAt defaults to the
// current time.
func (s *Service) CreateReservation(ctx context.Context, userID, showID uint64, seatIDs []uint64, createdAt time.Time) (*model.Reservation, error) {
	unique := dedupeSeatIDs(seatIDs)
	if len(unique) == 0 {
		return nil, ErrNoSeats
	}
	if _, err := s.shows.GetByID(ctx, showID); err != nil {
		return nil, err
	}
	existing, err := s.seats.CountExisting(ctx, unique)
	if err != nil {
		return nil, err
	}
	if existing != len(unique) {
		return nil, ErrSeatsUnknown
	}
	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}
	res := &model.Reservation{
		UserID:    userID,
		ShowID:    showID,
		Status:    string(StatusPending),
		CreatedAt: normalizeNaiveUTC(createdAt),
	}
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
	if err := s.ledger.CheckAvailableTx(ctx, tx, unique); err != nil {
		return nil, err
	}
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, err
	}
	if err := s.ledger.RecordHoldTx(ctx, tx, res.ID, unique); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return res, nil
}

// CreateReservationForUser is the employee variant of
// CreateReservation: an employee books on behalf of targetUserID.
// The contract is otherwise identical; the employee capability is
// enforced at the boundary.
func (s *Service) CreateReservationForUser(ctx context.Context, targetUserID, showID uint64, seatIDs []uint64, createdAt time.Time) (*model.Reservation, error) {
	return s.CreateReservation(ctx, targetUserID, showID, seatIDs, createdAt)
}

// GetReservationDetails returns one reservation joined with its
// seats, hall, movie and show start time.  Access requires ownership
// by the requesting user or the employee capability; a reservation
// owned by someone else is reported as not found, not forbidden.
func (s *Service) GetReservationDetails(ctx context.Context, reservationID, requesterID uint64, requesterIsEmployee bool) (*repository.ReservationDetail, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if res.UserID != requesterID && !requesterIsEmployee {
		return nil, ErrReservationNotFound
	}
	details, err := s.reservations.AttachDetails(ctx, []model.Reservation{*res})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// ListReservationsForUser returns all of a user's reservations with
// full details, assembled with a single batched join: never one
// query per reservation.
func (s *Service) ListReservationsForUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
	reservations, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.reservations.AttachDetails(ctx, reservations)
}

// ListAllReservations returns every reservation in the region with
// details, for employee views.
func (s *Service) ListAllReservations(ctx context.Context) ([]repository.ReservationDetail, error) {
	reservations, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.reservations.AttachDetails(ctx, reservations)
}

// DeleteReservation hard-removes a reservation in any status together
// with its seat holds and payment.  The admin capability is enforced
// at the boundary.  Deleting a reservation that does not exist
// returns ErrReservationNotFound.
func (s *Service) DeleteReservation(ctx context.Context, reservationID uint64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.payments.DeleteByReservationTx(ctx, tx, reservationID); err != nil {
		return err
	}
	if err := s.ledger.ReleaseTx(ctx, tx, reservationID); err != nil {
		return err
	}
	deleted, err := s.reservations.DeleteTx(ctx, tx, reservationID, false)
	if err != nil {
		return err
	}
	if !deleted {
		// rollback restores the child rows removed above
		return ErrReservationNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
