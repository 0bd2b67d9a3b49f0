package booking

import (
	"context"
	"log"
	"time"
)

// ReclaimExpired deletes every pending reservation whose hold has run
// out, freeing its seats.  A reservation is eligible when
// created_at + HoldTTL <= now.  Each reservation is reclaimed in its
// own transaction so one failure cannot abort the whole sweep, and
// the delete requires the row to still be pending at commit time: if
// a payment commits first the reclaimer skips that reservation.  The
// sweep is idempotent: running it with nothing to reclaim, or
// concurrently from several workers, reclaims nothing twice.
//
// It returns the number of reservations reclaimed.  The scope is one
// region; the caller runs one sweep per region.
func (s *Service) ReclaimExpired(ctx context.Context, now time.Time) (int, error) {
	cutoff := normalizeNaiveUTC(now).Add(-HoldTTL)
	ids, err := s.reservations.ListExpiredPending(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	reclaimed := 0
	for _, id := range ids {
		seatIDs, err := s.reclaimOne(ctx, id)
		if err != nil {
			log.Printf("reclaimer[%s]: reservation %d: %v", s.region, id, err)
			continue
		}
		if seatIDs == nil {
			// no longer pending, or already reclaimed by another worker
			continue
		}
		reclaimed++
		if s.events != nil {
			s.events.BookingExpired(ctx, id, seatIDs, s.region)
		}
	}
	return reclaimed, nil
}

// reclaimOne deletes a single expired reservation and its seat holds
// in one transaction.  It returns the freed seat ids, or nil when the
// reservation was no longer pending: a paid or already-deleted row
// is a no-op, not an error.
func (s *Service) reclaimOne(ctx context.Context, reservationID uint64) ([]uint64, error) {
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
	seatIDs, err := s.ledger.SeatIDsTx(ctx, tx, reservationID)
	if err != nil {
		return nil, err
	}
	if err := s.ledger.ReleaseTx(ctx, tx, reservationID); err != nil {
		return nil, err
	}
	deleted, err := s.reservations.DeleteTx(ctx, tx, reservationID, true)
	if err != nil {
		return nil, err
	}
	if !deleted {
		// paid (or deleted) concurrently; rollback restores the holds
		return nil, nil
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return seatIDs, nil
}

// Reclaimer drives periodic expiry sweeps across every region.
type Reclaimer struct {
	services []*Service
	interval time.Duration
	clock    Clock
}

// NewReclaimer builds a reclaimer sweeping the given region services
// at a fixed interval.
func NewReclaimer(services []*Service, interval time.Duration, clock Clock) *Reclaimer {
	return &Reclaimer{services: services, interval: interval, clock: clock}
}

// Run sweeps all regions on a ticker until the context is cancelled.
// Per-region failures are logged and do not stop the loop.
func (r *Reclaimer) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reclaimer) sweep(ctx context.Context) {
	now := r.clock.Now()
	for _, svc := range r.services {
		n, err := svc.ReclaimExpired(ctx, now)
		if err != nil {
			log.Printf("reclaimer[%s]: sweep failed: %v", svc.Region(), err)
			continue
		}
		if n > 0 {
			log.Printf("reclaimer[%s]: reclaimed %d expired reservation(s)", svc.Region(), n)
		}
	}
}
