package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// fakeClock returns a fixed instant so expiry math is deterministic.
type fakeClock struct {
	now time.Time
}

func (f fakeClock) Now() time.Time { return f.now }

// recordingPublisher captures emitted events for assertions.
type recordingPublisher struct {
	paid    []uint64
	expired []uint64
	seats   map[uint64][]uint64
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{seats: make(map[uint64][]uint64)}
}

func (p *recordingPublisher) BookingPaid(_ context.Context, reservationID, _ uint64, _ uint32, _ string) {
	p.paid = append(p.paid, reservationID)
}

func (p *recordingPublisher) BookingExpired(_ context.Context, reservationID uint64, seatIDs []uint64, _ string) {
	p.expired = append(p.expired, reservationID)
	p.seats[reservationID] = seatIDs
}

// newTestService wires a Service onto a sqlmock connection.
func newTestService(t *testing.T, clock Clock, events EventPublisher) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewService("krakow", db, clock, events), mock
}
