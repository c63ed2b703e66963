package confirm_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
	"github.com/sharetours/booking-service/internal/ledger"
)

// BookingRepository persistence for bookings
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID, confirmedAt time.Time) error
	MarkExpired(ctx context.Context, id uuid.UUID) error
}

// TourRepository instance status updates
type TourRepository interface {
	UpdateInstanceStatus(ctx context.Context, id int64, status domain.InstanceStatus) error
}

// Ledger the availability ledger operations used while confirming
type Ledger interface {
	Confirm(tokenID uuid.UUID) (ledger.Snapshot, error)
	Release(tokenID uuid.UUID) error
}

// TxManager runs the status updates of one confirmation atomically
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider source of the current time (swapped out in tests)
type TimeProvider interface {
	Now() time.Time
}

// Logger narrow logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics booking counters; optional, may be nil
type Metrics interface {
	IncBookingOutcome(outcome string)
	AddActiveHolds(delta int)
	IncHoldsExpired(n int)
}

// RealTimeProvider production time provider
type RealTimeProvider struct{}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
