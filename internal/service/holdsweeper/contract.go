package holdsweeper

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
)

// BookingRepository access to expired held bookings
type BookingRepository interface {
	ListExpiredHeld(ctx context.Context, now time.Time, limit uint64) ([]*domain.Booking, error)
	MarkExpired(ctx context.Context, id uuid.UUID) error
}

// TourRepository instance lifecycle maintenance
type TourRepository interface {
	ExpireStartedInstances(ctx context.Context) ([]int64, error)
}

// Ledger seat release for expired holds
type Ledger interface {
	Release(tokenID uuid.UUID) error
}

// Catalog removal of instances that left the open state
type Catalog interface {
	Remove(instanceID int64)
}

// TimeProvider source of the current time (swapped out in tests)
type TimeProvider interface {
	Now() time.Time
}

// Logger narrow logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics sweep counters; optional, may be nil
type Metrics interface {
	IncHoldsExpired(n int)
	AddActiveHolds(delta int)
	IncBookingOutcome(outcome string)
}

// RealTimeProvider production time provider
type RealTimeProvider struct{}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
