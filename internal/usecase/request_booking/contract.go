package request_booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
	"github.com/sharetours/booking-service/internal/ledger"
)

// TourRepository read access to templates and instances
type TourRepository interface {
	GetInstance(ctx context.Context, id int64) (*domain.TourInstance, error)
	GetTemplate(ctx context.Context, id int64) (*domain.TourTemplate, error)
}

// BookingRepository persistence for bookings
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
}

// Ledger the availability ledger operations used while acquiring a hold
type Ledger interface {
	Snapshot(instanceID int64) (ledger.Snapshot, error)
	TryHold(instanceID int64, n int, version int64, ttl time.Duration) (ledger.HoldToken, error)
	Release(tokenID uuid.UUID) error
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
	IncHoldRetry()
	AddActiveHolds(delta int)
}

// RealTimeProvider production time provider
type RealTimeProvider struct{}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
