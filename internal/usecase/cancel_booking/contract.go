package cancel_booking

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
	MarkCancelled(ctx context.Context, id uuid.UUID, from domain.BookingStatus, cancelledAt time.Time) error
}

// TourRepository read access to templates and instances
type TourRepository interface {
	GetInstance(ctx context.Context, id int64) (*domain.TourInstance, error)
	GetTemplate(ctx context.Context, id int64) (*domain.TourTemplate, error)
}

// Ledger the availability ledger operations used while cancelling
type Ledger interface {
	Release(tokenID uuid.UUID) error
	CancelConfirmed(instanceID int64, n int) (ledger.Snapshot, error)
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
}

// RealTimeProvider production time provider
type RealTimeProvider struct{}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
