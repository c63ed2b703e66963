package bookings

import (
	"context"

	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
)

// BookingRepository read access to stored bookings
type BookingRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID string, status *domain.BookingStatus) ([]*domain.Booking, error)
}

// Logger narrow logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
