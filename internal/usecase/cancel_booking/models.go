package cancel_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request identifies the booking to cancel
type Request struct {
	BookingID uuid.UUID
	UserID    string // caller identity, must match the booking owner
}

// Response the booking after cancellation
type Response struct {
	ID             uuid.UUID
	TourInstanceID int64
	Status         string
	CancelledAt    time.Time

	// SeatsReturned is true when the cancelled seats went back to the
	// availability pool. Held seats always return; confirmed seats return
	// only when the cancellation met the template's notice requirement.
	SeatsReturned bool
}
