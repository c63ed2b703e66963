package confirm_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request identifies the held booking to confirm
type Request struct {
	BookingID uuid.UUID
	UserID    string // caller identity, must match the booking owner
}

// Response the booking after confirmation
type Response struct {
	ID               uuid.UUID
	TourInstanceID   int64
	UserID           string
	ParticipantCount int

	Currency       string
	PricePerPerson int64
	TotalPrice     int64

	Status      string
	ConfirmedAt time.Time

	// Ledger state after the confirmation, for display
	SpotsLeft   int
	GroupIsFull bool
}
