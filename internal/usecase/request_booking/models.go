package request_booking

import (
	"time"

	"github.com/google/uuid"
)

// Request a hold request for seats on a tour instance
type Request struct {
	UserID           string // opaque caller identity
	TourInstanceID   int64
	ParticipantCount int

	// PayWhatYouWantAmount per-person amount (minor units) chosen by the
	// buyer; required for pay-what-you-want templates, ignored otherwise.
	PayWhatYouWantAmount *int64
}

// Response the created booking in HELD state
type Response struct {
	ID               uuid.UUID
	TourInstanceID   int64
	UserID           string
	ParticipantCount int

	Currency       string
	PricePerPerson int64
	TotalPrice     int64

	Status               string
	ConfirmationDeadline time.Time
	CreatedAt            time.Time

	// Ledger state after the hold, for display
	SpotsLeft   int
	ProgressPct float64
}
