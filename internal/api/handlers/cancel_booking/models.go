package cancel_booking

import (
	"time"

	"github.com/google/uuid"

	cancelBooking "github.com/sharetours/booking-service/internal/usecase/cancel_booking"
)

// CancelBookingResponse the cancelled booking returned to the client
type CancelBookingResponse struct {
	ID             uuid.UUID `json:"id"`
	TourInstanceID int64     `json:"tourInstanceId"`
	Status         string    `json:"status"`
	CancelledAt    time.Time `json:"cancelledAt"`
	SeatsReturned  bool      `json:"seatsReturned"`
}

// FromUseCaseResponse converts the use case response to the HTTP shape
func FromUseCaseResponse(r *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:             r.ID,
		TourInstanceID: r.TourInstanceID,
		Status:         r.Status,
		CancelledAt:    r.CancelledAt,
		SeatsReturned:  r.SeatsReturned,
	}
}
