package confirm_booking

import (
	"time"

	"github.com/google/uuid"

	confirmBooking "github.com/sharetours/booking-service/internal/usecase/confirm_booking"
)

// ConfirmBookingResponse the confirmed booking returned to the client
type ConfirmBookingResponse struct {
	ID               uuid.UUID `json:"id"`
	TourInstanceID   int64     `json:"tourInstanceId"`
	UserID           string    `json:"userId"`
	ParticipantCount int       `json:"participantCount"`
	Currency         string    `json:"currency"`
	PricePerPerson   int64     `json:"pricePerPerson"`
	TotalPrice       int64     `json:"totalPrice"`
	Status           string    `json:"status"`
	ConfirmedAt      time.Time `json:"confirmedAt"`
	SpotsLeft        int       `json:"spotsLeft"`
	GroupIsFull      bool      `json:"groupIsFull"`
}

// FromUseCaseResponse converts the use case response to the HTTP shape
func FromUseCaseResponse(r *confirmBooking.Response) *ConfirmBookingResponse {
	return &ConfirmBookingResponse{
		ID:               r.ID,
		TourInstanceID:   r.TourInstanceID,
		UserID:           r.UserID,
		ParticipantCount: r.ParticipantCount,
		Currency:         r.Currency,
		PricePerPerson:   r.PricePerPerson,
		TotalPrice:       r.TotalPrice,
		Status:           r.Status,
		ConfirmedAt:      r.ConfirmedAt,
		SpotsLeft:        r.SpotsLeft,
		GroupIsFull:      r.GroupIsFull,
	}
}
