package create_booking

import (
	"time"

	"github.com/google/uuid"

	requestBooking "github.com/sharetours/booking-service/internal/usecase/request_booking"
)

// CreateBookingRequest POST /bookings body
type CreateBookingRequest struct {
	TourInstanceID       int64  `json:"tourInstanceId"`
	ParticipantCount     int    `json:"participantCount"`
	PayWhatYouWantAmount *int64 `json:"payWhatYouWantAmount,omitempty"`
}

// ToUseCaseRequest converts the HTTP request to the use case model
func (r *CreateBookingRequest) ToUseCaseRequest(userID string) *requestBooking.Request {
	return &requestBooking.Request{
		UserID:               userID,
		TourInstanceID:       r.TourInstanceID,
		ParticipantCount:     r.ParticipantCount,
		PayWhatYouWantAmount: r.PayWhatYouWantAmount,
	}
}

// CreateBookingResponse the held booking returned to the client
type CreateBookingResponse struct {
	ID                   uuid.UUID `json:"id"`
	TourInstanceID       int64     `json:"tourInstanceId"`
	UserID               string    `json:"userId"`
	ParticipantCount     int       `json:"participantCount"`
	Currency             string    `json:"currency"`
	PricePerPerson       int64     `json:"pricePerPerson"`
	TotalPrice           int64     `json:"totalPrice"`
	Status               string    `json:"status"`
	ConfirmationDeadline time.Time `json:"confirmationDeadline"`
	CreatedAt            time.Time `json:"createdAt"`
	SpotsLeft            int       `json:"spotsLeft"`
	ProgressPct          float64   `json:"progressPct"`
}

// SoldOutResponse error body carrying the remaining capacity
type SoldOutResponse struct {
	Message   string `json:"message"`
	SpotsLeft int    `json:"spotsLeft"`
	Requested int    `json:"requested"`
}

// FromUseCaseResponse converts the use case response to the HTTP shape
func FromUseCaseResponse(r *requestBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		ID:                   r.ID,
		TourInstanceID:       r.TourInstanceID,
		UserID:               r.UserID,
		ParticipantCount:     r.ParticipantCount,
		Currency:             r.Currency,
		PricePerPerson:       r.PricePerPerson,
		TotalPrice:           r.TotalPrice,
		Status:               r.Status,
		ConfirmationDeadline: r.ConfirmationDeadline,
		CreatedAt:            r.CreatedAt,
		SpotsLeft:            r.SpotsLeft,
		ProgressPct:          r.ProgressPct,
	}
}
