package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
)

// GetUserBookingsRequest lists a user's bookings, newest first
type GetUserBookingsRequest struct {
	UserID string
	Status *string // optional filter: held, confirmed, cancelled, expired
}

// BookingResponse one booking in API shape
type BookingResponse struct {
	ID               uuid.UUID  `json:"id"`
	TourInstanceID   int64      `json:"tourInstanceId"`
	UserID           string     `json:"userId"`
	ParticipantCount int        `json:"participantCount"`
	Currency         string     `json:"currency"`
	PricePerPerson   int64      `json:"pricePerPerson"`
	TotalPrice       int64      `json:"totalPrice"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	Deadline         time.Time  `json:"confirmationDeadline"`
	ConfirmedAt      *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt      *time.Time `json:"cancelledAt,omitempty"`
}

// BookingListResponse a list of bookings
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking converts a domain booking to the API shape
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:               b.ID,
		TourInstanceID:   b.TourInstanceID,
		UserID:           b.UserID,
		ParticipantCount: b.ParticipantCount,
		Currency:         b.Currency,
		PricePerPerson:   b.PricePerPerson,
		TotalPrice:       b.TotalPrice,
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		Deadline:         b.ConfirmationDeadline,
		ConfirmedAt:      b.ConfirmedAt,
		CancelledAt:      b.CancelledAt,
	}
}

// FromDomainBookings converts a list of domain bookings
func FromDomainBookings(items []*domain.Booking) *BookingListResponse {
	out := make([]BookingResponse, 0, len(items))
	for _, b := range items {
		out = append(out, *FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: out, Total: len(out)}
}

// ToDomainBookingStatus parses a status string
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusHeld, domain.StatusConfirmed, domain.StatusCancelled, domain.StatusExpired:
		return domain.BookingStatus(s), nil
	}
	return "", fmt.Errorf("unknown booking status %q", s)
}
