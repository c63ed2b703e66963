package domain

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusHeld      BookingStatus = "held"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
	StatusExpired   BookingStatus = "expired"
)

// Booking a seat reservation against a tour instance.
// PricePerPerson is locked at hold time and never changes afterwards.
type Booking struct {
	ID               uuid.UUID
	TourInstanceID   int64
	UserID           string // opaque caller identity, recorded as-is
	ParticipantCount int

	Currency       string
	PricePerPerson int64
	TotalPrice     int64

	Status    BookingStatus
	HoldToken uuid.UUID

	CreatedAt            time.Time
	ConfirmationDeadline time.Time
	ConfirmedAt          *time.Time
	CancelledAt          *time.Time
}

// IsHeld returns true while the booking occupies provisionally held seats
func (b *Booking) IsHeld() bool {
	return b.Status == StatusHeld
}

// HoldExpired returns true if a held booking missed its confirmation deadline
func (b *Booking) HoldExpired(now time.Time) bool {
	return b.Status == StatusHeld && now.After(b.ConfirmationDeadline)
}

// CanBeConfirmed returns true if the booking can still be confirmed
func (b *Booking) CanBeConfirmed(now time.Time) bool {
	return b.Status == StatusHeld && !now.After(b.ConfirmationDeadline)
}

// CanBeCancelled returns true if the booking can be cancelled by the caller
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusHeld || b.Status == StatusConfirmed
}
