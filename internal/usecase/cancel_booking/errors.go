package cancel_booking

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist
	ErrBookingNotFound = errors.New("cancel_booking: booking not found")

	// ErrNotOwner is returned when the caller does not own the booking
	ErrNotOwner = errors.New("cancel_booking: booking belongs to another user")

	// ErrAlreadyFinal is returned for bookings already cancelled or expired
	ErrAlreadyFinal = errors.New("cancel_booking: booking already in a final state")

	// ErrInvalidInput is returned for malformed input data
	ErrInvalidInput = errors.New("cancel_booking: invalid input data")

	// ErrInternal is returned for internal failures
	ErrInternal = errors.New("cancel_booking: internal error")
)
