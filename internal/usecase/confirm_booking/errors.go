package confirm_booking

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist
	ErrBookingNotFound = errors.New("confirm_booking: booking not found")

	// ErrNotOwner is returned when the caller does not own the booking
	ErrNotOwner = errors.New("confirm_booking: booking belongs to another user")

	// ErrAlreadyConfirmed is returned for a booking that is already confirmed
	ErrAlreadyConfirmed = errors.New("confirm_booking: booking already confirmed")

	// ErrHoldExpired is returned when the confirmation deadline has passed.
	// The held seats are returned to the pool and the booking is expired.
	ErrHoldExpired = errors.New("confirm_booking: hold expired")

	// ErrNotHeld is returned when the booking is cancelled or expired
	ErrNotHeld = errors.New("confirm_booking: booking is not in held state")

	// ErrInvalidInput is returned for malformed input data
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrInternal is returned for internal failures
	ErrInternal = errors.New("confirm_booking: internal error")
)
