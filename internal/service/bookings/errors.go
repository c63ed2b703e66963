package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist
	ErrBookingNotFound = errors.New("bookings.service: booking not found")

	// ErrAccessDenied is returned when the caller does not own the booking
	ErrAccessDenied = errors.New("bookings.service: access denied")

	// ErrInvalidInput is returned for malformed input data
	ErrInvalidInput = errors.New("bookings.service: invalid input data")

	// ErrInternal is returned for internal failures
	ErrInternal = errors.New("bookings.service: internal error")
)
