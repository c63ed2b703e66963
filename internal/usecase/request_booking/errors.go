package request_booking

import (
	"errors"
	"fmt"
)

var (
	// ErrInstanceNotFound is returned when the tour instance does not exist
	ErrInstanceNotFound = errors.New("request_booking: tour instance not found")

	// ErrInstanceNotOpen is returned when the instance no longer accepts bookings
	ErrInstanceNotOpen = errors.New("request_booking: tour instance is not open")

	// ErrSoldOut is returned when the requested seats exceed what is left.
	// Terminal for this instance; callers should look for alternatives.
	ErrSoldOut = errors.New("request_booking: not enough spots left")

	// ErrContention is returned when the optimistic retry budget is exhausted.
	// Transient; the caller may simply try again.
	ErrContention = errors.New("request_booking: too much contention, please retry")

	// ErrPriceBelowMinimum is returned when a pay-what-you-want amount is
	// below the template's declared minimum
	ErrPriceBelowMinimum = errors.New("request_booking: offered price below the minimum")

	// ErrPriceRequired is returned when a pay-what-you-want booking carries no amount
	ErrPriceRequired = errors.New("request_booking: price required for pay-what-you-want tours")

	// ErrInvalidInput is returned for malformed input data
	ErrInvalidInput = errors.New("request_booking: invalid input data")

	// ErrInternal is returned for internal failures
	ErrInternal = errors.New("request_booking: internal error")
)

// SoldOutError carries the accurate remaining capacity alongside ErrSoldOut
// so callers can explain the rejection ("2 spots left, you requested 4").
type SoldOutError struct {
	SpotsLeft int
	Requested int
}

func (e *SoldOutError) Error() string {
	return fmt.Sprintf("request_booking: not enough spots left (%d left, %d requested)", e.SpotsLeft, e.Requested)
}

// Is makes errors.Is(err, ErrSoldOut) match
func (e *SoldOutError) Is(target error) bool {
	return target == ErrSoldOut
}
