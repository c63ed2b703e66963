package ledger

import "errors"

var (
	// ErrInstanceNotFound is returned when an instance is not registered in the ledger
	ErrInstanceNotFound = errors.New("ledger: instance not found")

	// ErrCapacityExceeded is returned when a hold would push confirmed+held over maxGroup
	ErrCapacityExceeded = errors.New("ledger: capacity exceeded")

	// ErrVersionConflict is returned when the caller's version is stale.
	// Transient: callers re-read the snapshot and retry.
	ErrVersionConflict = errors.New("ledger: version conflict")

	// ErrHoldNotFound is returned when a hold token is unknown
	ErrHoldNotFound = errors.New("ledger: hold not found")

	// ErrHoldExpired is returned when confirming a hold past its deadline
	ErrHoldExpired = errors.New("ledger: hold expired")

	// ErrNothingConfirmed is returned when cancelling more confirmed seats than exist
	ErrNothingConfirmed = errors.New("ledger: not enough confirmed seats")

	// ErrInvalidSeats is returned for non-positive seat counts
	ErrInvalidSeats = errors.New("ledger: seat count must be positive")
)
