package catalog

import "errors"

var (
	// ErrEntryNotFound is returned when no index entry exists for an instance
	ErrEntryNotFound = errors.New("catalog: entry not found")
)
