package search_tours

import "errors"

var (
	// ErrInvalidFilter is returned for a malformed search filter
	ErrInvalidFilter = errors.New("search_tours: invalid filter")
)
