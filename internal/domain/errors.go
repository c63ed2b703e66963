package domain

import "errors"

// ErrInvalidTemplate is returned when a tour template's pricing configuration
// is malformed. Templates are validated at creation time, so this error is
// never seen on the booking path.
var ErrInvalidTemplate = errors.New("domain: invalid tour template")
