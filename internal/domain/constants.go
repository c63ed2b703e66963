package domain

import "time"

// Booking defaults
const (
	DefaultHoldWindow      = 15 * time.Minute
	DefaultMaxHoldAttempts = 3
)

// DropInWindow instances starting within this window count as drop-ins
const DropInWindow = 2 * time.Hour

// Pagination limits
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Business validation constants
const (
	MaxParticipantsPerBooking = 20
	MaxTitleLength            = 200
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Duration bucket boundaries (minutes)
const (
	DurationShortMaxMinutes   = 120
	DurationHalfDayMaxMinutes = 300
)

// Group-size bucket boundaries (maxGroup)
const (
	GroupIntimateMax = 6
	GroupSocialMax   = 12
)
