package domain

import "time"

// SortKey ordering applied to search results
type SortKey string

const (
	SortCompatible   SortKey = "compatible"
	SortPriceLow     SortKey = "price_low"
	SortPriceHigh    SortKey = "price_high"
	SortSpotsLeft    SortKey = "spots_left"
	SortStartingSoon SortKey = "starting_soon"
	SortRating       SortKey = "rating"
)

// IsValid reports whether the sort key is one of the supported orderings
func (k SortKey) IsValid() bool {
	switch k {
	case SortCompatible, SortPriceLow, SortPriceHigh, SortSpotsLeft, SortStartingSoon, SortRating:
		return true
	}
	return false
}

// DurationBucket coarse tour-length buckets used for filtering
type DurationBucket string

const (
	DurationShort   DurationBucket = "short"    // under 2 hours
	DurationHalfDay DurationBucket = "half_day" // 2 to 5 hours
	DurationFullDay DurationBucket = "full_day" // over 5 hours
)

// Matches reports whether a tour duration falls into the bucket
func (b DurationBucket) Matches(durationMinutes int) bool {
	switch b {
	case DurationShort:
		return durationMinutes < DurationShortMaxMinutes
	case DurationHalfDay:
		return durationMinutes >= DurationShortMaxMinutes && durationMinutes <= DurationHalfDayMaxMinutes
	case DurationFullDay:
		return durationMinutes > DurationHalfDayMaxMinutes
	}
	return false
}

// GroupSizeBucket coarse group-capacity buckets used for filtering
type GroupSizeBucket string

const (
	GroupIntimate GroupSizeBucket = "intimate" // up to 6
	GroupSocial   GroupSizeBucket = "social"   // 7 to 12
	GroupCrowd    GroupSizeBucket = "crowd"    // over 12
)

// Matches reports whether a tour's maxGroup falls into the bucket
func (b GroupSizeBucket) Matches(maxGroup int) bool {
	switch b {
	case GroupIntimate:
		return maxGroup <= GroupIntimateMax
	case GroupSocial:
		return maxGroup > GroupIntimateMax && maxGroup <= GroupSocialMax
	case GroupCrowd:
		return maxGroup > GroupSocialMax
	}
	return false
}

// FilterSpec an immutable search query. Every populated field is AND-ed
// against the others; values inside a multi-valued field are OR-ed.
// Absent (nil/empty/false) fields impose no constraint.
type FilterSpec struct {
	Cities            []string
	Countries         []string
	Languages         []string
	TravelStyles      []string
	AccessibilityTags []string

	DateFrom *time.Time
	DateTo   *time.Time
	FlexDays int // widens the date range on both ends

	DurationBucket  *DurationBucket
	GroupSizeBucket *GroupSizeBucket

	MinPrice *int64
	MaxPrice *int64
	// PriceAtFull applies the price bounds to the at-full (floor) price
	// instead of the current price: "the price I'd pay if the group fills".
	PriceAtFull bool

	MinHostRating *float64

	InstantBook    bool
	DropInsOnly    bool
	EarlyBird      bool
	PayWhatYouWant bool

	SortKey  SortKey
	Page     int
	PageSize int
}
