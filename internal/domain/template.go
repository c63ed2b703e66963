package domain

import (
	"fmt"
)

// CurveType shape of the group-pricing curve
type CurveType string

const (
	CurveLinear  CurveType = "linear"
	CurveStepped CurveType = "stepped"
)

// CancellationPolicy determines how long before the start a confirmed
// booking can be cancelled with the seat returned to the pool
type CancellationPolicy string

const (
	PolicyFlexible CancellationPolicy = "flexible"
	PolicyStandard CancellationPolicy = "standard"
	PolicyStrict   CancellationPolicy = "strict"
)

// NoticeHours returns the minimum notice (in hours) required before the
// instance start for a seat-returning cancellation
func (p CancellationPolicy) NoticeHours() int {
	switch p {
	case PolicyStandard:
		return 24
	case PolicyStrict:
		return 72
	default:
		return 0
	}
}

// DiscountType how an early-bird discount is expressed
type DiscountType string

const (
	DiscountNone    DiscountType = ""
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// PriceTier one step of a stepped pricing curve.
// Price applies once ThresholdCount bookings are confirmed.
type PriceTier struct {
	ThresholdCount int
	Price          int64
}

// TourTemplate the reusable definition of a share tour.
// All prices are in the currency's minor unit (cents).
type TourTemplate struct {
	ID          int64
	Title       string
	City        string
	Country     string
	Description string
	MediaRefs   []string
	Category    string

	Languages         []string
	TravelStyles      []string
	AccessibilityTags []string

	DurationMinutes int
	MinGroup        int
	MaxGroup        int

	Currency   string
	BasePrice  int64 // per-person price at zero confirmed bookings
	FloorPrice int64 // guaranteed lowest per-person price at full group
	Curve      CurveType
	PriceTiers []PriceTier // for CurveStepped, ordered by ThresholdCount

	// Early-bird discount applied after the curve price. Active when a
	// booking is made at least EarlyBirdNoticeHours before the start.
	EarlyBirdNoticeHours  int
	EarlyBirdDiscountType DiscountType
	EarlyBirdDiscount     int64 // percent (0-100) or fixed minor units

	CancellationPolicy CancellationPolicy
	InstantBook        bool

	// Pay-what-you-want templates bypass the pricing curve: the buyer sets
	// the per-person price, constrained only by PWYWMinPrice (0 = no floor).
	PayWhatYouWant bool
	PWYWMinPrice   int64

	HostRating  float64
	ReviewCount int
}

// Validate checks the template's pricing configuration. Templates that fail
// validation are rejected at creation time and never reach the booking path.
func (t *TourTemplate) Validate() error {
	if t.MinGroup < 1 {
		return fmt.Errorf("%w: minGroup must be at least 1", ErrInvalidTemplate)
	}
	if t.MaxGroup < t.MinGroup {
		return fmt.Errorf("%w: maxGroup must be >= minGroup", ErrInvalidTemplate)
	}
	if t.FloorPrice < 0 {
		return fmt.Errorf("%w: floorPrice must not be negative", ErrInvalidTemplate)
	}
	if t.FloorPrice > t.BasePrice {
		return fmt.Errorf("%w: floorPrice must not exceed basePrice", ErrInvalidTemplate)
	}

	switch t.Curve {
	case CurveLinear:
	case CurveStepped:
		if len(t.PriceTiers) == 0 {
			return fmt.Errorf("%w: stepped curve requires at least one tier", ErrInvalidTemplate)
		}
		prev := -1
		for i, tier := range t.PriceTiers {
			if tier.ThresholdCount <= prev {
				return fmt.Errorf("%w: tier thresholds must be strictly increasing", ErrInvalidTemplate)
			}
			if tier.ThresholdCount > t.MaxGroup {
				return fmt.Errorf("%w: tier threshold %d exceeds maxGroup", ErrInvalidTemplate, tier.ThresholdCount)
			}
			if tier.Price < t.FloorPrice || tier.Price > t.BasePrice {
				return fmt.Errorf("%w: tier price must be within [floorPrice, basePrice]", ErrInvalidTemplate)
			}
			if i == 0 && tier.ThresholdCount != 0 {
				return fmt.Errorf("%w: first tier must start at threshold 0", ErrInvalidTemplate)
			}
			prev = tier.ThresholdCount
		}
	default:
		return fmt.Errorf("%w: unknown curve type %q", ErrInvalidTemplate, t.Curve)
	}

	switch t.EarlyBirdDiscountType {
	case DiscountNone:
	case DiscountPercent:
		if t.EarlyBirdDiscount < 0 || t.EarlyBirdDiscount > 100 {
			return fmt.Errorf("%w: early-bird percent must be within [0, 100]", ErrInvalidTemplate)
		}
	case DiscountFixed:
		if t.EarlyBirdDiscount < 0 {
			return fmt.Errorf("%w: early-bird amount must not be negative", ErrInvalidTemplate)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidTemplate, t.EarlyBirdDiscountType)
	}

	if t.PayWhatYouWant && t.PWYWMinPrice < 0 {
		return fmt.Errorf("%w: pay-what-you-want minimum must not be negative", ErrInvalidTemplate)
	}

	return nil
}

// HasEarlyBird returns true if the template offers an early-bird discount
func (t *TourTemplate) HasEarlyBird() bool {
	return t.EarlyBirdNoticeHours > 0 && t.EarlyBirdDiscountType != DiscountNone && t.EarlyBirdDiscount > 0
}
