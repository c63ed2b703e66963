// Package pricing implements the group-pricing curve evaluator.
// All functions are pure: price out of template config plus the current
// confirmed count, no side effects.
package pricing

import (
	"fmt"
	"time"

	"github.com/sharetours/booking-service/internal/domain"
)

// Quote a price snapshot for one tour instance at a given confirmed count
type Quote struct {
	Currency     string
	CurrentPrice int64 // per-person price at the given confirmed count
	AtFullPrice  int64 // per-person price once the group is full
	BasePrice    int64
	ProgressPct  float64
}

// Price returns the per-person curve price for a template at the given
// confirmed-booking count. The count is clamped into [0, maxGroup].
// Pay-what-you-want templates get their reference curve price here;
// the buyer-chosen amount is handled by the booking path.
func Price(t *domain.TourTemplate, confirmedCount int) (int64, error) {
	if t.MaxGroup <= 0 {
		return 0, fmt.Errorf("%w: maxGroup must be positive", domain.ErrInvalidTemplate)
	}
	confirmedCount = clampCount(confirmedCount, t.MaxGroup)

	switch t.Curve {
	case domain.CurveLinear:
		return linearPrice(t, confirmedCount), nil
	case domain.CurveStepped:
		return steppedPrice(t, confirmedCount)
	default:
		return 0, fmt.Errorf("%w: unknown curve type %q", domain.ErrInvalidTemplate, t.Curve)
	}
}

// PriceWithEarlyBird returns the curve price with the template's early-bird
// discount applied when earlyBird is true. Discounts are applied after the
// curve and never drive the price below the floor.
func PriceWithEarlyBird(t *domain.TourTemplate, confirmedCount int, earlyBird bool) (int64, error) {
	price, err := Price(t, confirmedCount)
	if err != nil {
		return 0, err
	}
	if !earlyBird || !t.HasEarlyBird() {
		return price, nil
	}

	switch t.EarlyBirdDiscountType {
	case domain.DiscountPercent:
		price -= roundHalfUp(price*t.EarlyBirdDiscount, 100)
	case domain.DiscountFixed:
		price -= t.EarlyBirdDiscount
	}

	if price < t.FloorPrice {
		price = t.FloorPrice
	}
	return price, nil
}

// ProgressPercentage returns the share of capacity confirmed, rounded to one
// decimal and clamped to [0, 100]
func ProgressPercentage(confirmedCount, maxGroup int) (float64, error) {
	if maxGroup <= 0 {
		return 0, fmt.Errorf("%w: maxGroup must be positive", domain.ErrInvalidTemplate)
	}
	confirmedCount = clampCount(confirmedCount, maxGroup)

	// round(100 * c / m, 1 decimal): work in tenths of a percent so the
	// half-up rounding stays in integer arithmetic
	tenths := roundHalfUp(int64(confirmedCount)*1000, int64(maxGroup))
	return float64(tenths) / 10, nil
}

// Evaluate returns the full quote for a template at the given confirmed
// count, including early-bird if the instance start qualifies
func Evaluate(t *domain.TourTemplate, confirmedCount int, startTime, now time.Time) (Quote, error) {
	earlyBird := t.HasEarlyBird() && startTime.Sub(now) >= time.Duration(t.EarlyBirdNoticeHours)*time.Hour

	current, err := PriceWithEarlyBird(t, confirmedCount, earlyBird)
	if err != nil {
		return Quote{}, err
	}
	atFull, err := PriceWithEarlyBird(t, t.MaxGroup, earlyBird)
	if err != nil {
		return Quote{}, err
	}
	progress, err := ProgressPercentage(confirmedCount, t.MaxGroup)
	if err != nil {
		return Quote{}, err
	}

	return Quote{
		Currency:     t.Currency,
		CurrentPrice: current,
		AtFullPrice:  atFull,
		BasePrice:    t.BasePrice,
		ProgressPct:  progress,
	}, nil
}

// linearPrice computes basePrice − (basePrice − floorPrice) × c / m,
// rounded half-up to the minor unit and clamped to [floor, base]
func linearPrice(t *domain.TourTemplate, c int) int64 {
	m := int64(t.MaxGroup)
	diff := t.BasePrice - t.FloorPrice

	price := roundHalfUp(t.BasePrice*m-diff*int64(c), m)
	if price < t.FloorPrice {
		price = t.FloorPrice
	}
	if price > t.BasePrice {
		price = t.BasePrice
	}
	return price
}

// steppedPrice returns the price of the highest tier whose threshold does
// not exceed the confirmed count
func steppedPrice(t *domain.TourTemplate, c int) (int64, error) {
	if len(t.PriceTiers) == 0 {
		return 0, fmt.Errorf("%w: stepped curve requires tiers", domain.ErrInvalidTemplate)
	}
	price := t.PriceTiers[0].Price
	for _, tier := range t.PriceTiers {
		if tier.ThresholdCount > c {
			break
		}
		price = tier.Price
	}
	return price, nil
}

// roundHalfUp returns num/denom rounded half-up. Both arguments must be
// non-negative, denom positive.
func roundHalfUp(num, denom int64) int64 {
	return (2*num + denom) / (2 * denom)
}

func clampCount(c, max int) int {
	if c < 0 {
		return 0
	}
	if c > max {
		return max
	}
	return c
}
