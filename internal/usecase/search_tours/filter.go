package search_tours

import (
	"strings"
	"time"

	"github.com/sharetours/booking-service/internal/domain"
)

// matches applies the full predicate: every populated filter field must
// pass, values inside one multi-valued field pass on any hit
func matches(e *domain.CatalogIndexEntry, f *domain.FilterSpec, now time.Time) bool {
	if e.Status != domain.InstanceOpen {
		return false
	}

	if !matchesAnyFold(e.City, f.Cities) {
		return false
	}
	if !matchesAnyFold(e.Country, f.Countries) {
		return false
	}
	if !intersectsFold(e.Languages, f.Languages) {
		return false
	}
	if !intersectsFold(e.TravelStyles, f.TravelStyles) {
		return false
	}
	if !intersectsFold(e.AccessibilityTags, f.AccessibilityTags) {
		return false
	}

	if !withinDates(e.StartTime, f, now) {
		return false
	}

	if f.DurationBucket != nil && !f.DurationBucket.Matches(e.DurationMinutes) {
		return false
	}
	if f.GroupSizeBucket != nil && !f.GroupSizeBucket.Matches(e.MaxGroup) {
		return false
	}

	price := e.CurrentPrice
	if f.PriceAtFull {
		price = e.AtFullPrice
	}
	if f.MinPrice != nil && price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && price > *f.MaxPrice {
		return false
	}

	if f.MinHostRating != nil && e.HostRating < *f.MinHostRating {
		return false
	}

	if f.InstantBook && !e.InstantBook {
		return false
	}
	if f.DropInsOnly && !e.IsDropIn(now) {
		return false
	}
	if f.EarlyBird && !e.IsEarlyBird(now) {
		return false
	}
	if f.PayWhatYouWant && !e.PayWhatYouWant {
		return false
	}

	return true
}

// withinDates checks the start time against the date range widened by the
// flexible-day tolerance on both ends
func withinDates(start time.Time, f *domain.FilterSpec, _ time.Time) bool {
	flex := time.Duration(f.FlexDays) * 24 * time.Hour
	if f.DateFrom != nil && start.Before(f.DateFrom.Add(-flex)) {
		return false
	}
	if f.DateTo != nil && start.After(f.DateTo.Add(flex)) {
		return false
	}
	return true
}

// matchesAnyFold reports whether value equals any of wanted, ignoring case.
// An empty wanted set imposes no constraint.
func matchesAnyFold(value string, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if strings.EqualFold(value, w) {
			return true
		}
	}
	return false
}

// intersectsFold reports whether the two sets share at least one value,
// ignoring case. An empty wanted set imposes no constraint.
func intersectsFold(values, wanted []string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		for _, v := range values {
			if strings.EqualFold(v, w) {
				return true
			}
		}
	}
	return false
}
