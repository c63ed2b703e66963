package search_tours

import (
	"sort"

	"github.com/sharetours/booking-service/internal/domain"
)

// sortEntries orders the filtered entries by the requested key. Every key
// carries a full tie-break chain ending in the instance id, so the order is
// total and pagination over a fixed snapshot is stable.
func sortEntries(entries []domain.CatalogIndexEntry, key domain.SortKey) {
	var less func(a, b *domain.CatalogIndexEntry) bool

	switch key {
	case domain.SortPriceLow:
		less = func(a, b *domain.CatalogIndexEntry) bool {
			if a.CurrentPrice != b.CurrentPrice {
				return a.CurrentPrice < b.CurrentPrice
			}
			if !a.StartTime.Equal(b.StartTime) {
				return a.StartTime.Before(b.StartTime)
			}
			return a.InstanceID < b.InstanceID
		}
	case domain.SortPriceHigh:
		less = func(a, b *domain.CatalogIndexEntry) bool {
			if a.CurrentPrice != b.CurrentPrice {
				return a.CurrentPrice > b.CurrentPrice
			}
			if !a.StartTime.Equal(b.StartTime) {
				return a.StartTime.Before(b.StartTime)
			}
			return a.InstanceID < b.InstanceID
		}
	case domain.SortSpotsLeft:
		less = func(a, b *domain.CatalogIndexEntry) bool {
			if a.SpotsLeft != b.SpotsLeft {
				return a.SpotsLeft < b.SpotsLeft
			}
			return a.InstanceID < b.InstanceID
		}
	case domain.SortStartingSoon:
		less = func(a, b *domain.CatalogIndexEntry) bool {
			if !a.StartTime.Equal(b.StartTime) {
				return a.StartTime.Before(b.StartTime)
			}
			return a.InstanceID < b.InstanceID
		}
	case domain.SortRating:
		less = func(a, b *domain.CatalogIndexEntry) bool {
			if a.HostRating != b.HostRating {
				return a.HostRating > b.HostRating
			}
			if a.ReviewCount != b.ReviewCount {
				return a.ReviewCount > b.ReviewCount
			}
			return a.InstanceID < b.InstanceID
		}
	default: // SortCompatible
		less = func(a, b *domain.CatalogIndexEntry) bool {
			sa, sb := compatibleScore(a), compatibleScore(b)
			if sa != sb {
				return sa > sb
			}
			return a.InstanceID < b.InstanceID
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return less(&entries[i], &entries[j])
	})
}

// compatibleScore favors groups that are filling up, well-rated hosts and
// instant booking
func compatibleScore(e *domain.CatalogIndexEntry) float64 {
	score := e.ProgressPct + 10*e.HostRating
	if e.InstantBook {
		score += 5
	}
	return score
}
