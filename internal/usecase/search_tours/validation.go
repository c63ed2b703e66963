package search_tours

import (
	"fmt"

	"github.com/sharetours/booking-service/internal/domain"
)

// normalizeFilter validates the filter and fills in defaults for the
// unset paging and sorting fields
func normalizeFilter(f *domain.FilterSpec) error {
	if f.SortKey == "" {
		f.SortKey = domain.SortCompatible
	}
	if !f.SortKey.IsValid() {
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidFilter, f.SortKey)
	}

	if f.Page == 0 {
		f.Page = 1
	}
	if f.Page < 1 {
		return fmt.Errorf("%w: page must be positive", ErrInvalidFilter)
	}
	if f.PageSize == 0 {
		f.PageSize = domain.DefaultPageSize
	}
	if f.PageSize < 1 {
		return fmt.Errorf("%w: pageSize must be positive", ErrInvalidFilter)
	}
	if f.PageSize > domain.MaxPageSize {
		f.PageSize = domain.MaxPageSize
	}

	if f.FlexDays < 0 {
		return fmt.Errorf("%w: flexDays must not be negative", ErrInvalidFilter)
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return fmt.Errorf("%w: dateFrom is after dateTo", ErrInvalidFilter)
	}

	if f.MinPrice != nil && *f.MinPrice < 0 {
		return fmt.Errorf("%w: minPrice must not be negative", ErrInvalidFilter)
	}
	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		return fmt.Errorf("%w: minPrice exceeds maxPrice", ErrInvalidFilter)
	}

	if f.DurationBucket != nil {
		switch *f.DurationBucket {
		case domain.DurationShort, domain.DurationHalfDay, domain.DurationFullDay:
		default:
			return fmt.Errorf("%w: unknown duration bucket %q", ErrInvalidFilter, *f.DurationBucket)
		}
	}
	if f.GroupSizeBucket != nil {
		switch *f.GroupSizeBucket {
		case domain.GroupIntimate, domain.GroupSocial, domain.GroupCrowd:
		default:
			return fmt.Errorf("%w: unknown group-size bucket %q", ErrInvalidFilter, *f.GroupSizeBucket)
		}
	}

	if f.MinHostRating != nil && (*f.MinHostRating < 0 || *f.MinHostRating > 5) {
		return fmt.Errorf("%w: minHostRating must be within [0, 5]", ErrInvalidFilter)
	}

	return nil
}
