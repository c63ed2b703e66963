package search_tours

import (
	"github.com/sharetours/booking-service/internal/domain"
)

// Request wraps the search filter
type Request struct {
	Filter domain.FilterSpec
}

// Response one page of search results, sorted and sliced from a single
// consistent snapshot of the catalog
type Response struct {
	Results []domain.CatalogIndexEntry

	Page       int
	PageSize   int
	TotalCount int
	TotalPages int
}
