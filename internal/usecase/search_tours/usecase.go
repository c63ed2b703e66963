package search_tours

import (
	"context"

	"github.com/sharetours/booking-service/internal/domain"
)

// UseCase runs a search over the catalog index: predicate, sort, paginate.
// Each call works on one immutable snapshot of the index, so a page never
// mixes pre- and post-update views of the same instance.
type UseCase struct {
	catalog      Catalog
	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics // may be nil
}

// NewUseCase creates the search use case
func NewUseCase(catalog Catalog, logger Logger, metrics Metrics) *UseCase {
	return &UseCase{
		catalog:      catalog,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		metrics:      metrics,
	}
}

// SetTimeProvider overrides the time source, used in tests
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute evaluates the filter and returns the requested page
func (uc *UseCase) Execute(_ context.Context, req *Request) (*Response, error) {
	now := uc.timeProvider.Now()
	if uc.metrics != nil {
		defer uc.metrics.ObserveSearch(now)
	}

	filter := req.Filter
	if err := normalizeFilter(&filter); err != nil {
		uc.logger.Warn("SearchTours: %v", err)
		return nil, err
	}

	snapshot := uc.catalog.SnapshotAll()

	filtered := snapshot[:0:0]
	for i := range snapshot {
		if matches(&snapshot[i], &filter, now) {
			filtered = append(filtered, snapshot[i])
		}
	}

	sortEntries(filtered, filter.SortKey)

	totalCount := len(filtered)
	totalPages := (totalCount + filter.PageSize - 1) / filter.PageSize

	start := (filter.Page - 1) * filter.PageSize
	end := start + filter.PageSize
	var page []domain.CatalogIndexEntry
	switch {
	case start >= totalCount:
		page = []domain.CatalogIndexEntry{}
	case end > totalCount:
		page = filtered[start:totalCount]
	default:
		page = filtered[start:end]
	}

	uc.logger.Info("SearchTours: sort=%s, page=%d/%d, matched=%d of %d",
		filter.SortKey, filter.Page, totalPages, totalCount, len(snapshot))

	return &Response{
		Results:    page,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}
