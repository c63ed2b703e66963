package search_tours

import (
	"time"

	"github.com/sharetours/booking-service/internal/domain"
)

// Catalog read access to the denormalized tour index
type Catalog interface {
	SnapshotAll() []domain.CatalogIndexEntry
}

// TimeProvider source of the current time (swapped out in tests)
type TimeProvider interface {
	Now() time.Time
}

// Logger narrow logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Metrics search instrumentation; optional, may be nil
type Metrics interface {
	ObserveSearch(started time.Time)
}

// RealTimeProvider production time provider
type RealTimeProvider struct{}

// Now returns the current time
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
