package catalog

import (
	"context"

	"github.com/sharetours/booking-service/internal/domain"
	"github.com/sharetours/booking-service/internal/ledger"
)

// TourSource storage the index rebuilds its entries from
type TourSource interface {
	GetInstance(ctx context.Context, id int64) (*domain.TourInstance, error)
	GetTemplate(ctx context.Context, id int64) (*domain.TourTemplate, error)
	ListOpenInstances(ctx context.Context) ([]*domain.TourInstance, error)
}

// LedgerReader read access to the availability ledger
type LedgerReader interface {
	Snapshot(instanceID int64) (ledger.Snapshot, error)
}

// Logger narrow logging interface
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
