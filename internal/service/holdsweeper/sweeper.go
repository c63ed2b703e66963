package holdsweeper

import (
	"context"
	"time"
)

const sweepBatchSize = 100

// Sweeper is the background counterpart of the lazy expiry check on the
// confirm path: it walks held bookings past their confirmation deadline,
// returns their seats to the ledger and marks them expired. It also closes
// instances whose start time has passed and drops them from the catalog.
type Sweeper struct {
	bookings     BookingRepository
	tours        TourRepository
	ledger       Ledger
	catalog      Catalog
	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics // may be nil

	interval time.Duration
}

// NewSweeper creates the sweeper
func NewSweeper(
	bookings BookingRepository,
	tours TourRepository,
	ledger Ledger,
	catalog Catalog,
	logger Logger,
	metrics Metrics,
	interval time.Duration,
) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		bookings:     bookings,
		tours:        tours,
		ledger:       ledger,
		catalog:      catalog,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		metrics:      metrics,
		interval:     interval,
	}
}

// SetTimeProvider overrides the time source, used in tests
func (s *Sweeper) SetTimeProvider(tp TimeProvider) {
	s.timeProvider = tp
}

// Run sweeps on a fixed interval until the context is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("holdsweeper: started, interval=%s", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("holdsweeper: stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass. Exported so a pass can be forced at startup and
// driven directly in tests.
func (s *Sweeper) Sweep(ctx context.Context) {
	s.expireHolds(ctx)
	s.expireStartedInstances(ctx)
}

func (s *Sweeper) expireHolds(ctx context.Context) {
	now := s.timeProvider.Now()

	expired, err := s.bookings.ListExpiredHeld(ctx, now, sweepBatchSize)
	if err != nil {
		s.logger.Error("holdsweeper: failed to list expired holds: %v", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	released := 0
	for _, b := range expired {
		if err := s.ledger.Release(b.HoldToken); err != nil {
			s.logger.Error("holdsweeper: failed to release hold for booking id=%s: %v", b.ID, err)
		}
		if err := s.bookings.MarkExpired(ctx, b.ID); err != nil {
			s.logger.Error("holdsweeper: failed to mark booking id=%s expired: %v", b.ID, err)
			continue
		}
		released++
		if s.metrics != nil {
			s.metrics.AddActiveHolds(-b.ParticipantCount)
			s.metrics.IncBookingOutcome("expired")
		}
	}

	if s.metrics != nil {
		s.metrics.IncHoldsExpired(released)
	}
	s.logger.Info("holdsweeper: expired %d of %d overdue holds", released, len(expired))
}

func (s *Sweeper) expireStartedInstances(ctx context.Context) {
	ids, err := s.tours.ExpireStartedInstances(ctx)
	if err != nil {
		s.logger.Error("holdsweeper: failed to expire started instances: %v", err)
		return
	}
	for _, id := range ids {
		s.catalog.Remove(id)
	}
	if len(ids) > 0 {
		s.logger.Info("holdsweeper: closed %d started instances", len(ids))
	}
}
