package request_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
	tourRepo "github.com/sharetours/booking-service/internal/infra/storage/tour"
	ledgerPkg "github.com/sharetours/booking-service/internal/ledger"
	"github.com/sharetours/booking-service/internal/pricing"
)

// UseCase acquires a seat hold and creates a HELD booking with the price
// locked in. This is the write side of the booking transaction manager:
// the bounded optimistic retry loop here is the only place contention on
// a tour instance is resolved.
type UseCase struct {
	tours        TourRepository
	bookings     BookingRepository
	ledger       Ledger
	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics // may be nil

	holdWindow  time.Duration
	maxAttempts int
}

// NewUseCase creates the request-booking use case
func NewUseCase(
	tours TourRepository,
	bookings BookingRepository,
	ledger Ledger,
	logger Logger,
	metrics Metrics,
	holdWindow time.Duration,
	maxAttempts int,
) *UseCase {
	if holdWindow <= 0 {
		holdWindow = domain.DefaultHoldWindow
	}
	if maxAttempts <= 0 {
		maxAttempts = domain.DefaultMaxHoldAttempts
	}
	return &UseCase{
		tours:        tours,
		bookings:     bookings,
		ledger:       ledger,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		metrics:      metrics,
		holdWindow:   holdWindow,
		maxAttempts:  maxAttempts,
	}
}

// SetTimeProvider overrides the time source, used in tests
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute runs the booking request.
// The buyer pays the price visible at the time of commitment: the curve is
// evaluated at the confirmed count read *before* this booking is added.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestBooking: user=%s, instance=%d, participants=%d",
		req.UserID, req.TourInstanceID, req.ParticipantCount)

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	instance, err := uc.tours.GetInstance(ctx, req.TourInstanceID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrInstanceNotFound) {
			uc.logger.Warn("RequestBooking: instance id=%d not found", req.TourInstanceID)
			return nil, ErrInstanceNotFound
		}
		uc.logger.Error("RequestBooking: failed to get instance id=%d: %v", req.TourInstanceID, err)
		return nil, fmt.Errorf("%w: failed to get instance: %v", ErrInternal, err)
	}

	if !instance.IsOpen() {
		if instance.Status == domain.InstanceClosedFull {
			uc.countOutcome("sold_out")
			return nil, &SoldOutError{SpotsLeft: 0, Requested: req.ParticipantCount}
		}
		uc.logger.Warn("RequestBooking: instance id=%d is %s", instance.ID, instance.Status)
		return nil, ErrInstanceNotOpen
	}

	template, err := uc.tours.GetTemplate(ctx, instance.TemplateID)
	if err != nil {
		uc.logger.Error("RequestBooking: failed to get template id=%d: %v", instance.TemplateID, err)
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrInternal, err)
	}

	earlyBird := instance.IsEarlyBird(template, now)

	var pwywPrice int64
	if template.PayWhatYouWant {
		pwywPrice, err = resolvePWYWPrice(template, req)
		if err != nil {
			uc.logger.Warn("RequestBooking: pay-what-you-want validation failed: %v", err)
			return nil, err
		}
	}

	token, pricePerPerson, err := uc.acquireHold(req, template, earlyBird, pwywPrice)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:                   uuid.New(),
		TourInstanceID:       req.TourInstanceID,
		UserID:               req.UserID,
		ParticipantCount:     req.ParticipantCount,
		Currency:             template.Currency,
		PricePerPerson:       pricePerPerson,
		TotalPrice:           pricePerPerson * int64(req.ParticipantCount),
		Status:               domain.StatusHeld,
		HoldToken:            token.ID,
		ConfirmationDeadline: now.Add(uc.holdWindow),
	}

	created, err := uc.bookings.Create(ctx, booking)
	if err != nil {
		// the hold must not outlive a booking we failed to record
		_ = uc.ledger.Release(token.ID)
		uc.logger.Error("RequestBooking: failed to persist booking: %v", err)
		uc.countOutcome("error")
		return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
	}

	snap, err := uc.ledger.Snapshot(req.TourInstanceID)
	if err != nil {
		uc.logger.Error("RequestBooking: failed to read post-hold snapshot: %v", err)
		return nil, fmt.Errorf("%w: failed to read ledger: %v", ErrInternal, err)
	}
	progress, err := pricing.ProgressPercentage(snap.ConfirmedCount, snap.MaxGroup)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.AddActiveHolds(req.ParticipantCount)
	}
	uc.countOutcome("held")

	uc.logger.Info("RequestBooking: booking id=%s held, instance=%d, price=%d, deadline=%s",
		created.ID, created.TourInstanceID, created.PricePerPerson,
		created.ConfirmationDeadline.Format(time.RFC3339))

	return &Response{
		ID:                   created.ID,
		TourInstanceID:       created.TourInstanceID,
		UserID:               created.UserID,
		ParticipantCount:     created.ParticipantCount,
		Currency:             created.Currency,
		PricePerPerson:       created.PricePerPerson,
		TotalPrice:           created.TotalPrice,
		Status:               string(created.Status),
		ConfirmationDeadline: created.ConfirmationDeadline,
		CreatedAt:            created.CreatedAt,
		SpotsLeft:            snap.SpotsLeft(),
		ProgressPct:          progress,
	}, nil
}

// acquireHold runs the bounded optimistic-concurrency loop: read a ledger
// snapshot, price the booking at the pre-booking confirmed count, then try
// the version-checked hold. Version conflicts retry with a fresh read;
// capacity exhaustion fails fast.
func (uc *UseCase) acquireHold(
	req *Request,
	template *domain.TourTemplate,
	earlyBird bool,
	pwywPrice int64,
) (ledgerPkg.HoldToken, int64, error) {
	for attempt := 1; attempt <= uc.maxAttempts; attempt++ {
		snap, err := uc.ledger.Snapshot(req.TourInstanceID)
		if err != nil {
			if errors.Is(err, ledgerPkg.ErrInstanceNotFound) {
				return ledgerPkg.HoldToken{}, 0, ErrInstanceNotFound
			}
			return ledgerPkg.HoldToken{}, 0, fmt.Errorf("%w: failed to read ledger: %v", ErrInternal, err)
		}

		if snap.SpotsLeft() < req.ParticipantCount {
			uc.logger.Warn("RequestBooking: sold out, instance=%d, left=%d, requested=%d",
				req.TourInstanceID, snap.SpotsLeft(), req.ParticipantCount)
			uc.countOutcome("sold_out")
			return ledgerPkg.HoldToken{}, 0, &SoldOutError{SpotsLeft: snap.SpotsLeft(), Requested: req.ParticipantCount}
		}

		pricePerPerson := pwywPrice
		if !template.PayWhatYouWant {
			pricePerPerson, err = pricing.PriceWithEarlyBird(template, snap.ConfirmedCount, earlyBird)
			if err != nil {
				return ledgerPkg.HoldToken{}, 0, fmt.Errorf("%w: %v", ErrInternal, err)
			}
		}

		token, err := uc.ledger.TryHold(req.TourInstanceID, req.ParticipantCount, snap.Version, uc.holdWindow)
		if err == nil {
			return token, pricePerPerson, nil
		}

		switch {
		case errors.Is(err, ledgerPkg.ErrVersionConflict):
			uc.logger.Info("RequestBooking: version conflict, instance=%d, attempt=%d/%d",
				req.TourInstanceID, attempt, uc.maxAttempts)
			if uc.metrics != nil {
				uc.metrics.IncHoldRetry()
			}
			continue

		case errors.Is(err, ledgerPkg.ErrCapacityExceeded):
			// re-read for the accurate remaining capacity
			left := 0
			if fresh, snapErr := uc.ledger.Snapshot(req.TourInstanceID); snapErr == nil {
				left = fresh.SpotsLeft()
			}
			uc.countOutcome("sold_out")
			return ledgerPkg.HoldToken{}, 0, &SoldOutError{SpotsLeft: left, Requested: req.ParticipantCount}

		default:
			return ledgerPkg.HoldToken{}, 0, fmt.Errorf("%w: hold failed: %v", ErrInternal, err)
		}
	}

	uc.logger.Warn("RequestBooking: retry budget exhausted, instance=%d", req.TourInstanceID)
	uc.countOutcome("contention")
	return ledgerPkg.HoldToken{}, 0, ErrContention
}

func (uc *UseCase) countOutcome(outcome string) {
	if uc.metrics != nil {
		uc.metrics.IncBookingOutcome(outcome)
	}
}
