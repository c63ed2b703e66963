package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
	bookingRepo "github.com/sharetours/booking-service/internal/infra/storage/booking"
	ledgerPkg "github.com/sharetours/booking-service/internal/ledger"
)

// UseCase turns a held booking into a confirmed one: the held seats become
// confirmed in the ledger and the price locked at hold time becomes final.
// A booking whose deadline has passed is expired lazily on this path, so a
// stale hold never converts even if the sweeper has not reached it yet.
type UseCase struct {
	bookings     BookingRepository
	tours        TourRepository
	ledger       Ledger
	txManager    TxManager
	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics // may be nil
}

// NewUseCase creates the confirm-booking use case
func NewUseCase(
	bookings BookingRepository,
	tours TourRepository,
	ledger Ledger,
	txManager TxManager,
	logger Logger,
	metrics Metrics,
) *UseCase {
	return &UseCase{
		bookings:     bookings,
		tours:        tours,
		ledger:       ledger,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		metrics:      metrics,
	}
}

// SetTimeProvider overrides the time source, used in tests
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute confirms the booking
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmBooking: booking=%s, user=%s", req.BookingID, req.UserID)

	if req.BookingID == uuid.Nil {
		return nil, fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	booking, err := uc.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ConfirmBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.UserID != req.UserID {
		uc.logger.Warn("ConfirmBooking: user=%s tried to confirm booking of user=%s", req.UserID, booking.UserID)
		return nil, ErrNotOwner
	}

	switch booking.Status {
	case domain.StatusConfirmed:
		return nil, ErrAlreadyConfirmed
	case domain.StatusCancelled, domain.StatusExpired:
		return nil, ErrNotHeld
	}

	now := uc.timeProvider.Now()
	if booking.HoldExpired(now) {
		return nil, uc.expire(ctx, booking)
	}

	snap, err := uc.ledger.Confirm(booking.HoldToken)
	if err != nil {
		switch {
		case errors.Is(err, ledgerPkg.ErrHoldExpired):
			// the ledger released the seats already; record the expiry
			return nil, uc.expire(ctx, booking)
		case errors.Is(err, ledgerPkg.ErrHoldNotFound):
			uc.logger.Error("ConfirmBooking: hold token %s unknown for booking id=%s", booking.HoldToken, booking.ID)
			return nil, fmt.Errorf("%w: hold token not found", ErrInternal)
		default:
			uc.logger.Error("ConfirmBooking: ledger confirm failed for booking id=%s: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: ledger confirm failed: %v", ErrInternal, err)
		}
	}

	// the booking status and the instance close happen in one transaction
	err = uc.txManager.Do(ctx, func(ctx context.Context) error {
		if err := uc.bookings.MarkConfirmed(ctx, booking.ID, now); err != nil {
			return err
		}
		if snap.IsFull() {
			return uc.tours.UpdateInstanceStatus(ctx, booking.TourInstanceID, domain.InstanceClosedFull)
		}
		return nil
	})
	if err != nil {
		// seats are confirmed in the ledger; surface the inconsistency loudly
		uc.logger.Error("ConfirmBooking: seats confirmed but status update failed for booking id=%s: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking status: %v", ErrInternal, err)
	}

	if snap.IsFull() {
		uc.logger.Info("ConfirmBooking: instance id=%d is full, closed", booking.TourInstanceID)
	}

	if uc.metrics != nil {
		uc.metrics.AddActiveHolds(-booking.ParticipantCount)
		uc.metrics.IncBookingOutcome("confirmed")
	}

	uc.logger.Info("ConfirmBooking: booking id=%s confirmed, instance=%d, spots_left=%d",
		booking.ID, booking.TourInstanceID, snap.SpotsLeft())

	return &Response{
		ID:               booking.ID,
		TourInstanceID:   booking.TourInstanceID,
		UserID:           booking.UserID,
		ParticipantCount: booking.ParticipantCount,
		Currency:         booking.Currency,
		PricePerPerson:   booking.PricePerPerson,
		TotalPrice:       booking.TotalPrice,
		Status:           string(domain.StatusConfirmed),
		ConfirmedAt:      now,
		SpotsLeft:        snap.SpotsLeft(),
		GroupIsFull:      snap.IsFull(),
	}, nil
}

// expire releases the hold's seats and marks the booking expired
func (uc *UseCase) expire(ctx context.Context, booking *domain.Booking) error {
	if err := uc.ledger.Release(booking.HoldToken); err != nil {
		uc.logger.Error("ConfirmBooking: failed to release expired hold for booking id=%s: %v", booking.ID, err)
	}
	if err := uc.bookings.MarkExpired(ctx, booking.ID); err != nil {
		uc.logger.Error("ConfirmBooking: failed to mark booking id=%s expired: %v", booking.ID, err)
		return fmt.Errorf("%w: failed to expire booking: %v", ErrInternal, err)
	}
	if uc.metrics != nil {
		uc.metrics.AddActiveHolds(-booking.ParticipantCount)
		uc.metrics.IncHoldsExpired(1)
		uc.metrics.IncBookingOutcome("expired")
	}
	uc.logger.Info("ConfirmBooking: booking id=%s past deadline, expired", booking.ID)
	return ErrHoldExpired
}
