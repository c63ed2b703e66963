package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sharetours/booking-service/internal/domain"
	bookingRepo "github.com/sharetours/booking-service/internal/infra/storage/booking"
	tourRepo "github.com/sharetours/booking-service/internal/infra/storage/tour"
)

// UseCase cancels a held or confirmed booking. A held booking simply gives
// its seats back. A confirmed booking returns its seats only when the
// cancellation arrives early enough for the template's cancellation policy;
// a late cancellation still cancels the booking but the seats stay counted,
// so the group price other buyers locked in is not disturbed.
//
// Cancelling seats never re-opens a closed instance. A full group that
// loses a member stays closed_full.
type UseCase struct {
	bookings     BookingRepository
	tours        TourRepository
	ledger       Ledger
	timeProvider TimeProvider
	logger       Logger
	metrics      Metrics // may be nil
}

// NewUseCase creates the cancel-booking use case
func NewUseCase(
	bookings BookingRepository,
	tours TourRepository,
	ledger Ledger,
	logger Logger,
	metrics Metrics,
) *UseCase {
	return &UseCase{
		bookings:     bookings,
		tours:        tours,
		ledger:       ledger,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
		metrics:      metrics,
	}
}

// SetTimeProvider overrides the time source, used in tests
func (uc *UseCase) SetTimeProvider(tp TimeProvider) {
	uc.timeProvider = tp
}

// Execute cancels the booking
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%s, user=%s", req.BookingID, req.UserID)

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
		uc.logger.Error("CancelBooking: failed to get booking id=%s: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	if booking.UserID != req.UserID {
		uc.logger.Warn("CancelBooking: user=%s tried to cancel booking of user=%s", req.UserID, booking.UserID)
		return nil, ErrNotOwner
	}

	if !booking.CanBeCancelled() {
		return nil, ErrAlreadyFinal
	}

	now := uc.timeProvider.Now()

	switch booking.Status {
	case domain.StatusHeld:
		return uc.cancelHeld(ctx, booking, now)
	case domain.StatusConfirmed:
		return uc.cancelConfirmed(ctx, booking, now)
	default:
		return nil, ErrAlreadyFinal
	}
}

func (uc *UseCase) cancelHeld(ctx context.Context, booking *domain.Booking, now time.Time) (*Response, error) {
	if err := uc.ledger.Release(booking.HoldToken); err != nil {
		uc.logger.Error("CancelBooking: failed to release hold for booking id=%s: %v", booking.ID, err)
	}

	if err := uc.bookings.MarkCancelled(ctx, booking.ID, domain.StatusHeld, now); err != nil {
		uc.logger.Error("CancelBooking: failed to mark booking id=%s cancelled: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking status: %v", ErrInternal, err)
	}

	if uc.metrics != nil {
		uc.metrics.AddActiveHolds(-booking.ParticipantCount)
		uc.metrics.IncBookingOutcome("cancelled")
	}

	uc.logger.Info("CancelBooking: held booking id=%s cancelled, %d seats released",
		booking.ID, booking.ParticipantCount)

	return &Response{
		ID:             booking.ID,
		TourInstanceID: booking.TourInstanceID,
		Status:         string(domain.StatusCancelled),
		CancelledAt:    now,
		SeatsReturned:  true,
	}, nil
}

func (uc *UseCase) cancelConfirmed(ctx context.Context, booking *domain.Booking, now time.Time) (*Response, error) {
	instance, err := uc.tours.GetInstance(ctx, booking.TourInstanceID)
	if err != nil {
		if errors.Is(err, tourRepo.ErrInstanceNotFound) {
			uc.logger.Error("CancelBooking: instance id=%d missing for booking id=%s", booking.TourInstanceID, booking.ID)
			return nil, fmt.Errorf("%w: instance not found", ErrInternal)
		}
		return nil, fmt.Errorf("%w: failed to get instance: %v", ErrInternal, err)
	}

	template, err := uc.tours.GetTemplate(ctx, instance.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get template: %v", ErrInternal, err)
	}

	notice := time.Duration(template.CancellationPolicy.NoticeHours()) * time.Hour
	seatsReturn := instance.StartTime.Sub(now) >= notice

	if err := uc.bookings.MarkCancelled(ctx, booking.ID, domain.StatusConfirmed, now); err != nil {
		uc.logger.Error("CancelBooking: failed to mark booking id=%s cancelled: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to update booking status: %v", ErrInternal, err)
	}

	if seatsReturn {
		if _, err := uc.ledger.CancelConfirmed(booking.TourInstanceID, booking.ParticipantCount); err != nil {
			uc.logger.Error("CancelBooking: failed to return %d seats for booking id=%s: %v",
				booking.ParticipantCount, booking.ID, err)
		}
	} else {
		uc.logger.Info("CancelBooking: booking id=%s cancelled late, %d seats stay counted",
			booking.ID, booking.ParticipantCount)
	}

	if uc.metrics != nil {
		uc.metrics.IncBookingOutcome("cancelled")
	}

	uc.logger.Info("CancelBooking: confirmed booking id=%s cancelled, seats_returned=%t",
		booking.ID, seatsReturn)

	return &Response{
		ID:             booking.ID,
		TourInstanceID: booking.TourInstanceID,
		Status:         string(domain.StatusCancelled),
		CancelledAt:    now,
		SeatsReturned:  seatsReturn,
	}, nil
}
