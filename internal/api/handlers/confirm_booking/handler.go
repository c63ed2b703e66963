package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sharetours/booking-service/internal/api/handlers"
	"github.com/sharetours/booking-service/internal/api/middleware"
	confirmBooking "github.com/sharetours/booking-service/internal/usecase/confirm_booking"
)

const (
	msgInvalidBookingID    = "invalid booking id"
	msgBookingNotFound     = "booking not found"
	msgNotOwner            = "booking belongs to another user"
	msgAlreadyConfirmed    = "booking is already confirmed"
	msgHoldExpired         = "hold expired, please book again"
	msgNotHeld             = "booking can no longer be confirmed"
	msgInvalidConfirmation = "invalid confirmation request"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{id}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/confirm - Invalid booking id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmBooking.Request{
		BookingID: bookingID,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/confirm - Not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, confirmBooking.ErrNotOwner):
			h.logger.Warn("POST /bookings/{id}/confirm - Forbidden: booking_id=%s, user=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgNotOwner)

		case errors.Is(err, confirmBooking.ErrAlreadyConfirmed):
			handlers.RespondConflict(w, msgAlreadyConfirmed)

		case errors.Is(err, confirmBooking.ErrHoldExpired):
			h.logger.Warn("POST /bookings/{id}/confirm - Hold expired: booking_id=%s", bookingID)
			handlers.RespondError(w, http.StatusGone, msgHoldExpired)

		case errors.Is(err, confirmBooking.ErrNotHeld):
			handlers.RespondConflict(w, msgNotHeld)

		case errors.Is(err, confirmBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidConfirmation)

		default:
			h.logger.Error("POST /bookings/{id}/confirm - Failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/confirm - Confirmed: booking_id=%s, user=%s", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
