package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sharetours/booking-service/internal/api/handlers"
	"github.com/sharetours/booking-service/internal/api/middleware"
	cancelBooking "github.com/sharetours/booking-service/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID = "invalid booking id"
	msgBookingNotFound  = "booking not found"
	msgNotOwner         = "booking belongs to another user"
	msgAlreadyFinal     = "booking is already cancelled or expired"
	msgInvalidCancel    = "invalid cancellation request"
)

type Handler struct {
	useCase CancelBookingUseCase
	logger  Logger
}

func NewHandler(useCase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{id}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	bookingID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking id: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &cancelBooking.Request{
		BookingID: bookingID,
		UserID:    userID,
	})
	if err != nil {
		switch {
		case errors.Is(err, cancelBooking.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Not found: booking_id=%s", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, cancelBooking.ErrNotOwner):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Forbidden: booking_id=%s, user=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgNotOwner)

		case errors.Is(err, cancelBooking.ErrAlreadyFinal):
			handlers.RespondConflict(w, msgAlreadyFinal)

		case errors.Is(err, cancelBooking.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidCancel)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Cancelled: booking_id=%s, seats_returned=%t",
		bookingID, result.SeatsReturned)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
