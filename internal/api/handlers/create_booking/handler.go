package create_booking

import (
	"errors"
	"net/http"

	"github.com/sharetours/booking-service/internal/api/handlers"
	"github.com/sharetours/booking-service/internal/api/middleware"
	requestBooking "github.com/sharetours/booking-service/internal/usecase/request_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidInput       = "invalid booking request"
	msgInstanceNotFound   = "tour instance not found"
	msgInstanceNotOpen    = "tour instance no longer accepts bookings"
	msgSoldOut            = "not enough spots left"
	msgContention         = "booking is busy, please retry"
	msgPriceRequired      = "price is required for pay-what-you-want tours"
	msgPriceBelowMinimum  = "offered price is below the minimum"
)

type Handler struct {
	useCase RequestBookingUseCase
	logger  Logger
}

func NewHandler(useCase RequestBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		var soldOut *requestBooking.SoldOutError

		switch {
		case errors.As(err, &soldOut):
			h.logger.Warn("POST /bookings - Sold out: instance=%d, left=%d, requested=%d",
				req.TourInstanceID, soldOut.SpotsLeft, soldOut.Requested)
			handlers.RespondJSON(w, http.StatusConflict, SoldOutResponse{
				Message:   msgSoldOut,
				SpotsLeft: soldOut.SpotsLeft,
				Requested: soldOut.Requested,
			})

		case errors.Is(err, requestBooking.ErrSoldOut):
			h.logger.Warn("POST /bookings - Sold out: instance=%d", req.TourInstanceID)
			handlers.RespondConflict(w, msgSoldOut)

		case errors.Is(err, requestBooking.ErrContention):
			h.logger.Warn("POST /bookings - Contention: instance=%d, user=%s", req.TourInstanceID, userID)
			handlers.RespondConflict(w, msgContention)

		case errors.Is(err, requestBooking.ErrInstanceNotFound):
			h.logger.Warn("POST /bookings - Instance not found: instance=%d", req.TourInstanceID)
			handlers.RespondNotFound(w, msgInstanceNotFound)

		case errors.Is(err, requestBooking.ErrInstanceNotOpen):
			h.logger.Warn("POST /bookings - Instance not open: instance=%d", req.TourInstanceID)
			handlers.RespondConflict(w, msgInstanceNotOpen)

		case errors.Is(err, requestBooking.ErrPriceRequired):
			handlers.RespondBadRequest(w, msgPriceRequired)

		case errors.Is(err, requestBooking.ErrPriceBelowMinimum):
			handlers.RespondBadRequest(w, msgPriceBelowMinimum)

		case errors.Is(err, requestBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: instance=%d, user=%s, error=%v",
				req.TourInstanceID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking held: booking_id=%s, instance=%d, user=%s",
		result.ID, result.TourInstanceID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
