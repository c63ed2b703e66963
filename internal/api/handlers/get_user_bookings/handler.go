package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sharetours/booking-service/internal/api/handlers"
	"github.com/sharetours/booking-service/internal/api/middleware"
	"github.com/sharetours/booking-service/internal/service/bookings"
	"github.com/sharetours/booking-service/internal/service/bookings/models"
	"github.com/sharetours/booking-service/pkg/ptr"
)

const (
	msgAccessDenied  = "access denied"
	msgInvalidStatus = "invalid status filter"
)

type Handler struct {
	service BookingsService
	logger  Logger
}

func NewHandler(service BookingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{id}/bookings?status=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserID(r.Context())
	pathUserID := mux.Vars(r)["id"]

	// users read only their own history
	if pathUserID != callerID {
		h.logger.Warn("GET /users/{id}/bookings - Forbidden: caller=%s, path=%s", callerID, pathUserID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.GetUserBookingsRequest{UserID: pathUserID}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	result, err := h.service.GetUserBookings(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{id}/bookings - Failed: user=%s, error=%v", pathUserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
