package search_tours

import (
	"errors"
	"net/http"
	"time"

	"github.com/sharetours/booking-service/internal/api/handlers"
	searchTours "github.com/sharetours/booking-service/internal/usecase/search_tours"
)

const (
	msgInvalidQuery  = "invalid search parameters"
	msgInvalidFilter = "invalid filter"
)

type Handler struct {
	useCase SearchToursUseCase
	logger  Logger
}

func NewHandler(useCase SearchToursUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/tours/search
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilterSpec(r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /tours/search - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &searchTours.Request{Filter: filter})
	if err != nil {
		switch {
		case errors.Is(err, searchTours.ErrInvalidFilter):
			h.logger.Warn("GET /tours/search - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFilter)

		default:
			h.logger.Error("GET /tours/search - Failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result, time.Now()))
}
