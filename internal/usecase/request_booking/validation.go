package request_booking

import (
	"fmt"

	"github.com/sharetours/booking-service/internal/domain"
)

// validateRequest checks the request shape before touching any state
func validateRequest(req *Request) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if req.TourInstanceID <= 0 {
		return fmt.Errorf("%w: tourInstanceID must be positive", ErrInvalidInput)
	}
	if req.ParticipantCount <= 0 {
		return fmt.Errorf("%w: participantCount must be positive", ErrInvalidInput)
	}
	if req.ParticipantCount > domain.MaxParticipantsPerBooking {
		return fmt.Errorf("%w: participantCount must not exceed %d", ErrInvalidInput, domain.MaxParticipantsPerBooking)
	}
	return nil
}

// resolvePWYWPrice validates and returns the buyer-chosen per-person price
// for a pay-what-you-want template
func resolvePWYWPrice(t *domain.TourTemplate, req *Request) (int64, error) {
	if req.PayWhatYouWantAmount == nil {
		return 0, ErrPriceRequired
	}
	amount := *req.PayWhatYouWantAmount
	if amount < 0 {
		return 0, fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}
	if amount < t.PWYWMinPrice {
		return 0, fmt.Errorf("%w: minimum is %d", ErrPriceBelowMinimum, t.PWYWMinPrice)
	}
	return amount, nil
}
