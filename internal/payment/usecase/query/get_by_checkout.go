package query

import (
	"github.com/stawicover/agency-api/internal/payment/domain"
)

// GetByCheckoutHandler looks up the locally stored payment for a checkout
// request id.
type GetByCheckoutHandler struct {
	repo domain.PaymentRepository
}

// NewGetByCheckoutHandler creates a new lookup handler.
func NewGetByCheckoutHandler(repo domain.PaymentRepository) *GetByCheckoutHandler {
	return &GetByCheckoutHandler{repo: repo}
}

// Handle returns the payment, or nil when no row matches.
func (h *GetByCheckoutHandler) Handle(checkoutRequestID string) (*domain.Payment, error) {
	if checkoutRequestID == "" {
		return nil, nil
	}

	payment, err := h.repo.FindByCheckoutRequestID(checkoutRequestID)
	if err != nil {
		return nil, err
	}

	return payment, nil
}
