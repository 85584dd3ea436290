package query

import (
	"context"

	"github.com/stawicover/agency-api/internal/payment/daraja"
	"github.com/stawicover/agency-api/internal/payment/domain"
	"github.com/stawicover/agency-api/pkg/logger"
)

// QueryStatusHandler polls the provider for a transaction's live status.
type QueryStatusHandler struct {
	client *daraja.Client
}

// NewQueryStatusHandler creates a new status query handler.
func NewQueryStatusHandler(client *daraja.Client) *QueryStatusHandler {
	return &QueryStatusHandler{client: client}
}

// Handle returns the provider's status payload verbatim. Failures are folded
// into the result, never raised.
func (h *QueryStatusHandler) Handle(ctx context.Context, checkoutRequestID string) domain.Result {
	if checkoutRequestID == "" {
		return domain.Failed("checkoutRequestId is required", "")
	}

	status, err := h.client.QueryStatus(ctx, checkoutRequestID)
	if err != nil {
		logger.Error(ctx).Err(err).
			Str("checkout_request_id", checkoutRequestID).
			Msg("Status query failed")
		return domain.Failed("Failed to query transaction status", err.Error())
	}

	return domain.Ok("Status retrieved", status)
}
