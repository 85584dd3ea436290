package command

import (
	"context"
	"time"

	"github.com/stawicover/agency-api/internal/payment/daraja"
	"github.com/stawicover/agency-api/internal/payment/domain"
	"github.com/stawicover/agency-api/pkg/logger"
)

// ProcessCallbackHandler applies the provider's asynchronous result to the
// matching pending payment.
type ProcessCallbackHandler struct {
	repo domain.PaymentRepository
}

// NewProcessCallbackHandler creates a new callback handler.
func NewProcessCallbackHandler(repo domain.PaymentRepository) *ProcessCallbackHandler {
	return &ProcessCallbackHandler{repo: repo}
}

// Handle transitions the payment to its terminal state. The provider delivers
// callbacks at least once; payments already in a terminal state are left
// untouched so duplicates cannot corrupt the row.
func (h *ProcessCallbackHandler) Handle(ctx context.Context, cb daraja.StkCallback) domain.Result {
	payment, err := h.repo.FindByCorrelation(cb.MerchantRequestID, cb.CheckoutRequestID)
	if err != nil {
		logger.Warn(ctx).
			Str("merchant_request_id", cb.MerchantRequestID).
			Str("checkout_request_id", cb.CheckoutRequestID).
			Msg("Callback for unknown correlation pair")
		return domain.Failed("Payment record not found", "")
	}

	if domain.IsTerminal(payment.Status) {
		logger.Info(ctx).
			Str("reference", payment.Reference).
			Str("status", payment.Status).
			Msg("Duplicate callback ignored; payment already finalized")
		// No payment in the result data: nothing transitioned, so nothing
		// downstream should fire again.
		return domain.Ok("Callback already processed", nil)
	}

	if payment.Metadata == nil {
		payment.Metadata = domain.Metadata{}
	}

	now := time.Now().UTC().Format(time.RFC3339)

	if cb.ResultCode == 0 {
		payment.Status = domain.StatusCompleted

		update := domain.Metadata{
			"resultCode":       cb.ResultCode,
			"resultDesc":       cb.ResultDesc,
			"callbackReceived": true,
			"completedAt":      now,
		}
		if amount, ok := cb.CallbackMetadata.ItemFloat("Amount"); ok {
			update["amount"] = amount
		}
		if receipt := cb.CallbackMetadata.ItemString("MpesaReceiptNumber"); receipt != "" {
			update["mpesaReceiptNumber"] = receipt
			payment.TransactionID = receipt
		}
		if date := cb.CallbackMetadata.ItemString("TransactionDate"); date != "" {
			update["transactionDate"] = date
		}
		if phone := cb.CallbackMetadata.ItemString("PhoneNumber"); phone != "" {
			update["phoneNumber"] = phone
		}
		payment.Metadata.Merge(update)
	} else {
		payment.Status = domain.StatusFailed
		payment.Metadata.Merge(domain.Metadata{
			"resultCode":       cb.ResultCode,
			"resultDesc":       cb.ResultDesc,
			"callbackReceived": true,
			"failedAt":         now,
		})
	}

	if err := h.repo.Update(payment); err != nil {
		logger.Error(ctx).Err(err).
			Str("reference", payment.Reference).
			Msg("Failed to persist callback result")
		return domain.Failed("Failed to update payment", err.Error())
	}

	logger.Info(ctx).
		Str("reference", payment.Reference).
		Str("status", payment.Status).
		Int("result_code", cb.ResultCode).
		Msg("Callback processed")

	return domain.Ok("Callback processed successfully", payment)
}
