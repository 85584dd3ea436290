package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stawicover/agency-api/internal/payment/daraja"
	"github.com/stawicover/agency-api/internal/payment/domain"
	"github.com/stawicover/agency-api/pkg/logger"
)

// InitiateSTKPushCommand carries the inputs of a payment prompt.
type InitiateSTKPushCommand struct {
	PhoneNumber      string
	Amount           float64
	AccountReference string
	TransactionDesc  string
	UserID           uint
	ConsultationID   uint
}

// InitiateSTKPushHandler submits the push to the provider and records the
// pending payment.
type InitiateSTKPushHandler struct {
	repo   domain.PaymentRepository
	client *daraja.Client
}

// NewInitiateSTKPushHandler creates a new initiate handler.
func NewInitiateSTKPushHandler(repo domain.PaymentRepository, client *daraja.Client) *InitiateSTKPushHandler {
	return &InitiateSTKPushHandler{repo: repo, client: client}
}

// GenerateReference builds an externally visible payment reference from a
// timestamp plus a short random suffix.
func GenerateReference(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("PAY-%s-%s", t.UTC().Format("20060102150405"), suffix)
}

// Handle runs the push end to end. It never returns a transport error to its
// caller: every failure mode is folded into the result, since this sits
// directly behind a public endpoint.
func (h *InitiateSTKPushHandler) Handle(ctx context.Context, cmd InitiateSTKPushCommand) domain.Result {
	if cmd.PhoneNumber == "" {
		return domain.Failed("Phone number is required", "")
	}
	if cmd.Amount <= 0 {
		return domain.Failed("Amount must be greater than 0", "")
	}

	resp, err := h.client.STKPush(ctx, daraja.PushRequest{
		Phone:            cmd.PhoneNumber,
		Amount:           cmd.Amount,
		AccountReference: cmd.AccountReference,
		TransactionDesc:  cmd.TransactionDesc,
	})
	if err != nil {
		logger.Error(ctx).Err(err).
			Str("account_reference", cmd.AccountReference).
			Msg("STK push request failed")
		return domain.Failed("Failed to initiate M-Pesa payment", err.Error())
	}

	// A decoded response without both correlation ids cannot be matched to a
	// callback later, so no row is written for it.
	if resp.MerchantRequestID == "" || resp.CheckoutRequestID == "" {
		logger.Warn(ctx).
			Str("response_code", resp.ResponseCode).
			Str("response_description", resp.ResponseDescription).
			Msg("Push response missing correlation ids; nothing recorded")
		return domain.Failed("Failed to initiate M-Pesa payment", resp.ResponseDescription)
	}

	phone := daraja.NormalizePhone(cmd.PhoneNumber)
	now := time.Now()

	// The row is written regardless of the provider's response code so every
	// attempt stays auditable.
	payment := &domain.Payment{
		Reference:         GenerateReference(now),
		UserID:            cmd.UserID,
		ConsultationID:    cmd.ConsultationID,
		Amount:            cmd.Amount,
		Currency:          "KES",
		Status:            domain.StatusPending,
		PaymentMethod:     "mpesa",
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Metadata: domain.Metadata{
			"phoneNumber":      phone,
			"accountReference": cmd.AccountReference,
			"transactionDesc":  cmd.TransactionDesc,
			"issuedAt":         now.UTC().Format(time.RFC3339),
		},
	}

	if err := h.repo.Create(payment); err != nil {
		logger.Error(ctx).Err(err).
			Str("checkout_request_id", resp.CheckoutRequestID).
			Msg("Failed to persist pending payment")
		return domain.Failed("Failed to record payment", err.Error())
	}

	if !resp.Accepted() {
		message := resp.ResponseDescription
		if message == "" {
			message = "Payment request was not accepted"
		}
		return domain.Result{
			Success:     false,
			Message:     message,
			Data:        payment,
			ErrorDetail: resp.ResponseCode,
		}
	}

	logger.Info(ctx).
		Str("reference", payment.Reference).
		Str("checkout_request_id", payment.CheckoutRequestID).
		Float64("amount", payment.Amount).
		Msg("Pending payment recorded")

	return domain.Ok("STK push sent. Check your phone to enter your M-Pesa PIN.", map[string]interface{}{
		"payment":  payment,
		"provider": resp,
	})
}
