package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers the Swagger UI route.
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// InitiateSTKPush godoc
// @Summary Initiate an M-Pesa STK push
// @Description Sends a PIN-entry prompt to the payer's phone and records a pending payment
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body object{phoneNumber=string,amount=number,accountReference=string,transactionDesc=string,userId=int,consultationId=int} true "Payment request"
// @Success 200 {object} response.Envelope
// @Router /api/payments/mpesa/stkpush [post]
func (h *PaymentHandler) InitiateSTKPushDoc() {}

// Callback godoc
// @Summary M-Pesa result callback
// @Description Receives the provider's asynchronous payment result
// @Tags Payments
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/payments/mpesa/callback [post]
func (h *PaymentHandler) CallbackDoc() {}

// QueryStatus godoc
// @Summary Query live transaction status
// @Description Polls the provider for the current state of a checkout request
// @Tags Payments
// @Produce json
// @Param checkoutRequestId path string true "Checkout request ID"
// @Success 200 {object} response.Envelope
// @Router /api/payments/mpesa/status/{checkoutRequestId} [get]
func (h *PaymentHandler) QueryStatusDoc() {}

// GetByCheckoutRequestID godoc
// @Summary Get stored payment by checkout request id
// @Tags Payments
// @Produce json
// @Param checkoutRequestId path string true "Checkout request ID"
// @Success 200 {object} response.Envelope
// @Router /api/payments/mpesa/payment/{checkoutRequestId} [get]
func (h *PaymentHandler) GetByCheckoutRequestIDDoc() {}

// ListPayments godoc
// @Summary List all payments
// @Description Paginated payment list (Admin only)
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Limit"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /api/payments [get]
func (h *PaymentHandler) ListPaymentsDoc() {}
