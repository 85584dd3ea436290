package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/stawicover/agency-api/internal/middleware"
	"github.com/stawicover/agency-api/internal/payment/daraja"
	"github.com/stawicover/agency-api/internal/payment/domain"
	"github.com/stawicover/agency-api/internal/payment/usecase/command"
	"github.com/stawicover/agency-api/internal/payment/usecase/query"
	"github.com/stawicover/agency-api/kafka"
	"github.com/stawicover/agency-api/pkg/logger"
	"github.com/stawicover/agency-api/pkg/response"
)

var (
	stkPushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpesa_stk_pushes_total",
			Help: "STK push initiations by outcome",
		},
		[]string{"outcome"},
	)

	callbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mpesa_callbacks_total",
			Help: "Provider callbacks by result",
		},
		[]string{"result"},
	)
)

// PaymentHandler handles HTTP requests for the M-Pesa payment flow.
type PaymentHandler struct {
	initiateHandler *command.InitiateSTKPushHandler
	callbackHandler *command.ProcessCallbackHandler

	statusHandler *query.QueryStatusHandler
	getByCheckout *query.GetByCheckoutHandler
	getHandler    *query.GetPaymentHandler
	listHandler   *query.ListPaymentsHandler

	repo           domain.PaymentRepository
	kafkaPublisher *kafka.Publisher
}

// NewPaymentHandler creates a new payment handler (manual DI).
func NewPaymentHandler(repo domain.PaymentRepository, client *daraja.Client, publisher *kafka.Publisher) *PaymentHandler {
	return &PaymentHandler{
		initiateHandler: command.NewInitiateSTKPushHandler(repo, client),
		callbackHandler: command.NewProcessCallbackHandler(repo),
		statusHandler:   query.NewQueryStatusHandler(client),
		getByCheckout:   query.NewGetByCheckoutHandler(repo),
		getHandler:      query.NewGetPaymentHandler(repo),
		listHandler:     query.NewListPaymentsHandler(repo),
		repo:            repo,
		kafkaPublisher:  publisher,
	}
}

// NewPaymentHandlerWithDI creates a new payment handler using dependency injection.
func NewPaymentHandlerWithDI(
	initiateHandler *command.InitiateSTKPushHandler,
	callbackHandler *command.ProcessCallbackHandler,
	statusHandler *query.QueryStatusHandler,
	getByCheckout *query.GetByCheckoutHandler,
	getHandler *query.GetPaymentHandler,
	listHandler *query.ListPaymentsHandler,
	repo domain.PaymentRepository,
	kafkaPublisher *kafka.Publisher,
) *PaymentHandler {
	return &PaymentHandler{
		initiateHandler: initiateHandler,
		callbackHandler: callbackHandler,
		statusHandler:   statusHandler,
		getByCheckout:   getByCheckout,
		getHandler:      getHandler,
		listHandler:     listHandler,
		repo:            repo,
		kafkaPublisher:  kafkaPublisher,
	}
}

func envelope(res domain.Result) response.Envelope {
	return response.Envelope{
		Success: res.Success,
		Message: res.Message,
		Data:    res.Data,
		Error:   res.ErrorDetail,
	}
}

// InitiateSTKPush handles POST /api/payments/mpesa/stkpush
func (h *PaymentHandler) InitiateSTKPush(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PhoneNumber      string  `json:"phoneNumber"`
		Amount           float64 `json:"amount"`
		AccountReference string  `json:"accountReference"`
		TransactionDesc  string  `json:"transactionDesc"`
		UserID           uint    `json:"userId"`
		ConsultationID   uint    `json:"consultationId"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	// An authenticated caller overrides whatever user id the body claims.
	if userID, ok := middleware.UserID(r.Context()); ok {
		req.UserID = userID
	}

	res := h.initiateHandler.Handle(r.Context(), command.InitiateSTKPushCommand{
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: req.AccountReference,
		TransactionDesc:  req.TransactionDesc,
		UserID:           req.UserID,
		ConsultationID:   req.ConsultationID,
	})

	if res.Success {
		stkPushesTotal.WithLabelValues("accepted").Inc()
	} else {
		stkPushesTotal.WithLabelValues("rejected").Inc()
	}

	// The initiator already folded every failure into the result, so the
	// endpoint always answers 200 with the envelope.
	response.JSON(w, http.StatusOK, envelope(res))
}

// Callback handles POST /api/payments/mpesa/callback
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var env daraja.CallbackEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		// The provider expects a 200-style acknowledgment even for bodies we
		// cannot read, or it keeps retrying.
		logger.Error(r.Context()).Err(err).Msg("Unreadable callback body")
		response.JSON(w, http.StatusOK, response.Envelope{Success: false, Message: "Invalid callback body"})
		return
	}

	cb := env.Body.StkCallback
	res := h.callbackHandler.Handle(r.Context(), cb)

	if res.Success {
		// Only a callback that actually transitioned the payment carries it
		// in the result data; repeat deliveries for finalized payments count
		// separately so they cannot inflate the outcome labels.
		if payment, ok := res.Data.(*domain.Payment); ok {
			if payment.Status == domain.StatusCompleted {
				callbacksTotal.WithLabelValues("completed").Inc()
			} else {
				callbacksTotal.WithLabelValues("failed").Inc()
			}
			h.publishResult(r, cb, res)
		} else {
			callbacksTotal.WithLabelValues("duplicate").Inc()
		}
	} else {
		callbacksTotal.WithLabelValues("unmatched").Inc()
	}

	response.JSON(w, http.StatusOK, response.Envelope{Success: res.Success, Message: res.Message})
}

func (h *PaymentHandler) publishResult(r *http.Request, cb daraja.StkCallback, res domain.Result) {
	if h.kafkaPublisher == nil {
		return
	}

	payment, ok := res.Data.(*domain.Payment)
	if !ok || !domain.IsTerminal(payment.Status) {
		return
	}

	eventType := kafka.EventTypePaymentCompleted
	if payment.Status == domain.StatusFailed {
		eventType = kafka.EventTypePaymentFailed
	}

	event := kafka.PaymentResultEvent{
		PaymentID:      payment.ID,
		Reference:      payment.Reference,
		UserID:         payment.UserID,
		ConsultationID: payment.ConsultationID,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		PaymentMethod:  payment.PaymentMethod,
		ReceiptNumber:  payment.TransactionID,
		ResultDesc:     cb.ResultDesc,
	}

	// Publish failures only get logged; the provider still gets its ack.
	if err := h.kafkaPublisher.PublishPaymentResult(r.Context(), eventType, event); err != nil {
		logger.Error(r.Context()).Err(err).
			Str("reference", payment.Reference).
			Msg("Failed to publish payment event")
	}
}

// Timeout handles POST /api/payments/mpesa/timeout
func (h *PaymentHandler) Timeout(w http.ResponseWriter, r *http.Request) {
	// Accepted and acknowledged without processing.
	logger.Info(r.Context()).Msg("STK timeout notification received")
	response.JSON(w, http.StatusOK, response.Envelope{Success: true, Message: "Timeout notification received"})
}

// QueryStatus handles GET /api/payments/mpesa/status/{checkoutRequestId}
func (h *PaymentHandler) QueryStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res := h.statusHandler.Handle(r.Context(), vars["checkoutRequestId"])
	response.JSON(w, http.StatusOK, envelope(res))
}

// GetByCheckoutRequestID handles GET /api/payments/mpesa/payment/{checkoutRequestId}
func (h *PaymentHandler) GetByCheckoutRequestID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	payment, err := h.getByCheckout.Handle(vars["checkoutRequestId"])
	if err != nil || payment == nil {
		response.JSON(w, http.StatusOK, response.Envelope{Success: false, Message: "Payment record not found"})
		return
	}

	response.OK(w, "", payment)
}

// GetPayment handles GET /api/payments/{id}
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid payment ID", "")
		return
	}

	payment, err := h.getHandler.Handle(query.GetPaymentQuery{ID: uint(id)})
	if err != nil {
		response.Fail(w, http.StatusNotFound, "Payment not found", "")
		return
	}

	response.OK(w, "", payment)
}

// ListPayments handles GET /api/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	payments, err := h.listHandler.Handle(query.ListPaymentsQuery{Limit: limit, Offset: offset})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list payments")
		response.Fail(w, http.StatusInternalServerError, "Failed to list payments", "")
		return
	}

	response.OK(w, "", map[string]interface{}{
		"payments": payments,
		"total":    len(payments),
	})
}

// UpdatePaymentStatus handles PATCH /api/payments/{id}/status
func (h *PaymentHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid payment ID", "")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Fail(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	switch req.Status {
	case domain.StatusPending, domain.StatusCompleted, domain.StatusFailed, domain.StatusRefunded:
	default:
		response.Fail(w, http.StatusBadRequest, "Invalid payment status", "")
		return
	}

	if err := h.repo.UpdateStatus(uint(id), req.Status); err != nil {
		response.Fail(w, http.StatusNotFound, "Payment not found", "")
		return
	}

	logger.Info(r.Context()).Uint64("payment_id", id).Str("status", req.Status).Msg("Payment status overridden")
	response.OK(w, "Payment status updated", nil)
}

// RegisterRoutes registers all payment routes
func (h *PaymentHandler) RegisterRoutes(router *mux.Router) {
	// Public payment flow; initiation accepts anonymous callers.
	router.HandleFunc("/api/payments/mpesa/stkpush", middleware.OptionalAuth(h.InitiateSTKPush)).Methods("POST")
	router.HandleFunc("/api/payments/mpesa/callback", h.Callback).Methods("POST")
	router.HandleFunc("/api/payments/mpesa/timeout", h.Timeout).Methods("POST")
	router.HandleFunc("/api/payments/mpesa/status/{checkoutRequestId}", h.QueryStatus).Methods("GET")
	router.HandleFunc("/api/payments/mpesa/payment/{checkoutRequestId}", h.GetByCheckoutRequestID).Methods("GET")

	// Admin routes
	router.HandleFunc("/api/payments", middleware.Admin(h.ListPayments)).Methods("GET")
	router.HandleFunc("/api/payments/{id:[0-9]+}", middleware.Admin(h.GetPayment)).Methods("GET")
	router.HandleFunc("/api/payments/{id:[0-9]+}/status", middleware.Admin(h.UpdatePaymentStatus)).Methods("PATCH")
}

// RegisterHealthCheck registers the health check endpoint.
func (h *PaymentHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			response.Fail(w, http.StatusServiceUnavailable, "Database unavailable", "")
			return
		}
		response.OK(w, "Service is healthy", nil)
	}).Methods("GET")
}
