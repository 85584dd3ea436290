package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/stawicover/agency-api/internal/payment/daraja"
	"github.com/stawicover/agency-api/internal/payment/domain"
	"github.com/stawicover/agency-api/pkg/response"
)

type memRepo struct {
	payments []*domain.Payment
	nextID   uint
}

func (m *memRepo) Create(p *domain.Payment) error {
	m.nextID++
	p.ID = m.nextID
	m.payments = append(m.payments, p)
	return nil
}

func (m *memRepo) FindByID(id uint) (*domain.Payment, error) {
	for _, p := range m.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *memRepo) FindByCorrelation(merchantRequestID, checkoutRequestID string) (*domain.Payment, error) {
	if merchantRequestID == "" || checkoutRequestID == "" {
		return nil, fmt.Errorf("record not found")
	}
	for _, p := range m.payments {
		if p.MerchantRequestID == merchantRequestID && p.CheckoutRequestID == checkoutRequestID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *memRepo) FindByCheckoutRequestID(checkoutRequestID string) (*domain.Payment, error) {
	for _, p := range m.payments {
		if p.CheckoutRequestID == checkoutRequestID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *memRepo) FindAll(limit, offset int) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memRepo) Update(p *domain.Payment) error { return nil }

func (m *memRepo) UpdateStatus(id uint, status string) error {
	p, err := m.FindByID(id)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

func fakeProvider(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth/v1/generate"):
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
		case r.URL.Path == "/mpesa/stkpush/v1/processrequest":
			json.NewEncoder(w).Encode(map[string]string{
				"MerchantRequestID":   "7021-98765-1",
				"CheckoutRequestID":   "ws_CO_01092025093000002",
				"ResponseCode":        "0",
				"ResponseDescription": "Success. Request accepted for processing",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func setupRouter(repo domain.PaymentRepository, providerURL string) *mux.Router {
	client := daraja.NewClient(daraja.Config{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/callback",
		BaseURL:        providerURL,
	})

	h := NewPaymentHandler(repo, client, nil)
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env response.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return rr, env
}

func TestSTKPushThenSuccessCallback(t *testing.T) {
	srv := fakeProvider(t)
	defer srv.Close()

	repo := &memRepo{}
	router := setupRouter(repo, srv.URL)

	_, env := doJSON(t, router, http.MethodPost, "/api/payments/mpesa/stkpush", map[string]interface{}{
		"phoneNumber":      "0712345678",
		"amount":           1000,
		"accountReference": "INV-1",
		"transactionDesc":  "Policy payment",
	})
	if !env.Success {
		t.Fatalf("stkpush failed: %q %q", env.Message, env.Error)
	}

	if len(repo.payments) != 1 {
		t.Fatalf("expected 1 payment, got %d", len(repo.payments))
	}
	p := repo.payments[0]
	if p.Status != domain.StatusPending {
		t.Fatalf("status = %q, want PENDING", p.Status)
	}
	if p.Metadata["phoneNumber"] != "254712345678" || p.Metadata["accountReference"] != "INV-1" {
		t.Fatalf("metadata = %v", p.Metadata)
	}

	callback := map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"MerchantRequestID": p.MerchantRequestID,
				"CheckoutRequestID": p.CheckoutRequestID,
				"ResultCode":        0,
				"ResultDesc":        "The service request is processed successfully.",
				"CallbackMetadata": map[string]interface{}{
					"Item": []map[string]interface{}{
						{"Name": "Amount", "Value": 1000},
						{"Name": "MpesaReceiptNumber", "Value": "ABC123"},
					},
				},
			},
		},
	}

	rr, env := doJSON(t, router, http.MethodPost, "/api/payments/mpesa/callback", callback)
	if rr.Code != http.StatusOK {
		t.Fatalf("callback status = %d, want 200", rr.Code)
	}
	if !env.Success {
		t.Fatalf("callback result: %q", env.Message)
	}

	if p.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want COMPLETED", p.Status)
	}
	if p.Metadata["mpesaReceiptNumber"] != "ABC123" {
		t.Errorf("mpesaReceiptNumber = %v", p.Metadata["mpesaReceiptNumber"])
	}
}

func TestSTKPushThenFailureCallback(t *testing.T) {
	srv := fakeProvider(t)
	defer srv.Close()

	repo := &memRepo{}
	router := setupRouter(repo, srv.URL)

	doJSON(t, router, http.MethodPost, "/api/payments/mpesa/stkpush", map[string]interface{}{
		"phoneNumber": "0712345678",
		"amount":      1000,
	})
	p := repo.payments[0]

	callback := map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"MerchantRequestID": p.MerchantRequestID,
				"CheckoutRequestID": p.CheckoutRequestID,
				"ResultCode":        1703,
				"ResultDesc":        "Insufficient funds",
			},
		},
	}

	_, env := doJSON(t, router, http.MethodPost, "/api/payments/mpesa/callback", callback)
	if !env.Success {
		t.Fatalf("callback result: %q", env.Message)
	}

	if p.Status != domain.StatusFailed {
		t.Errorf("status = %q, want FAILED", p.Status)
	}
	if p.Metadata["resultDesc"] != "Insufficient funds" {
		t.Errorf("resultDesc = %v", p.Metadata["resultDesc"])
	}
}

func TestCallbackUnknownCorrelationAcknowledged(t *testing.T) {
	repo := &memRepo{}
	router := setupRouter(repo, "http://127.0.0.1:1")

	callback := map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"MerchantRequestID": "unknown",
				"CheckoutRequestID": "unknown",
				"ResultCode":        0,
			},
		},
	}

	rr, env := doJSON(t, router, http.MethodPost, "/api/payments/mpesa/callback", callback)
	if rr.Code != http.StatusOK {
		t.Errorf("provider must get a 200 acknowledgment, got %d", rr.Code)
	}
	if env.Success {
		t.Error("unmatched callback must report success=false")
	}
	if env.Message != "Payment record not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestTimeoutAcknowledged(t *testing.T) {
	repo := &memRepo{}
	router := setupRouter(repo, "http://127.0.0.1:1")

	rr, env := doJSON(t, router, http.MethodPost, "/api/payments/mpesa/timeout", map[string]string{})
	if rr.Code != http.StatusOK || !env.Success {
		t.Errorf("timeout must be acknowledged, got %d %v", rr.Code, env.Success)
	}
}

func TestGetByCheckoutRequestID(t *testing.T) {
	repo := &memRepo{}
	repo.Create(&domain.Payment{
		Reference:         "PAY-1",
		CheckoutRequestID: "ws_CO_X",
		MerchantRequestID: "m-1",
		Status:            domain.StatusPending,
	})
	router := setupRouter(repo, "http://127.0.0.1:1")

	_, env := doJSON(t, router, http.MethodGet, "/api/payments/mpesa/payment/ws_CO_X", nil)
	if !env.Success {
		t.Errorf("expected stored payment, got %q", env.Message)
	}

	_, env = doJSON(t, router, http.MethodGet, "/api/payments/mpesa/payment/missing", nil)
	if env.Success {
		t.Error("missing payment must report success=false")
	}
	if env.Message != "Payment record not found" {
		t.Errorf("message = %q", env.Message)
	}
}

// rejectingProvider answers pushes with an HTTP 400 error body instead of a
// decoded response.
func rejectingProvider(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth/v1/generate"):
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
		case r.URL.Path == "/mpesa/stkpush/v1/processrequest":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"requestId":"92643-47073138-2","errorCode":"400.002.02","errorMessage":"Bad Request - Invalid Amount"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestRejectedPushLeavesNoRecord(t *testing.T) {
	srv := rejectingProvider(t)
	defer srv.Close()

	repo := &memRepo{}
	router := setupRouter(repo, srv.URL)

	rr, env := doJSON(t, router, http.MethodPost, "/api/payments/mpesa/stkpush", map[string]interface{}{
		"phoneNumber": "0712345678",
		"amount":      1000,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("stkpush status = %d, want 200", rr.Code)
	}
	if env.Success {
		t.Fatal("rejected push must report success=false")
	}

	if len(repo.payments) != 0 {
		t.Fatalf("expected no payments for a rejected push, got %d", len(repo.payments))
	}

	// With nothing recorded there is no row a blank-id callback could claim.
	callback := map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"MerchantRequestID": "",
				"CheckoutRequestID": "",
				"ResultCode":        0,
				"ResultDesc":        "The service request is processed successfully.",
			},
		},
	}
	_, env = doJSON(t, router, http.MethodPost, "/api/payments/mpesa/callback", callback)
	if env.Success {
		t.Error("blank-id callback must report success=false")
	}
	if env.Message != "Payment record not found" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestBlankCorrelationCallbackCannotClaimPending(t *testing.T) {
	repo := &memRepo{}
	repo.Create(&domain.Payment{
		Reference:         "PAY-2",
		MerchantRequestID: "7021-98765-1",
		CheckoutRequestID: "ws_CO_01092025093000002",
		Status:            domain.StatusPending,
	})
	router := setupRouter(repo, "http://127.0.0.1:1")

	callback := map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"MerchantRequestID": "",
				"CheckoutRequestID": "",
				"ResultCode":        0,
			},
		},
	}

	_, env := doJSON(t, router, http.MethodPost, "/api/payments/mpesa/callback", callback)
	if env.Success {
		t.Error("blank-id callback must report success=false")
	}
	if got := repo.payments[0].Status; got != domain.StatusPending {
		t.Errorf("status = %q, want PENDING", got)
	}
}

func TestDuplicateCallbackCountedSeparately(t *testing.T) {
	srv := fakeProvider(t)
	defer srv.Close()

	repo := &memRepo{}
	router := setupRouter(repo, srv.URL)

	doJSON(t, router, http.MethodPost, "/api/payments/mpesa/stkpush", map[string]interface{}{
		"phoneNumber": "0712345678",
		"amount":      1000,
	})
	p := repo.payments[0]

	callback := map[string]interface{}{
		"Body": map[string]interface{}{
			"stkCallback": map[string]interface{}{
				"MerchantRequestID": p.MerchantRequestID,
				"CheckoutRequestID": p.CheckoutRequestID,
				"ResultCode":        0,
				"ResultDesc":        "The service request is processed successfully.",
			},
		},
	}

	completedBefore := testutil.ToFloat64(callbacksTotal.WithLabelValues("completed"))
	duplicateBefore := testutil.ToFloat64(callbacksTotal.WithLabelValues("duplicate"))

	doJSON(t, router, http.MethodPost, "/api/payments/mpesa/callback", callback)
	if p.Status != domain.StatusCompleted {
		t.Fatalf("status = %q, want COMPLETED", p.Status)
	}

	_, env := doJSON(t, router, http.MethodPost, "/api/payments/mpesa/callback", callback)
	if !env.Success {
		t.Fatalf("duplicate must still be acknowledged, got %q", env.Message)
	}

	if got := testutil.ToFloat64(callbacksTotal.WithLabelValues("completed")) - completedBefore; got != 1 {
		t.Errorf("completed delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(callbacksTotal.WithLabelValues("duplicate")) - duplicateBefore; got != 1 {
		t.Errorf("duplicate delta = %v, want 1", got)
	}
}
