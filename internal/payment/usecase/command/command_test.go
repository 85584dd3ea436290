package command

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stawicover/agency-api/internal/payment/daraja"
	"github.com/stawicover/agency-api/internal/payment/domain"
)

// mockPaymentRepo is an in-memory PaymentRepository.
type mockPaymentRepo struct {
	payments  []*domain.Payment
	nextID    uint
	createErr error
	updateErr error
}

func newMockRepo() *mockPaymentRepo {
	return &mockPaymentRepo{nextID: 1}
}

func (m *mockPaymentRepo) Create(p *domain.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	p.ID = m.nextID
	m.nextID++
	p.CreatedAt = time.Now()
	m.payments = append(m.payments, p)
	return nil
}

func (m *mockPaymentRepo) FindByID(id uint) (*domain.Payment, error) {
	for _, p := range m.payments {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *mockPaymentRepo) FindByCorrelation(merchantRequestID, checkoutRequestID string) (*domain.Payment, error) {
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

func (m *mockPaymentRepo) FindByCheckoutRequestID(checkoutRequestID string) (*domain.Payment, error) {
	for _, p := range m.payments {
		if p.CheckoutRequestID == checkoutRequestID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (m *mockPaymentRepo) FindAll(limit, offset int) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range m.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockPaymentRepo) Update(p *domain.Payment) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	return nil
}

func (m *mockPaymentRepo) UpdateStatus(id uint, status string) error {
	p, err := m.FindByID(id)
	if err != nil {
		return err
	}
	p.Status = status
	return nil
}

func fakeDaraja(t *testing.T, responseCode string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth/v1/generate"):
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
		case r.URL.Path == "/mpesa/stkpush/v1/processrequest":
			json.NewEncoder(w).Encode(map[string]string{
				"MerchantRequestID":   "7021-12345-1",
				"CheckoutRequestID":   "ws_CO_01092025120000001",
				"ResponseCode":        responseCode,
				"ResponseDescription": "Request processed",
				"CustomerMessage":     "Check your phone",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testClient(baseURL string) *daraja.Client {
	return daraja.NewClient(daraja.Config{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/callback",
		BaseURL:        baseURL,
	})
}

func TestInitiateSTKPushPersistsPendingPayment(t *testing.T) {
	srv := fakeDaraja(t, "0")
	defer srv.Close()

	repo := newMockRepo()
	h := NewInitiateSTKPushHandler(repo, testClient(srv.URL))

	res := h.Handle(context.Background(), InitiateSTKPushCommand{
		PhoneNumber:      "0712345678",
		Amount:           1000,
		AccountReference: "INV-1",
		TransactionDesc:  "Policy payment",
	})

	if !res.Success {
		t.Fatalf("expected success, got %q / %q", res.Message, res.ErrorDetail)
	}
	if len(repo.payments) != 1 {
		t.Fatalf("expected 1 persisted payment, got %d", len(repo.payments))
	}

	p := repo.payments[0]
	if p.Status != domain.StatusPending {
		t.Errorf("status = %q, want PENDING", p.Status)
	}
	if p.Currency != "KES" || p.PaymentMethod != "mpesa" {
		t.Errorf("currency/method = %q/%q", p.Currency, p.PaymentMethod)
	}
	if p.MerchantRequestID == "" || p.CheckoutRequestID == "" {
		t.Error("correlation pair must be set before persist")
	}
	if p.Metadata["phoneNumber"] != "254712345678" {
		t.Errorf("metadata phoneNumber = %v", p.Metadata["phoneNumber"])
	}
	if p.Metadata["accountReference"] != "INV-1" {
		t.Errorf("metadata accountReference = %v", p.Metadata["accountReference"])
	}
	if p.Reference == "" {
		t.Error("reference must be generated")
	}
}

func TestInitiateSTKPushPersistsOnProviderRejection(t *testing.T) {
	srv := fakeDaraja(t, "1")
	defer srv.Close()

	repo := newMockRepo()
	h := NewInitiateSTKPushHandler(repo, testClient(srv.URL))

	res := h.Handle(context.Background(), InitiateSTKPushCommand{
		PhoneNumber: "0712345678",
		Amount:      50,
	})

	if res.Success {
		t.Error("expected failure result for non-zero response code")
	}
	// The row is still written so the attempt stays auditable.
	if len(repo.payments) != 1 {
		t.Fatalf("expected 1 persisted payment, got %d", len(repo.payments))
	}
	if repo.payments[0].Status != domain.StatusPending {
		t.Errorf("status = %q, want PENDING", repo.payments[0].Status)
	}
}

func TestInitiateSTKPushHTTPRejectionPersistsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
	defer srv.Close()

	repo := newMockRepo()
	h := NewInitiateSTKPushHandler(repo, testClient(srv.URL))

	res := h.Handle(context.Background(), InitiateSTKPushCommand{
		PhoneNumber: "0712345678",
		Amount:      50,
	})

	if res.Success {
		t.Error("expected failure result for an HTTP-rejected push")
	}
	if len(repo.payments) != 0 {
		t.Fatalf("expected no persisted payment, got %d", len(repo.payments))
	}
}

func TestInitiateSTKPushMissingCorrelationIDsPersistsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth/v1/generate"):
			json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
		case r.URL.Path == "/mpesa/stkpush/v1/processrequest":
			json.NewEncoder(w).Encode(map[string]string{
				"ResponseCode":        "0",
				"ResponseDescription": "Request processed",
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	repo := newMockRepo()
	h := NewInitiateSTKPushHandler(repo, testClient(srv.URL))

	res := h.Handle(context.Background(), InitiateSTKPushCommand{
		PhoneNumber: "0712345678",
		Amount:      50,
	})

	if res.Success {
		t.Error("expected failure result when correlation ids are missing")
	}
	if len(repo.payments) != 0 {
		t.Fatalf("expected no persisted payment, got %d", len(repo.payments))
	}
}

func TestInitiateSTKPushTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	repo := newMockRepo()
	h := NewInitiateSTKPushHandler(repo, testClient(srv.URL))

	res := h.Handle(context.Background(), InitiateSTKPushCommand{PhoneNumber: "0712345678", Amount: 100})

	if res.Success {
		t.Error("expected failure when token fetch is rejected")
	}
	if len(repo.payments) != 0 {
		t.Error("no payment row should exist without provider correlation ids")
	}
}

func TestInitiateSTKPushValidation(t *testing.T) {
	repo := newMockRepo()
	h := NewInitiateSTKPushHandler(repo, testClient("http://127.0.0.1:1"))

	if res := h.Handle(context.Background(), InitiateSTKPushCommand{Amount: 100}); res.Success {
		t.Error("missing phone must fail")
	}
	if res := h.Handle(context.Background(), InitiateSTKPushCommand{PhoneNumber: "0712345678"}); res.Success {
		t.Error("zero amount must fail")
	}
}

func TestGenerateReferenceUniqueness(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := GenerateReference(now)
		if seen[ref] {
			t.Fatalf("duplicate reference within the same instant: %s", ref)
		}
		seen[ref] = true
	}
}

func pendingPayment(repo *mockPaymentRepo) *domain.Payment {
	p := &domain.Payment{
		Reference:         "PAY-20250901-ABC123",
		Amount:            1000,
		Currency:          "KES",
		Status:            domain.StatusPending,
		PaymentMethod:     "mpesa",
		MerchantRequestID: "7021-12345-1",
		CheckoutRequestID: "ws_CO_01092025120000001",
		Metadata: domain.Metadata{
			"phoneNumber":      "254712345678",
			"accountReference": "INV-1",
		},
	}
	repo.Create(p)
	return p
}

func successCallback() daraja.StkCallback {
	raw := `{
		"MerchantRequestID": "7021-12345-1",
		"CheckoutRequestID": "ws_CO_01092025120000001",
		"ResultCode": 0,
		"ResultDesc": "The service request is processed successfully.",
		"CallbackMetadata": {
			"Item": [
				{"Name": "Amount", "Value": 1000},
				{"Name": "MpesaReceiptNumber", "Value": "ABC123"},
				{"Name": "TransactionDate", "Value": 20250901120130},
				{"Name": "PhoneNumber", "Value": 254700000000}
			]
		}
	}`
	var cb daraja.StkCallback
	json.Unmarshal([]byte(raw), &cb)
	return cb
}

func TestProcessCallbackCompletes(t *testing.T) {
	repo := newMockRepo()
	p := pendingPayment(repo)

	h := NewProcessCallbackHandler(repo)
	res := h.Handle(context.Background(), successCallback())

	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if p.Status != domain.StatusCompleted {
		t.Errorf("status = %q, want COMPLETED", p.Status)
	}
	if p.Metadata["mpesaReceiptNumber"] != "ABC123" {
		t.Errorf("mpesaReceiptNumber = %v", p.Metadata["mpesaReceiptNumber"])
	}
	if p.TransactionID != "ABC123" {
		t.Errorf("transaction id = %q", p.TransactionID)
	}
	// Pre-existing keys survive the merge.
	if p.Metadata["accountReference"] != "INV-1" {
		t.Errorf("accountReference lost in merge: %v", p.Metadata["accountReference"])
	}
	if p.Metadata["phoneNumber"] != "254712345678" {
		t.Errorf("original phoneNumber was overwritten: %v", p.Metadata["phoneNumber"])
	}
	if p.Metadata["callbackReceived"] != true {
		t.Error("callbackReceived not set")
	}
	if p.Metadata["completedAt"] == nil {
		t.Error("completedAt not set")
	}
}

func TestProcessCallbackFails(t *testing.T) {
	repo := newMockRepo()
	p := pendingPayment(repo)

	h := NewProcessCallbackHandler(repo)
	res := h.Handle(context.Background(), daraja.StkCallback{
		MerchantRequestID: p.MerchantRequestID,
		CheckoutRequestID: p.CheckoutRequestID,
		ResultCode:        1703,
		ResultDesc:        "Insufficient funds",
	})

	if !res.Success {
		t.Fatalf("expected success result, got %q", res.Message)
	}
	if p.Status != domain.StatusFailed {
		t.Errorf("status = %q, want FAILED", p.Status)
	}
	if p.Metadata["resultDesc"] != "Insufficient funds" {
		t.Errorf("resultDesc = %v", p.Metadata["resultDesc"])
	}
	if p.Metadata["failedAt"] == nil {
		t.Error("failedAt not set")
	}
}

func TestProcessCallbackUnknownCorrelation(t *testing.T) {
	repo := newMockRepo()

	h := NewProcessCallbackHandler(repo)
	res := h.Handle(context.Background(), daraja.StkCallback{
		MerchantRequestID: "nope",
		CheckoutRequestID: "nope",
		ResultCode:        0,
	})

	if res.Success {
		t.Error("unknown correlation pair must report failure")
	}
	if res.Message != "Payment record not found" {
		t.Errorf("message = %q", res.Message)
	}
	if len(repo.payments) != 0 {
		t.Error("no payment row may be created for an unmatched callback")
	}
}

func TestProcessCallbackDuplicateIgnored(t *testing.T) {
	repo := newMockRepo()
	p := pendingPayment(repo)

	h := NewProcessCallbackHandler(repo)
	h.Handle(context.Background(), successCallback())

	if p.Status != domain.StatusCompleted {
		t.Fatalf("setup: status = %q", p.Status)
	}

	// Second delivery of the same callback; terminal state must stick.
	res := h.Handle(context.Background(), daraja.StkCallback{
		MerchantRequestID: p.MerchantRequestID,
		CheckoutRequestID: p.CheckoutRequestID,
		ResultCode:        1,
		ResultDesc:        "late duplicate",
	})

	if !res.Success {
		t.Errorf("duplicate must be acknowledged, got %q", res.Message)
	}
	if res.Data != nil {
		t.Error("duplicate must not expose a transitioned payment")
	}
	if p.Status != domain.StatusCompleted {
		t.Errorf("terminal state resurrected to %q", p.Status)
	}
	if p.Metadata["resultDesc"] == "late duplicate" {
		t.Error("duplicate callback mutated metadata")
	}
}
