package daraja

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeProvider(t *testing.T, pushStatus int, pushBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth/v1/generate"):
			if !strings.HasPrefix(r.Header.Get("Authorization"), "Basic ") {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": "test-token",
				"expires_in":   "3599",
			})
		case r.URL.Path == "/mpesa/stkpush/v1/processrequest":
			if r.Header.Get("Authorization") != "Bearer test-token" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(pushStatus)
			w.Write([]byte(pushBody))
		case r.URL.Path == "/mpesa/stkpushquery/v1/query":
			w.Write([]byte(`{"ResponseCode":"0","ResultCode":"1032","ResultDesc":"Request cancelled by user"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func testConfig(baseURL string) Config {
	return Config{
		Environment:    "sandbox",
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/api/payments/mpesa/callback",
		BaseURL:        baseURL,
	}
}

func TestAccessTokenMissingCredentials(t *testing.T) {
	c := NewClient(Config{ShortCode: "174379"})

	_, err := c.AccessToken(context.Background())
	if err == nil {
		t.Fatal("expected error for missing credentials, got nil")
	}
}

func TestAccessToken(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, "{}")
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	token, err := c.AccessToken(context.Background())
	if err != nil {
		t.Fatalf("AccessToken() error = %v", err)
	}
	if token != "test-token" {
		t.Errorf("token = %q, want %q", token, "test-token")
	}
}

func TestAccessTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	if _, err := c.AccessToken(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx token response, got nil")
	}
}

func TestSTKPushAccepted(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, `{
		"MerchantRequestID": "29115-34620561-1",
		"CheckoutRequestID": "ws_CO_191220191020363925",
		"ResponseCode": "0",
		"ResponseDescription": "Success. Request accepted for processing",
		"CustomerMessage": "Success. Request accepted for processing"
	}`)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	resp, err := c.STKPush(context.Background(), PushRequest{
		Phone:            "0712345678",
		Amount:           1000,
		AccountReference: "INV-1",
		TransactionDesc:  "Policy payment",
	})
	if err != nil {
		t.Fatalf("STKPush() error = %v", err)
	}
	if !resp.Accepted() {
		t.Errorf("Accepted() = false, want true")
	}
	if resp.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Errorf("CheckoutRequestID = %q", resp.CheckoutRequestID)
	}
}

func TestSTKPushBusinessFailure(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, `{
		"MerchantRequestID": "29115-34620561-2",
		"CheckoutRequestID": "ws_CO_191220191020363926",
		"ResponseCode": "1",
		"ResponseDescription": "Insufficient balance on the utility account"
	}`)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	resp, err := c.STKPush(context.Background(), PushRequest{Phone: "0712345678", Amount: 10})
	if err != nil {
		t.Fatalf("business failure must not be a transport error, got %v", err)
	}
	if resp.Accepted() {
		t.Error("Accepted() = true for ResponseCode 1")
	}
}

func TestSTKPushHTTPRejected(t *testing.T) {
	srv := fakeProvider(t, http.StatusBadRequest, `{
		"requestId": "92643-47073138-2",
		"errorCode": "400.002.02",
		"errorMessage": "Bad Request - Invalid Amount"
	}`)
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	_, err := c.STKPush(context.Background(), PushRequest{Phone: "0712345678", Amount: 10})
	if err == nil {
		t.Fatal("expected error for HTTP-rejected push, got nil")
	}
	if !strings.Contains(err.Error(), "Bad Request - Invalid Amount") {
		t.Errorf("error = %v, want provider message included", err)
	}
}

func TestQueryStatus(t *testing.T) {
	srv := fakeProvider(t, http.StatusOK, "{}")
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	out, err := c.QueryStatus(context.Background(), "ws_CO_191220191020363925")
	if err != nil {
		t.Fatalf("QueryStatus() error = %v", err)
	}
	if out["ResultCode"] != "1032" {
		t.Errorf("ResultCode = %v, want 1032", out["ResultCode"])
	}
}

func TestCallbackMetadataLookup(t *testing.T) {
	raw := `{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResultCode": 0,
				"ResultDesc": "The service request is processed successfully.",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 1000.00},
						{"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
						{"Name": "TransactionDate", "Value": 20191219102115},
						{"Name": "PhoneNumber", "Value": 254712345678}
					]
				}
			}
		}
	}`

	var env CallbackEnvelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		t.Fatalf("unmarshal callback: %v", err)
	}

	cb := env.Body.StkCallback
	if amount, ok := cb.CallbackMetadata.ItemFloat("Amount"); !ok || amount != 1000 {
		t.Errorf("Amount = %v, %v", amount, ok)
	}
	if receipt := cb.CallbackMetadata.ItemString("MpesaReceiptNumber"); receipt != "NLJ7RT61SV" {
		t.Errorf("MpesaReceiptNumber = %q", receipt)
	}
	if phone := cb.CallbackMetadata.ItemString("PhoneNumber"); phone != "254712345678" {
		t.Errorf("PhoneNumber = %q", phone)
	}
	// Absent items are undefined, not errors.
	if v := cb.CallbackMetadata.ItemString("Balance"); v != "" {
		t.Errorf("absent item = %q, want empty", v)
	}
}
