package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/stawicover/agency-api/pkg/logger"
)

const transactionType = "CustomerPayBillOnline"

// PushRequest carries the business inputs of an STK push.
type PushRequest struct {
	Phone            string
	Amount           float64
	AccountReference string
	TransactionDesc  string
}

// Client talks to the Daraja API. All calls fetch a fresh access token unless
// a TokenCache is attached.
type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     *TokenCache
}

// Option configures a Client.
type Option func(*Client)

// WithTokenCache attaches a Redis-backed token cache.
func WithTokenCache(tc *TokenCache) Option {
	return func(c *Client) { c.tokens = tc }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Daraja client with an instrumented HTTP transport.
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// AccessToken obtains an OAuth bearer token using Basic authentication over
// the consumer key and secret. Missing credentials or a non-2xx answer fail
// the whole attempt; there is no fallback token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.cfg.ConsumerKey == "" || c.cfg.ConsumerSecret == "" {
		return "", fmt.Errorf("mpesa consumer key and secret are not configured")
	}

	if token := c.tokens.Get(ctx, c.cfg.ConsumerKey, c.cfg.ConsumerSecret); token != "" {
		return token, nil
	}

	url := c.cfg.APIBase() + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}

	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token request rejected: status %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("provider returned an empty access token")
	}

	if ttl, err := strconv.Atoi(tr.ExpiresIn); err == nil && ttl > 0 {
		c.tokens.Set(ctx, c.cfg.ConsumerKey, c.cfg.ConsumerSecret, tr.AccessToken, time.Duration(ttl)*time.Second)
	}

	return tr.AccessToken, nil
}

// STKPush submits a payment prompt to the payer's phone. The provider response
// is returned even when its ResponseCode reports a business failure; only
// transport and authentication problems surface as errors.
func (c *Client) STKPush(ctx context.Context, push PushRequest) (*STKPushResponse, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	phone := NormalizePhone(push.Phone)
	password, timestamp := Password(c.cfg.ShortCode, c.cfg.Passkey, time.Now())

	payload := stkPushPayload{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            strconv.FormatFloat(push.Amount, 'f', -1, 64),
		PartyA:            phone,
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  push.AccountReference,
		TransactionDesc:   push.TransactionDesc,
	}

	var out STKPushResponse
	if err := c.post(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &out); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("merchant_request_id", out.MerchantRequestID).
		Str("checkout_request_id", out.CheckoutRequestID).
		Str("response_code", out.ResponseCode).
		Msg("STK push submitted")

	return &out, nil
}

// QueryStatus polls the provider for the current state of a checkout request.
// A fresh token and password pair is derived per call.
func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (map[string]interface{}, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := Password(c.cfg.ShortCode, c.cfg.Passkey, time.Now())
	payload := queryPayload{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var out map[string]interface{}
	if err := c.post(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIBase()+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	// Non-2xx bodies carry errorCode/errorMessage instead of the success
	// shape. They never produce correlation ids, so they surface as errors
	// rather than decoded responses.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.ErrorMessage != "" {
			return fmt.Errorf("provider rejected request (status %d, code %s): %s",
				resp.StatusCode, apiErr.ErrorCode, apiErr.ErrorMessage)
		}
		return fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode provider response (status %d): %w", resp.StatusCode, err)
	}

	return nil
}
