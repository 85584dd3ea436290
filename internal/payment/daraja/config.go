package daraja

import "os"

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"
)

// Config holds the Daraja API credentials and environment selection.
type Config struct {
	Environment    string // sandbox or production
	ConsumerKey    string
	ConsumerSecret string
	ShortCode      string
	Passkey        string
	CallbackURL    string

	// BaseURL overrides the environment-derived endpoint when set. Tests point
	// this at a local fake.
	BaseURL string
}

// ConfigFromEnv reads the Daraja configuration from the environment.
func ConfigFromEnv() Config {
	return Config{
		Environment:    getEnv("MPESA_ENVIRONMENT", "sandbox"),
		ConsumerKey:    os.Getenv("MPESA_CONSUMER_KEY"),
		ConsumerSecret: os.Getenv("MPESA_CONSUMER_SECRET"),
		ShortCode:      getEnv("MPESA_BUSINESS_SHORT_CODE", "174379"),
		Passkey:        os.Getenv("MPESA_PASSKEY"),
		CallbackURL:    os.Getenv("MPESA_CALLBACK_URL"),
	}
}

// APIBase returns the provider base URL for the configured environment.
func (c Config) APIBase() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Environment == "production" {
		return productionBaseURL
	}
	return sandboxBaseURL
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
