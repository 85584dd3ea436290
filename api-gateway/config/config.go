package config

import (
	"os"
	"strconv"
	"time"
)

// BackendConfig holds configuration for the agency API backend.
type BackendConfig struct {
	Name        string
	BaseURL     string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration.
type GatewayConfig struct {
	Port            string
	Backend         BackendConfig
	RateLimitPerMin int
}

// LoadConfig loads the gateway configuration from the environment.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Backend: BackendConfig{
			Name:        "agency-api",
			BaseURL:     getEnv("BACKEND_URL", "http://localhost:8080"),
			Timeout:     30 * time.Second,
			HealthCheck: "/health",
		},
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 20),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
