package api

import (
	"fmt"
	"os"
	"strings"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	JWTSecret         string
	JWTIssuer         string
	JWTAudience       string
	ProductServiceURL string
	StockServiceURL   string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadConfig reads environment variables, applies defaults, and validates
// basic constraints. The token secret and both downstream service URLs are
// required; everything else has a workable default.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		JWTSecret:         strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:         strings.TrimSpace(os.Getenv("JWT_ISSUER")),
		JWTAudience:       strings.TrimSpace(os.Getenv("JWT_AUDIENCE")),
		ProductServiceURL: strings.TrimSpace(os.Getenv("PRODUCT_SERVICE_URL")),
		StockServiceURL:   strings.TrimSpace(os.Getenv("STOCK_SERVICE_URL")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ProductServiceURL == "" {
		return Config{}, fmt.Errorf("PRODUCT_SERVICE_URL is required")
	}
	if cfg.StockServiceURL == "" {
		return Config{}, fmt.Errorf("STOCK_SERVICE_URL is required")
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
