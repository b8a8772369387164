package app

import (
	"os"
	"strconv"
	"time"

	"github.com/despacholink/expediente/internal/expediente/paypal"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./expediente.db)
	BlobDir      string // Optional: directory for uploaded files (default: ./blobs)
	PortalOrigin string // Required in prod: origin used when building magic links (default: http://localhost:8080)

	SessionIssuer  string        // Optional: issuer claim for access tokens (default: despacholink)
	SessionKeyFile string        // Optional: path to the Ed25519 session seed; ephemeral when unset
	AccessTTL      time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL     time.Duration // Optional: refresh token lifetime (default: 30 days)

	MFAIssuer string // Optional: issuer shown in authenticator apps (default: DespachoLink)

	PayPalEnv          string // Optional: sandbox or live (default: sandbox)
	PayPalClientID     string // Required for payments
	PayPalClientSecret string // Required for payments

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "expediente.db"),
		BlobDir:      getEnvOrDefault("BLOB_DIR", "blobs"),
		PortalOrigin: getEnvOrDefault("PORTAL_ORIGIN", "http://localhost:8080"),

		SessionIssuer:  getEnvOrDefault("SESSION_ISSUER", "despacholink"),
		SessionKeyFile: os.Getenv("SESSION_KEY_FILE"),
		AccessTTL:      getEnvDurationOrDefault("SESSION_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:     getEnvDurationOrDefault("SESSION_REFRESH_TTL", 30*24*time.Hour),

		MFAIssuer: getEnvOrDefault("MFA_ISSUER", "DespachoLink"),

		PayPalEnv:          getEnvOrDefault("PAYPAL_ENV", "sandbox"),
		PayPalClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		PayPalClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// PayPalBaseURL maps the configured environment onto the provider endpoint.
func (c Config) PayPalBaseURL() string {
	if c.PayPalEnv == "live" {
		return paypal.LiveBaseURL
	}
	return paypal.SandboxBaseURL
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
