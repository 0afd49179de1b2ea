package app

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultJWTSecret is the fallback signing secret. It is only acceptable in
// dev; Validate rejects it everywhere else.
const DefaultJWTSecret = "dev-insecure-secret"

type Config struct {
	Issuer    string // Optional: issuer claim for session tokens (default: authd)
	JWTSecret string // HMAC signing secret (default: DefaultJWTSecret, dev only)

	SessionTTL    time.Duration // Optional: session token lifetime (default: 1h)
	ResetTokenTTL time.Duration // Optional: reset token lifetime (default: 10m)
	NotifyTimeout time.Duration // Optional: bound on a single mail send (default: 5s)
	ResetBaseURL  string        // Optional: prefix of the reset link mailed to users

	SMTPHost     string // Optional: SMTP relay host; empty means log-only delivery
	SMTPPort     int    // Optional: SMTP relay port (default: 587)
	SMTPUsername string // Optional: SMTP auth username
	SMTPPassword string // Optional: SMTP auth password
	SMTPFrom     string // Optional: sender address (default: no-reply@localhost)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./authd.db)
	PepperFile           string        // Optional: path to password pepper file (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired reset token sweep interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "authd"),
		JWTSecret: getEnvOrDefault("AUTH_JWT_SECRET", DefaultJWTSecret),

		SessionTTL:    getEnvDurationOrDefault("SESSION_TTL", time.Hour),
		ResetTokenTTL: getEnvDurationOrDefault("RESET_TOKEN_TTL", 10*time.Minute),
		NotifyTimeout: getEnvDurationOrDefault("NOTIFY_TIMEOUT", 5*time.Second),
		ResetBaseURL:  getEnvOrDefault("RESET_BASE_URL", "http://localhost:8080/reset-password"),

		SMTPHost:     os.Getenv("SMTP_HOST"), // Optional: empty falls back to log delivery
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@localhost"),

		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "authd.db"),
		PepperFile:           getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

// Validate rejects configurations that must never reach a deployed
// environment. Called once at startup, before anything binds a port.
func (cfg Config) Validate() error {
	if cfg.Env != "dev" && cfg.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("AUTH_JWT_SECRET must be set when ENV=%s", cfg.Env)
	}
	if cfg.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", cfg.SessionTTL)
	}
	if cfg.ResetTokenTTL <= 0 {
		return fmt.Errorf("RESET_TOKEN_TTL must be positive, got %s", cfg.ResetTokenTTL)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", cfg.Port)
	}
	return nil
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

	// Bare integers are taken as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
