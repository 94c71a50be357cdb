package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Remote API
	APIURL     string
	APITimeout time.Duration // 0 = no timeout

	// Session
	SessionCookieName string
	SessionMaxAge     time.Duration
	SecureCookies     bool

	// Uploads
	MaxUploadSize int64

	// Rate limiting (auth form posts)
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "JOB OS"),
		AppEnv:  envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:    envString("PORT", "8090"),

		// Remote API
		APIURL:     strings.TrimSuffix(envString("API_URL", "http://localhost:5000"), "/"),
		APITimeout: envDuration("API_TIMEOUT", 0),

		// Session
		SessionCookieName: envString("SESSION_COOKIE_NAME", "token"),
		SessionMaxAge:     envDuration("SESSION_MAX_AGE", 9600*time.Hour), // 400 days, browser cap
		SecureCookies:     envBool("SECURE_COOKIES", envString("APP_ENV", "development") == "production"),

		// Uploads
		MaxUploadSize: envInt64("MAX_UPLOAD_SIZE", 10<<20), // 10MB

		// Rate limiting
		AuthRateLimit:  int(envInt64("AUTH_RATE_LIMIT", 5)),
		AuthRateWindow: envDuration("AUTH_RATE_WINDOW", 15*time.Minute),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures the API address is not left at a loopback default in production.
func validateProduction(cfg *Config) {
	if strings.Contains(cfg.APIURL, "localhost") || strings.Contains(cfg.APIURL, "127.0.0.1") {
		slog.Error("production deployment requires a public API_URL",
			"api_url", cfg.APIURL,
			"hint", "set APP_ENV=development to talk to a local API")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Sanitized returns a copy of the config with only the fields templates may see.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName: c.AppName,
		AppEnv:  c.AppEnv,
		Port:    c.Port,
		APIURL:  c.APIURL,

		SecureCookies: c.SecureCookies,
	}
}
