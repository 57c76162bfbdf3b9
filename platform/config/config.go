// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort         = 5000
	defaultCORSOrigin   = "https://edemyclient.onrender.com"
	defaultDatabaseName = "lms"
	defaultMediaBucket  = "lms-media"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetPort() int
	GetHTTPAddr() string
	GetMaxBodyBytes() int64
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// CORSConfig provides the fixed cross-origin policy.
type CORSConfig interface {
	GetCORSOrigin() string
}

// DatabaseConfig provides document database connection settings.
type DatabaseConfig interface {
	GetMongoURI() string
	GetMongoDatabase() string
}

// MediaConfig provides settings for the S3-compatible media host.
type MediaConfig interface {
	GetMediaEndpoint() string
	GetMediaAccessKey() string
	GetMediaSecretKey() string
	GetMediaUseSSL() bool
	GetMediaBucket() string
	GetMediaMaxFileSize() int64
}

// AuthConfig provides session token verification settings.
type AuthConfig interface {
	GetClerkJWTKey() string
	GetClerkAuthorizedParties() []string
}

// WebhookConfig provides webhook signing secrets.
type WebhookConfig interface {
	GetClerkWebhookSecret() string
	GetStripeWebhookSecret() string
}

// StartupConfig controls how outbound connections are established at boot.
type StartupConfig interface {
	GetStartupConnectAttempts() int
	GetStartupConnectDelay() time.Duration
	GetStartupConnectTimeout() time.Duration
	GetShutdownTimeout() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	Port                   int
	CORSOrigin             string
	MaxBodyBytes           int64
	RateLimitRPS           float64
	RateLimitBurst         int
	MongoURI               string
	MongoDatabase          string
	MediaEndpoint          string
	MediaAccessKey         string
	MediaSecretKey         string
	MediaUseSSL            bool
	MediaBucket            string
	MediaMaxFileSize       int64
	ClerkJWTKey            string
	ClerkAuthorizedParties []string
	ClerkWebhookSecret     string
	StripeWebhookSecret    string
	StartupConnectAttempts int
	StartupConnectDelay    time.Duration
	StartupConnectTimeout  time.Duration
	ShutdownTimeout        time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetPort() int             { return c.Port }
func (c *Config) GetHTTPAddr() string      { return ":" + strconv.Itoa(c.Port) }
func (c *Config) GetMaxBodyBytes() int64   { return c.MaxBodyBytes }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// CORSConfig implementation
func (c *Config) GetCORSOrigin() string { return c.CORSOrigin }

// DatabaseConfig implementation
func (c *Config) GetMongoURI() string      { return c.MongoURI }
func (c *Config) GetMongoDatabase() string { return c.MongoDatabase }

// MediaConfig implementation
func (c *Config) GetMediaEndpoint() string   { return c.MediaEndpoint }
func (c *Config) GetMediaAccessKey() string  { return c.MediaAccessKey }
func (c *Config) GetMediaSecretKey() string  { return c.MediaSecretKey }
func (c *Config) GetMediaUseSSL() bool       { return c.MediaUseSSL }
func (c *Config) GetMediaBucket() string     { return c.MediaBucket }
func (c *Config) GetMediaMaxFileSize() int64 { return c.MediaMaxFileSize }

// AuthConfig implementation
func (c *Config) GetClerkJWTKey() string              { return c.ClerkJWTKey }
func (c *Config) GetClerkAuthorizedParties() []string { return c.ClerkAuthorizedParties }

// WebhookConfig implementation
func (c *Config) GetClerkWebhookSecret() string  { return c.ClerkWebhookSecret }
func (c *Config) GetStripeWebhookSecret() string { return c.StripeWebhookSecret }

// StartupConfig implementation
func (c *Config) GetStartupConnectAttempts() int          { return c.StartupConnectAttempts }
func (c *Config) GetStartupConnectDelay() time.Duration   { return c.StartupConnectDelay }
func (c *Config) GetStartupConnectTimeout() time.Duration { return c.StartupConnectTimeout }
func (c *Config) GetShutdownTimeout() time.Duration       { return c.ShutdownTimeout }

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// =============================================================================
// Loading
// =============================================================================

// Load reads configuration from the environment, optionally seeded by a .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	p := &parser{}
	cfg := &Config{
		Env:                    getEnv("APP_ENV", "development"),
		Port:                   p.int("PORT", defaultPort),
		CORSOrigin:             strings.TrimSpace(getEnv("CORS_ORIGIN", defaultCORSOrigin)),
		MaxBodyBytes:           p.int64("MAX_BODY_BYTES", 1<<20),
		RateLimitRPS:           p.float("RATE_LIMIT_RPS", 20),
		RateLimitBurst:         p.int("RATE_LIMIT_BURST", 40),
		MongoURI:               getEnv("MONGODB_URI", ""),
		MongoDatabase:          getEnv("MONGODB_DATABASE", defaultDatabaseName),
		MediaEndpoint:          getEnv("MEDIA_ENDPOINT", ""),
		MediaAccessKey:         getEnv("MEDIA_ACCESS_KEY", ""),
		MediaSecretKey:         getEnv("MEDIA_SECRET_KEY", ""),
		MediaUseSSL:            p.bool("MEDIA_USE_SSL", true),
		MediaBucket:            getEnv("MEDIA_BUCKET", defaultMediaBucket),
		MediaMaxFileSize:       p.int64("MEDIA_MAX_FILE_SIZE", 500<<20),
		ClerkJWTKey:            getEnv("CLERK_JWT_KEY", ""),
		ClerkAuthorizedParties: splitCSV(getEnv("CLERK_AUTHORIZED_PARTIES", "")),
		ClerkWebhookSecret:     getEnv("CLERK_WEBHOOK_SECRET", ""),
		StripeWebhookSecret:    getEnv("STRIPE_WEBHOOK_SECRET", ""),
		StartupConnectAttempts: p.int("STARTUP_CONNECT_ATTEMPTS", 3),
		StartupConnectDelay:    p.duration("STARTUP_CONNECT_DELAY", 2*time.Second),
		StartupConnectTimeout:  p.duration("STARTUP_CONNECT_TIMEOUT", 10*time.Second),
		ShutdownTimeout:        p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if p.err != nil {
		return nil, p.err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !strings.HasPrefix(c.CORSOrigin, "http://") && !strings.HasPrefix(c.CORSOrigin, "https://") {
		return fmt.Errorf("CORS_ORIGIN must be a single literal http(s) origin when credentials are allowed")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if c.MediaEndpoint == "" || c.MediaAccessKey == "" || c.MediaSecretKey == "" {
		return fmt.Errorf("MEDIA_ENDPOINT, MEDIA_ACCESS_KEY and MEDIA_SECRET_KEY are required")
	}
	if c.ClerkJWTKey == "" {
		return fmt.Errorf("CLERK_JWT_KEY is required")
	}
	if c.ClerkWebhookSecret == "" {
		return fmt.Errorf("CLERK_WEBHOOK_SECRET is required")
	}
	if c.StripeWebhookSecret == "" {
		return fmt.Errorf("STRIPE_WEBHOOK_SECRET is required")
	}
	if c.StartupConnectAttempts < 1 {
		return fmt.Errorf("STARTUP_CONNECT_ATTEMPTS must be at least 1")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// parser records the first malformed value so Load can report it.
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
}

func (p *parser) int(key string, fallback int) int {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) int64(key string, fallback int64) int64 {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(getEnv(key, ""))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return v
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
