package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	StorageURL       string
	ServerPort       string
	FrontendURL      string
	OpenAIKey        string
	AIModel          string
	AIBaseURL        string
	TTSModel         string
	STTModel         string
	TTSCacheDir      string
	AppPassword      string
	SessionSecret    string
	EnableHSTS       bool
	SecureCookies    bool
	RedisURL         string
	DefaultRateLimit string
	RabbitMQURL      string
	RabbitMQPrefetch int
	ProgressTimezone string
	Location         *time.Location
	OpenAPIPath      string
	WorkerDebugMode  bool
	ServerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string
	OTELSampleRatio  float64
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom loads configuration using getenv for lookups.
func LoadFrom(getenv func(string) string) (*Config, error) {
	e := env(getenv)
	cfg := &Config{
		StorageURL:       e.str("STORAGE_URL", "memory://"),
		ServerPort:       e.str("SERVER_PORT", "8080"),
		FrontendURL:      e.str("FRONTEND_URL", "http://localhost:3000"),
		OpenAIKey:        e.str("OPENAI_API_KEY", ""),
		AIModel:          e.str("AI_MODEL", ""),
		AIBaseURL:        e.str("AI_BASE_URL", ""),
		TTSModel:         e.str("TTS_MODEL", ""),
		STTModel:         e.str("STT_MODEL", ""),
		TTSCacheDir:      e.str("TTS_CACHE_DIR", ""),
		AppPassword:      e.str("APP_PASSWORD", ""),
		SessionSecret:    e.str("SESSION_SECRET", ""),
		EnableHSTS:       e.boolean("ENABLE_HSTS", false),
		SecureCookies:    e.boolean("SECURE_COOKIES", false),
		RedisURL:         e.str("REDIS_URL", ""),
		DefaultRateLimit: e.str("DEFAULT_RATE_LIMIT", "20-S"),
		RabbitMQURL:      e.str("RABBITMQ_URL", ""),
		RabbitMQPrefetch: e.integer("RABBITMQ_PREFETCH", 1),
		ProgressTimezone: e.str("PROGRESS_TIMEZONE", ""),
		OpenAPIPath:      e.str("OPENAPI_PATH", "api/openapi/openapi.yaml"),
		WorkerDebugMode:  e.boolean("WORKER_DEBUG_MODE", false),
		ServerDebugMode:  e.boolean("SERVER_DEBUG_MODE", false),
		OTELEnabled:      e.boolean("OTEL_ENABLED", false),
		OTELEndpoint:     e.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTELSampleRatio:  e.float("OTEL_SAMPLE_RATIO", 1),
	}

	if !strings.Contains(cfg.StorageURL, "://") {
		return nil, fmt.Errorf("STORAGE_URL must be a URL (memory://, redis://, postgres://, sqlite://), got %q", cfg.StorageURL)
	}

	cfg.Location = time.Local
	if cfg.ProgressTimezone != "" {
		loc, err := time.LoadLocation(cfg.ProgressTimezone)
		if err != nil {
			return nil, fmt.Errorf("invalid PROGRESS_TIMEZONE %q: %w", cfg.ProgressTimezone, err)
		}
		cfg.Location = loc
	}

	if cfg.RabbitMQPrefetch < 1 {
		cfg.RabbitMQPrefetch = 1
	}

	return cfg, nil
}

// RequireQueue returns an error when no job queue is configured. The worker
// cannot run without one; the server treats it as optional.
func (c *Config) RequireQueue() error {
	if c.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL is required for the recommendation worker")
	}
	return nil
}

type env func(string) string

func (e env) str(key, defaultValue string) string {
	if value := e(key); value != "" {
		return value
	}
	return defaultValue
}

func (e env) boolean(key string, defaultValue bool) bool {
	if value := e(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func (e env) integer(key string, defaultValue int) int {
	if value := e(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (e env) float(key string, defaultValue float64) float64 {
	if value := e(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
