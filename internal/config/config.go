package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// LLM provider
	LLMProvider   string `env:"LLM_PROVIDER" envDefault:"gemini"` // "gemini" or "openai"
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	OpenAIKey     string `env:"OPENAI_API_KEY"`
	LLMModel      string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	// Retry policy
	MaxAttempts int `env:"MAX_ATTEMPTS" envDefault:"5"`
	RetryBaseMS int `env:"RETRY_BASE_MS" envDefault:"1000"`

	// Result cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"noop"` // "redis" or "noop"
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"300"` // seconds

	// Telemetry events
	EventsProvider string `env:"EVENTS_PROVIDER" envDefault:"noop"` // "nats" or "noop"
	NATSURL        string `env:"NATS_URL"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
