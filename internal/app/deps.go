package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"gemini-gateway/internal/cache"
	"gemini-gateway/internal/config"
	"gemini-gateway/internal/events"
	"gemini-gateway/internal/llm"
	"gemini-gateway/internal/logger"
	"gemini-gateway/internal/session"
)

// Deps bundles common runtime dependencies for the gateway.
type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	LLM     llm.Client
	Cache   cache.Cache
	Events  events.Publisher
	Session *session.Controller
}

// Build loads env, config, and shared components.
func Build() (Deps, error) {
	// A .env file is a local-dev convenience, not a requirement.
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	pub, err := buildEvents(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize events: %w", err)
	}

	model := cfg.GeminiModel
	if cfg.LLMProvider == "openai" {
		model = cfg.LLMModel
	}
	ctrl := session.New(log, llmClient, c, time.Duration(cfg.CacheTTL)*time.Second, cfg.LLMProvider, model)
	return Deps{
		Config:  cfg,
		Log:     log,
		LLM:     llmClient,
		Cache:   c,
		Events:  pub,
		Session: ctrl,
	}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
		client, err := llm.NewGemini(log, llm.GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			BaseURL:     cfg.GeminiBaseURL,
			MaxAttempts: cfg.MaxAttempts,
			BackoffBase: time.Duration(cfg.RetryBaseMS) * time.Millisecond,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		log.Info("using Gemini LLM client", "model", cfg.GeminiModel)
		return client, nil
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", cfg.LLMModel)
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid options: gemini, openai)", cfg.LLMProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis cache: %w", err)
		}
		log.Info("using Redis result cache")
		return c, nil
	case "noop":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, noop)", cfg.CacheProvider)
	}
}

func buildEvents(cfg config.Config, log *slog.Logger) (events.Publisher, error) {
	switch cfg.EventsProvider {
	case "nats":
		if cfg.NATSURL == "" {
			return nil, fmt.Errorf("NATS_URL is required when EVENTS_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS event publisher")
		return events.NewNATS(log, nc), nil
	case "noop":
		return events.NewNoOpPublisher(), nil
	default:
		return nil, fmt.Errorf("invalid EVENTS_PROVIDER: %s (valid options: nats, noop)", cfg.EventsProvider)
	}
}
