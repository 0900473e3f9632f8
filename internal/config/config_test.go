package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	// Clear env to test defaults
	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LLMProvider", cfg.LLMProvider, "gemini"},
		{"GeminiModel", cfg.GeminiModel, "gemini-2.0-flash"},
		{"GeminiBaseURL", cfg.GeminiBaseURL, "https://generativelanguage.googleapis.com"},
		{"MaxAttempts", cfg.MaxAttempts, 5},
		{"RetryBaseMS", cfg.RetryBaseMS, 1000},
		{"CacheProvider", cfg.CacheProvider, "noop"},
		{"CacheTTL", cfg.CacheTTL, 300},
		{"EventsProvider", cfg.EventsProvider, "noop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Save and restore env
	originalPort := os.Getenv("PORT")
	originalAttempts := os.Getenv("MAX_ATTEMPTS")
	defer func() {
		os.Setenv("PORT", originalPort)
		os.Setenv("MAX_ATTEMPTS", originalAttempts)
	}()

	os.Setenv("PORT", "9090")
	os.Setenv("MAX_ATTEMPTS", "3")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.MaxAttempts)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	originalLLM := os.Getenv("LLM_PROVIDER")
	defer func() {
		os.Setenv("LLM_PROVIDER", originalLLM)
	}()

	os.Setenv("LLM_PROVIDER", "openai")

	cfg := Load()

	if cfg.LLMProvider != "openai" {
		t.Errorf("expected LLM provider 'openai', got %s", cfg.LLMProvider)
	}
}
