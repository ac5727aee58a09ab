// Package config loads assistant settings from the environment with sane
// defaults, so a deployment only sets what it changes.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Provider names for the language-model and embedding backends.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

// Settings holds every tunable of the assistant.
type Settings struct {
	Provider        string
	OpenAIAPIKey    string
	AnthropicAPIKey string
	ModelName       string

	EmbeddingProvider string
	EmbeddingModel    string
	OllamaURL         string

	MaxRounds       int
	ProviderTimeout time.Duration
	Temperature     float64

	SessionTTL time.Duration

	TopK              int
	OverlapThreshold  float64
	LowScoreThreshold float64

	DBPath string

	LogLevel  slog.Level
	LogFormat string
}

// Load reads settings from the environment, filling unset values with
// defaults. It does not validate; call Validate before use.
func Load() Settings {
	return Settings{
		Provider:        getEnv("ASSISTANT_PROVIDER", ProviderOpenAI),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ModelName:       getEnv("ASSISTANT_MODEL", ""),

		EmbeddingProvider: getEnv("ASSISTANT_EMBEDDING_PROVIDER", ProviderOpenAI),
		EmbeddingModel:    getEnv("ASSISTANT_EMBEDDING_MODEL", ""),
		OllamaURL:         getEnv("ASSISTANT_OLLAMA_URL", ""),

		MaxRounds:       getEnvInt("ASSISTANT_MAX_ROUNDS", 8),
		ProviderTimeout: getEnvDuration("ASSISTANT_PROVIDER_TIMEOUT", 60*time.Second),
		Temperature:     getEnvFloat("ASSISTANT_TEMPERATURE", 0.3),

		SessionTTL: getEnvDuration("ASSISTANT_SESSION_TTL", 30*time.Minute),

		TopK:              getEnvInt("ASSISTANT_FAQ_TOP_K", 3),
		OverlapThreshold:  getEnvFloat("ASSISTANT_OVERLAP_THRESHOLD", 0.5),
		LowScoreThreshold: getEnvFloat("ASSISTANT_LOW_SCORE_THRESHOLD", 0.30),

		DBPath: getEnv("ASSISTANT_DB_PATH", ""),

		LogLevel:  parseLevel(getEnv("ASSISTANT_LOG_LEVEL", "info")),
		LogFormat: getEnv("ASSISTANT_LOG_FORMAT", "json"),
	}
}

// Validate reports the first configuration problem found.
func (s Settings) Validate() error {
	switch s.Provider {
	case ProviderOpenAI:
		if s.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when provider is %q", ProviderOpenAI)
		}
	case ProviderAnthropic:
		if s.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when provider is %q", ProviderAnthropic)
		}
	default:
		return fmt.Errorf("unknown provider %q", s.Provider)
	}
	switch s.EmbeddingProvider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unknown embedding provider %q", s.EmbeddingProvider)
	}
	if s.MaxRounds < 1 {
		return fmt.Errorf("ASSISTANT_MAX_ROUNDS must be at least 1, got %d", s.MaxRounds)
	}
	if s.ProviderTimeout <= 0 {
		return fmt.Errorf("ASSISTANT_PROVIDER_TIMEOUT must be positive, got %s", s.ProviderTimeout)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("ASSISTANT_SESSION_TTL must be positive, got %s", s.SessionTTL)
	}
	if s.TopK < 1 {
		return fmt.Errorf("ASSISTANT_FAQ_TOP_K must be at least 1, got %d", s.TopK)
	}
	if s.OverlapThreshold <= 0 || s.OverlapThreshold > 1 {
		return fmt.Errorf("ASSISTANT_OVERLAP_THRESHOLD must be in (0, 1], got %g", s.OverlapThreshold)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
