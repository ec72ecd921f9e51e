// Package config provides environment configuration for the companion.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// LLM settings
	Provider     string
	GeminiAPIKey string
	OpenAIAPIKey string
	AnthropicKey string
	Model        string

	// Generation behavior
	RequestTimeout time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	HistoryTurns   int

	// Streaming presentation
	ReducedMotion bool
	InitialDelay  time.Duration
	MinChunk      int
	MaxChunk      int
	MinChunkDelay time.Duration
	MaxChunkDelay time.Duration
	SentencePause time.Duration
	ClausePause   time.Duration

	// Storage
	StorageBackend string
	StoragePath    string

	// Logging
	LogLevel string

	// Metrics
	MetricsAddr string

	// Tracing
	TracingEndpoint string
	TracingEnabled  bool
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() *Config {
	// Not present in production; environment variables win either way.
	_ = godotenv.Load()

	return &Config{
		// LLM
		Provider:     getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		AnthropicKey: getEnv("ANTHROPIC_API_KEY", ""),
		Model:        getEnv("LLM_MODEL", ""),

		// Generation
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 30*time.Second),
		MaxRetries:     getIntEnv("MAX_RETRIES", 2),
		RetryBackoff:   getDurationEnv("RETRY_BACKOFF", 3*time.Second),
		HistoryTurns:   getIntEnv("HISTORY_TURNS", 8),

		// Streaming
		ReducedMotion: getBoolEnv("REDUCED_MOTION", false),
		InitialDelay:  getDurationEnv("STREAM_INITIAL_DELAY", 800*time.Millisecond),
		MinChunk:      getIntEnv("STREAM_MIN_CHUNK", 1),
		MaxChunk:      getIntEnv("STREAM_MAX_CHUNK", 3),
		MinChunkDelay: getDurationEnv("STREAM_MIN_DELAY", 15*time.Millisecond),
		MaxChunkDelay: getDurationEnv("STREAM_MAX_DELAY", 35*time.Millisecond),
		SentencePause: getDurationEnv("STREAM_SENTENCE_PAUSE", 300*time.Millisecond),
		ClausePause:   getDurationEnv("STREAM_CLAUSE_PAUSE", 150*time.Millisecond),

		// Storage
		StorageBackend: getEnv("STORAGE_BACKEND", "file"),
		StoragePath:    getEnv("STORAGE_PATH", ""),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Metrics (disabled unless an address is set)
		MetricsAddr: getEnv("METRICS_ADDR", ""),

		// Tracing
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
	}
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicKey
	default:
		return c.GeminiAPIKey
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
