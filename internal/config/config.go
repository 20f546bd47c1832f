package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultLLMBaseURL = "https://api.groq.com/openai"
	DefaultModel      = "llama-3.1-70b-versatile"
	DefaultAPIURL     = "http://localhost:5000"
)

// Config holds all configuration for the API server.
type Config struct {
	LLMProvider   string
	LLMBaseURL    string
	LLMModelName  string
	LLMAPIKey     string
	LLMMaxRetries uint
	GeminiAPIKey  string

	DBPath string

	EmbeddingBaseURL      string
	EmbeddingModelName    string
	QdrantURL             string
	QdrantAPIKey          string
	QdrantCollection      string
	QdrantVectorSize      int
	RetrievalContextChars int

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// RetrievalEnabled reports whether every setting the retriever needs is present.
func (c *Config) RetrievalEnabled() bool {
	return c.QdrantURL != "" &&
		c.QdrantCollection != "" &&
		c.QdrantVectorSize > 0 &&
		c.EmbeddingBaseURL != "" &&
		c.EmbeddingModelName != ""
}

// ClientConfig holds configuration for the notebook CLI.
type ClientConfig struct {
	APIURL   string
	Model    string
	Timeout  time.Duration
	LogLevel slog.Level
}

// Load reads the API server configuration from environment variables.
// A .env file in the current directory or a parent is loaded first;
// variables already set in the environment take precedence.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		LLMProvider:        strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		LLMBaseURL:         getEnv("LLM_BASE_URL", DefaultLLMBaseURL),
		LLMModelName:       getEnv("LLM_MODEL", DefaultModel),
		LLMAPIKey:          getEnv("LLM_API_KEY", os.Getenv("GROQ_API_KEY")),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		DBPath:             getEnv("DB_PATH", ""),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", ""),
		QdrantURL:          getEnv("QDRANT_URL", ""),
		QdrantAPIKey:       getEnv("QDRANT_API_KEY", ""),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "sources"),
		APIPort:            getEnv("API_PORT", "5000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI:
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER is %q", ProviderGemini)
		}
	default:
		return nil, fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderGemini, cfg.LLMProvider)
	}

	retries, err := getUint("LLM_MAX_RETRIES", 0)
	if err != nil {
		return nil, err
	}
	cfg.LLMMaxRetries = retries

	if cfg.QdrantVectorSize, err = getPositiveInt("QDRANT_VECTOR_SIZE", 0); err != nil {
		return nil, err
	}
	if cfg.RetrievalContextChars, err = getPositiveInt("RETRIEVAL_CONTEXT_CHARS", 0); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = parseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	// Create the database directory for file-backed stores.
	if cfg.DBPath != "" && !strings.HasPrefix(cfg.DBPath, "file:") && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// LoadClient reads the CLI configuration from environment variables.
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	cfg := &ClientConfig{
		APIURL: getEnv("NOTEBOOK_API_URL", DefaultAPIURL),
		Model:  getEnv("NOTEBOOK_MODEL", DefaultModel),
	}

	if raw := getEnv("CLIENT_TIMEOUT", ""); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("CLIENT_TIMEOUT must be a duration: %w", err)
		}
		if timeout < 0 {
			return nil, fmt.Errorf("CLIENT_TIMEOUT must not be negative")
		}
		cfg.Timeout = timeout
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "warn"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func loadDotEnv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getUint(key string, defaultValue uint) (uint, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be a non-negative integer: %w", key, err)
	}
	return uint(n), nil
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	return level, nil
}
