// ABOUTME: Centralized configuration for the presentation generation pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Provider names for embeddings and cross-encoder scoring
const (
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"
)

// Config holds all configuration for the generation pipeline
type Config struct {
	// LLM gateway settings
	APIURL      string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration

	// Model providers
	EmbeddingProvider string
	EmbeddingModel    string
	CrossEncoderModel string

	// Chunking
	ChunkSize    int
	ChunkOverlap int

	// Retrieval
	TopKRetrieval int
	RawTopK       int
	RerankLimit   int

	// Planning
	MinSlides int
	MaxSlides int

	// Generation
	GenTemperature        float32
	ClassifierTemperature float32
	ClassifierMaxTokens   int
	PlannerMaxTokens      int
	ContentMaxTokens      int
	ChartMaxTokens        int
	EditMaxTokens         int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		APIURL:      getEnv("LLM_API_URL", "https://openrouter.ai/api/v1"),
		APIKey:      os.Getenv("LLM_API_KEY"),
		Model:       getEnv("LLM_MODEL", "moonshotai/kimi-k2-0905"),
		Timeout:     getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		MaxAttempts: getEnvInt("LLM_MAX_ATTEMPTS", 2),
		RetryDelay:  getEnvDuration("LLM_RETRY_DELAY", time.Second),

		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", ProviderOpenAI),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		CrossEncoderModel: getEnv("CROSS_ENCODER_MODEL", "cross-encoder/ms-marco-MiniLM-L-6-v2"),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 512),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 50),

		TopKRetrieval: getEnvInt("TOP_K_RETRIEVAL", 5),
		RawTopK:       getEnvInt("RAW_TOP_K", 30),
		RerankLimit:   getEnvInt("RERANK_LIMIT", 5),

		MinSlides: getEnvInt("MIN_SLIDES", 10),
		MaxSlides: getEnvInt("MAX_SLIDES", 15),

		GenTemperature:        getEnvFloat32("GEN_TEMPERATURE", 0.2),
		ClassifierTemperature: getEnvFloat32("CLASSIFIER_TEMPERATURE", 0.1),
		ClassifierMaxTokens:   getEnvInt("CLASSIFIER_MAX_TOKENS", 400),
		PlannerMaxTokens:      getEnvInt("PLANNER_MAX_TOKENS", 1000),
		ContentMaxTokens:      getEnvInt("CONTENT_MAX_TOKENS", 900),
		ChartMaxTokens:        getEnvInt("CHART_MAX_TOKENS", 600),
		EditMaxTokens:         getEnvInt("EDIT_MAX_TOKENS", 600),
	}

	return cfg, cfg.Validate()
}

// Validate rejects configurations the pipeline cannot run with
func (c *Config) Validate() error {
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkSize <= 0 {
		return fmt.Errorf("invalid chunking: size=%d overlap=%d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.MinSlides <= 0 || c.MaxSlides < c.MinSlides {
		return fmt.Errorf("invalid slide bounds: MIN_SLIDES=%d MAX_SLIDES=%d", c.MinSlides, c.MaxSlides)
	}
	if c.GenTemperature < 0 || c.GenTemperature > 2 {
		return fmt.Errorf("GEN_TEMPERATURE must be 0-2, got %v", c.GenTemperature)
	}
	if c.MaxAttempts < 1 || c.MaxAttempts > 10 {
		return fmt.Errorf("LLM_MAX_ATTEMPTS must be 1-10, got %d", c.MaxAttempts)
	}
	if c.EmbeddingProvider != ProviderOpenAI && c.EmbeddingProvider != ProviderLocal {
		return fmt.Errorf("EMBEDDING_PROVIDER must be %q or %q, got %q", ProviderOpenAI, ProviderLocal, c.EmbeddingProvider)
	}
	return nil
}

// ResolveAPIKey returns the sanitized bearer key, preferring the explicit
// value over the environment. Keys pasted from chat clients tend to pick up
// zero-width runes, so those are stripped before the ASCII check.
func ResolveAPIKey(explicit string) (string, error) {
	key := strings.TrimSpace(explicit)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("LLM_API_KEY"))
	}
	if key == "" {
		key = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	key = stripInvisible(key)
	if key == "" {
		return "", fmt.Errorf("API key required (set LLM_API_KEY or OPENAI_API_KEY)")
	}
	for _, r := range key {
		if r > unicode.MaxASCII {
			return "", fmt.Errorf("API key contains non-ASCII characters")
		}
	}
	return key, nil
}

// invisibleRunes are Unicode whitespace/zero-width characters known to
// corrupt keys and JSON when they leak in from model output or clipboards.
var invisibleRunes = map[rune]bool{
	'\u00a0': true,
	'\u2007': true,
	'\u2009': true,
	'\u200a': true,
	'\u200b': true,
	'\u200c': true,
	'\u200d': true,
	'\u202f': true,
	'\u2060': true,
}

func stripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if invisibleRunes[r] {
			return -1
		}
		return r
	}, s)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat32(key string, defaultVal float32) float32 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			return float32(f)
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
