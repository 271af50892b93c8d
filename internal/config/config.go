package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Artifact storage
	DataDir string

	// Auth
	APIKey string

	// Supabase vector store
	SupabaseURL        string
	SupabaseServiceKey string

	// Embedding provider selection
	EmbeddingProvider string
	OpenAIAPIKey      string
	OpenAIModel       string
	GoogleAPIKey      string
	GeminiModel       string
	AnthropicAPIKey   string
	AnthropicModel    string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentEmbed int

	// Upload limits
	MaxUploadBytes int64

	// Chunking defaults
	TargetTokens int
	OverlapRatio float64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DataDir: envOr("DATA_DIR", "data"),

		APIKey: os.Getenv("VECTORIZER_API_KEY"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),

		EmbeddingProvider: os.Getenv("EMBEDDING_PROVIDER"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:       envOr("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		GoogleAPIKey:      os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:       envOr("GEMINI_EMBEDDING_MODEL", "models/text-embedding-004"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:    envOr("ANTHROPIC_EMBEDDING_MODEL", "claude-3-haiku-20240307"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentEmbed: envInt("MAX_CONCURRENT_EMBED", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 1<<30), // 1GB

		TargetTokens: envInt("TARGET_TOKENS", 400),
		OverlapRatio: envFloat("OVERLAP_RATIO", 0.15),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 1 << 30
	}
	if cfg.TargetTokens <= 0 {
		cfg.TargetTokens = 400
	}
	if cfg.OverlapRatio < 0 || cfg.OverlapRatio >= 1 {
		cfg.OverlapRatio = 0.15
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("VECTORIZER_API_KEY is required")
	}
	// Vectors need a destination: Supabase is required once embedding
	// is switched on.
	if c.EmbeddingProvider != "" {
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required when EMBEDDING_PROVIDER is set")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required when EMBEDDING_PROVIDER is set")
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
