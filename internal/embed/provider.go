// Package embed generates embedding vectors for chunk text through a
// configurable provider (OpenAI, Gemini, or Anthropic).
package embed

import (
	"context"
	"fmt"
	"strings"
)

// Provider generates an embedding vector for a piece of text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Name() string
	Close()
}

// Settings selects and credentials a provider.
type Settings struct {
	Provider string // "openai", "gemini"/"google", "claude"/"anthropic", or "" for disabled

	OpenAIKey   string
	OpenAIModel string

	GoogleKey   string
	GeminiModel string

	AnthropicKey   string
	AnthropicModel string
}

// NewProvider builds the configured provider. An empty provider name
// disables embeddings and returns nil without error; a missing API key
// for a selected provider is a configuration error.
func NewProvider(s Settings) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s.Provider)) {
	case "":
		return nil, nil
	case "openai":
		if s.OpenAIKey == "" {
			return nil, fmt.Errorf("embedding provider openai selected but OPENAI_API_KEY is not set")
		}
		return newOpenAIProvider(s.OpenAIKey, s.OpenAIModel), nil
	case "gemini", "google":
		if s.GoogleKey == "" {
			return nil, fmt.Errorf("embedding provider gemini selected but GOOGLE_API_KEY is not set")
		}
		return newGeminiProvider(s.GoogleKey, s.GeminiModel), nil
	case "claude", "anthropic":
		if s.AnthropicKey == "" {
			return nil, fmt.Errorf("embedding provider anthropic selected but ANTHROPIC_API_KEY is not set")
		}
		return newAnthropicProvider(s.AnthropicKey, s.AnthropicModel), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q (expected openai, gemini, google, claude, or anthropic)", s.Provider)
	}
}

// PrefixChunk decorates chunk text with its section and document name
// so the embedding carries retrieval context.
func PrefixChunk(section, docName, text string) string {
	return fmt.Sprintf("Section: %s\nDocument: %s\n\n%s", section, docName, text)
}

// RetryableError indicates a transient provider failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
