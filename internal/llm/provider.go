package llm

import (
	"context"

	"github.com/wikibias/wikibias/internal/model"
)

// Provider defines the interface for LLM providers.
//
// This is the only boundary where a model endpoint is invoked. Every
// analyzer, scanner, and summarizer goes through Invoke and parses the
// returned free-form text with the extract package; no component parses
// model output anywhere else.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Invoke sends an instruction (system prompt) and a task prompt to the
	// model and returns its raw text output. Errors are always *InvokeError
	// so callers can branch on the failure kind without matching strings.
	Invoke(ctx context.Context, instructions, prompt string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (OpenAI-compatible local servers, Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   60,
		MaxTokens: 2000,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(cfg model.LLMConfig, httpCfg model.HTTPConfig) Config {
	return Config{
		Provider:   cfg.Provider,
		Model:      cfg.Model,
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Timeout:    cfg.Timeout,
		MaxTokens:  cfg.MaxTokens,
		HTTPProxy:  httpCfg.HTTPProxy,
		HTTPSProxy: httpCfg.HTTPSProxy,
	}
}
