package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "anthropic", "openai", "openrouter", "mock"
	Provider string `toml:"provider" validate:"oneof=gemini anthropic openai openrouter mock"`

	Gemini     GeminiConfig     `toml:"gemini"`
	Anthropic  AnthropicConfig  `toml:"anthropic"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`
	Retry      RetryConfig      `toml:"retry"`
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"` // Default: "gemini-flash"
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `toml:"base_url"` // Optional. Override for compatible APIs.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string `toml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 means a single call with no retry.
type RetryConfig struct {
	MaxAttempts int           `toml:"max_attempts" validate:"gte=0"`
	InitialWait time.Duration `toml:"initial_wait"`
	MaxWait     time.Duration `toml:"max_wait"`
	Multiplier  float64       `toml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ApplyEnv overrides fields from DOCCHAT_* environment variables. When no
// provider key is configured at all, the conventional vendor variables
// (GEMINI_API_KEY, OPENAI_API_KEY, ...) are probed via Discover.
func (c *Config) ApplyEnv() {
	if p := os.Getenv("DOCCHAT_LLM_PROVIDER"); p != "" {
		c.Provider = p
	}

	setFromEnv(&c.Gemini.APIKey, "DOCCHAT_GEMINI_API_KEY")
	setFromEnv(&c.Gemini.Model, "DOCCHAT_GEMINI_MODEL")

	setFromEnv(&c.Anthropic.APIKey, "DOCCHAT_ANTHROPIC_API_KEY")
	setFromEnv(&c.Anthropic.Model, "DOCCHAT_ANTHROPIC_MODEL")

	setFromEnv(&c.OpenAI.APIKey, "DOCCHAT_OPENAI_API_KEY")
	setFromEnv(&c.OpenAI.Model, "DOCCHAT_OPENAI_MODEL")
	setFromEnv(&c.OpenAI.BaseURL, "DOCCHAT_OPENAI_BASE_URL")

	setFromEnv(&c.OpenRouter.APIKey, "DOCCHAT_OPENROUTER_API_KEY")
	setFromEnv(&c.OpenRouter.Model, "DOCCHAT_OPENROUTER_MODEL")

	if c.Validate() != nil {
		c.Discover()
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Discover probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and selects the first
// provider whose key is found. Returns false if none found.
func (c *Config) Discover() bool {
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		c.Provider = "gemini"
		c.Gemini.APIKey = k
		return true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		c.Provider = "openai"
		c.OpenAI.APIKey = k
		return true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		c.Provider = "anthropic"
		c.Anthropic.APIKey = k
		return true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		c.Provider = "openrouter"
		c.OpenRouter.APIKey = k
		return true
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY (or DOCCHAT_GEMINI_API_KEY) is required for the gemini provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("DOCCHAT_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("DOCCHAT_OPENAI_API_KEY is required for the openai provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("DOCCHAT_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
