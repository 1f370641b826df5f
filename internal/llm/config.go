// Package llm provides the model invocation client: a provider-agnostic
// abstraction over chat-completion APIs with request normalization, a
// per-attempt timeout, and an allow-listed retry policy.
package llm

import (
	"strings"
	"time"
)

// Provider represents an LLM provider.
type Provider string

// Provider constants define supported LLM providers.
const (
	// ProviderOpenAI is any OpenAI-compatible chat-completions endpoint.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider.
	ProviderGemini Provider = "gemini"
	// ProviderAnthropic is the Anthropic/Claude provider.
	ProviderAnthropic Provider = "anthropic"
)

// DefaultRequestTimeout bounds a single HTTP attempt. It is kept below
// common proxy keep-alive limits so a stuck upstream surfaces as a clear
// timeout instead of a generic connection drop.
const DefaultRequestTimeout = 55 * time.Second

// placeholderKeys are values that indicate an unconfigured API key.
var placeholderKeys = map[string]bool{
	"":             true,
	"your-api-key": true,
	"changeme":     true,
	"xxx":          true,
}

// Config holds provider selection and connection settings for a client.
type Config struct {
	Provider Provider
	APIKey   string
	// BaseURL overrides the provider endpoint (OpenAI-compatible only).
	BaseURL string
	// DefaultModel is used when a request does not name a model.
	DefaultModel string
	// RequestTimeout bounds each HTTP attempt. Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration
	// MaxAttempts bounds the retry loop. Zero means the default of 3.
	MaxAttempts int
	// RetryDelays overrides the escalating delay schedule. Nil means
	// the default 1s/2s/4s.
	RetryDelays []time.Duration
}

// DefaultConfig returns the default configuration: an OpenAI-compatible
// endpoint with a mid-tier default model.
func DefaultConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		DefaultModel:   "gpt-4o-mini",
		RequestTimeout: DefaultRequestTimeout,
		MaxAttempts:    3,
	}
}

// Validate checks that the configuration can produce a working client.
// A missing or placeholder API key fails here, before any network call.
func (c *Config) Validate() error {
	key := strings.TrimSpace(strings.ToLower(c.APIKey))
	if placeholderKeys[key] {
		return &ConfigError{Setting: "api_key", Message: "API key is missing or a placeholder"}
	}
	if c.DefaultModel == "" {
		return &ConfigError{Setting: "default_model", Message: "a default model is required"}
	}
	return nil
}

func (c *Config) requestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}
	return c.RequestTimeout
}

func (c *Config) maxAttempts() int {
	if c.MaxAttempts <= 0 {
		return 3
	}
	return c.MaxAttempts
}
