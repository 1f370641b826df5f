package llm

import (
	"context"
	"fmt"

	"github.com/applyforge/applyforge/internal/retry"
)

// Client is an abstraction over LLM providers.
type Client interface {
	// Complete sends one normalized completion request, retrying
	// transient upstream failures per the client's retry policy.
	Complete(ctx context.Context, req *Request) (*Response, error)
	// Provider returns the backing provider identifier.
	Provider() Provider
	// Close releases any resources held by the client.
	Close() error
}

// completer performs a single provider attempt with no retry of its own.
type completer interface {
	completeOnce(ctx context.Context, req *Request) (*Response, error)
}

// NewClient creates a client for the configured provider. The API key is
// validated here so a missing key fails before any network attempt.
func NewClient(ctx context.Context, cfg *Config) (Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case ProviderOpenAI, "":
		return newOpenAIClient(cfg)
	case ProviderGemini:
		return newGeminiClient(ctx, cfg)
	case ProviderAnthropic:
		return newAnthropicClient(cfg)
	default:
		return nil, &ConfigError{Setting: "provider", Message: fmt.Sprintf("unknown provider %q", cfg.Provider)}
	}
}

// complete is the shared invocation path: normalize, then run attempts
// under the retry policy with a per-attempt wall-clock budget.
func complete(ctx context.Context, cfg *Config, c completer, req *Request) (*Response, error) {
	if err := normalizeRequest(req, cfg.DefaultModel); err != nil {
		return nil, err
	}

	policy := retry.DefaultPolicy(IsRetryable)
	policy.MaxAttempts = cfg.maxAttempts()
	if cfg.RetryDelays != nil {
		policy.Delays = cfg.RetryDelays
	}

	var resp *Response
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.requestTimeout())
		defer cancel()

		r, err := c.completeOnce(attemptCtx, req)
		if err != nil {
			if attemptCtx.Err() == context.DeadlineExceeded {
				return &TimeoutError{Cause: err}
			}
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, enrichTransportError(err)
	}
	return resp, nil
}
