package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryableStatus(t *testing.T) {
	for _, status := range []int{429, 502, 503, 504} {
		assert.True(t, RetryableStatus(status), "status %d", status)
	}
	for _, status := range []int{400, 401, 403, 404, 422, 500} {
		assert.False(t, RetryableStatus(status), "status %d", status)
	}
}

func TestIsRetryable_Timeout(t *testing.T) {
	assert.True(t, IsRetryable(&TimeoutError{Cause: errors.New("deadline")}))
	assert.True(t, IsRetryable(context.DeadlineExceeded))
}

func TestIsRetryable_UpstreamByStatus(t *testing.T) {
	assert.True(t, IsRetryable(&UpstreamError{StatusCode: 429, Retryable: true}))
	assert.False(t, IsRetryable(&UpstreamError{StatusCode: 401, Retryable: false}))
}

func TestIsRetryable_WrappedUpstream(t *testing.T) {
	err := fmt.Errorf("attempt failed: %w", &UpstreamError{StatusCode: 503, Retryable: true})
	assert.True(t, IsRetryable(err))
}

func TestIsRetryable_ConfigErrorNotRetryable(t *testing.T) {
	assert.False(t, IsRetryable(&ConfigError{Setting: "api_key", Message: "missing"}))
}

func TestIsRetryable_ConnectionLevelFailure(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	assert.True(t, IsRetryable(opErr))
}

func TestEnrichTransportError_DNS(t *testing.T) {
	dnsErr := &net.DNSError{Err: "no such host", Name: "api.example.com"}
	wrapped := fmt.Errorf("fetch failed: %w", dnsErr)

	enriched := enrichTransportError(wrapped)
	assert.Contains(t, enriched.Error(), "no such host")
	assert.ErrorIs(t, enriched, dnsErr)
}

func TestEnrichTransportError_NilAndPlain(t *testing.T) {
	assert.NoError(t, enrichTransportError(nil))

	plain := errors.New("bad schema")
	assert.Equal(t, plain, enrichTransportError(plain))
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "your-api-key"
	err := cfg.Validate()
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)

	cfg.APIKey = "sk-live-abc123"
	assert.NoError(t, cfg.Validate())

	cfg.DefaultModel = ""
	assert.Error(t, cfg.Validate())
}
