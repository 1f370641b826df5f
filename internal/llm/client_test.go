package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter scripts per-attempt results for the shared invocation path.
type fakeCompleter struct {
	errs  []error
	resp  *Response
	calls int
}

func (f *fakeCompleter) completeOnce(ctx context.Context, req *Request) (*Response, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return nil, f.errs[f.calls-1]
	}
	return f.resp, nil
}

func testConfig() *Config {
	return &Config{
		Provider:       ProviderOpenAI,
		APIKey:         "sk-test",
		DefaultModel:   "model-a",
		RequestTimeout: time.Second,
		MaxAttempts:    3,
		RetryDelays:    []time.Duration{time.Millisecond, time.Millisecond},
	}
}

func userRequest() *Request {
	return &Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}}
}

func TestComplete_RetriesTransientThenSucceeds(t *testing.T) {
	fake := &fakeCompleter{
		errs: []error{
			&UpstreamError{StatusCode: 503, Retryable: true},
			&UpstreamError{StatusCode: 429, Retryable: true},
		},
		resp: &Response{Content: "ok", Model: "model-a"},
	}

	resp, err := complete(context.Background(), testConfig(), fake, userRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, fake.calls)
}

func TestComplete_NonRetryableFailsImmediately(t *testing.T) {
	fake := &fakeCompleter{
		errs: []error{&UpstreamError{StatusCode: 401, Retryable: false}},
	}

	_, err := complete(context.Background(), testConfig(), fake, userRequest())
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 401, ue.StatusCode)
	assert.Equal(t, 1, fake.calls)
}

func TestComplete_ExhaustedSurfacesLastError(t *testing.T) {
	fake := &fakeCompleter{
		errs: []error{
			&UpstreamError{StatusCode: 503, Retryable: true},
			&UpstreamError{StatusCode: 503, Retryable: true},
			&UpstreamError{StatusCode: 429, Retryable: true},
		},
	}

	_, err := complete(context.Background(), testConfig(), fake, userRequest())
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 429, ue.StatusCode)
	assert.Equal(t, 3, fake.calls)
}

func TestComplete_NormalizationFailsBeforeAnyAttempt(t *testing.T) {
	fake := &fakeCompleter{resp: &Response{Content: "ok"}}
	req := &Request{
		Messages:       []Message{{Role: RoleUser, Content: "hi"}},
		ResponseFormat: &ResponseFormat{Type: FormatJSONSchema},
	}

	_, err := complete(context.Background(), testConfig(), fake, req)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 0, fake.calls, "no network attempt after a configuration error")
}

func TestNewClient_MissingKeyFailsFast(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = ""
	_, err := NewClient(context.Background(), cfg)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "api_key", cfgErr.Setting)
}
