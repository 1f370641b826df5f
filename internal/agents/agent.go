// Package agents implements the model-backed modules of the application
// pipeline. Each agent turns a typed input into a schema-validated
// structured output via one model call, with routing, caching, and run
// metrics layered around the call.
//
// Expected failure modes (empty model response, malformed JSON, upstream
// timeouts) surface as Outcome values, never as errors: callers must be
// able to tell "degraded, explain to the user" apart from "crash".
package agents

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/applyforge/applyforge/internal/cache"
	"github.com/applyforge/applyforge/internal/llm"
	"github.com/applyforge/applyforge/internal/routing"
	"github.com/applyforge/applyforge/internal/schemas"
)

// Outcome is the uniform result of an agent run: either OK with Data,
// or not OK with a user-presentable Message.
type Outcome[T any] struct {
	OK      bool   `json:"ok"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func success[T any](data T) Outcome[T] {
	return Outcome[T]{OK: true, Data: data}
}

func failure[T any](message string) Outcome[T] {
	return Outcome[T]{OK: false, Message: message}
}

// Runtime carries the shared collaborators every agent needs. A zero
// Cache field is replaced by a no-op cache; a nil Usage or Metrics field
// disables that recording.
type Runtime struct {
	Client  llm.Client
	Router  *routing.Router
	Usage   routing.UsageRecorder
	Cache   *cache.Cache
	Metrics Recorder
}

// NewRuntime builds a runtime, defaulting the router and cache.
func NewRuntime(client llm.Client, opts ...RuntimeOption) *Runtime {
	rt := &Runtime{
		Client: client,
		Router: routing.NewRouter(nil),
		Cache:  cache.New(nil),
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// RuntimeOption configures optional runtime collaborators.
type RuntimeOption func(*Runtime)

// WithRouter overrides the default tier-to-model mapping.
func WithRouter(r *routing.Router) RuntimeOption {
	return func(rt *Runtime) { rt.Router = r }
}

// WithUsage attaches a usage recorder to every model call.
func WithUsage(u routing.UsageRecorder) RuntimeOption {
	return func(rt *Runtime) { rt.Usage = u }
}

// WithCache attaches a cache for the agents that cache results.
func WithCache(c *cache.Cache) RuntimeOption {
	return func(rt *Runtime) { rt.Cache = c }
}

// WithMetrics attaches a run-metrics recorder.
func WithMetrics(m Recorder) RuntimeOption {
	return func(rt *Runtime) { rt.Metrics = m }
}

// callSpec describes one schema-constrained model call.
type callSpec struct {
	Task      string
	System    string
	User      string
	Schema    *schemas.Compiled
	MaxTokens int
	// CacheKey enables caching of the parsed result when non-empty.
	CacheKey string
	CacheTTL time.Duration
}

// completeJSON performs a model call with a json_schema response format,
// validates the response against the declared schema, and unmarshals it
// into T. Results are cached when the call carries a cache key.
func completeJSON[T any](ctx context.Context, rt *Runtime, spec callSpec) (T, error) {
	fetch := func(ctx context.Context) (T, error) {
		return invokeJSON[T](ctx, rt, spec)
	}
	if spec.CacheKey != "" && rt.Cache != nil {
		return cache.GetOrSet(ctx, rt.Cache, spec.CacheKey, spec.CacheTTL, fetch)
	}
	return fetch(ctx)
}

func invokeJSON[T any](ctx context.Context, rt *Runtime, spec callSpec) (T, error) {
	var zero T

	model := rt.Router.ModelFor(spec.Task)
	resp, err := rt.Client.Complete(ctx, &llm.Request{
		Model: model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: spec.System},
			{Role: llm.RoleUser, Content: spec.User},
		},
		ResponseFormat: &llm.ResponseFormat{
			Type:       llm.FormatJSONSchema,
			SchemaName: spec.Schema.Schema.Name,
			Schema:     spec.Schema.Document(),
		},
		MaxTokens: spec.MaxTokens,
	})
	if err != nil {
		return zero, err
	}
	rt.recordUsage(spec.Task, model, resp)

	raw := strings.TrimSpace(llm.CleanJSONBlock(resp.Content))
	if raw == "" {
		return zero, &llm.EmptyResponseError{Model: model}
	}
	if err := spec.Schema.Validate([]byte(raw)); err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return zero, fmt.Errorf("failed to parse model response: %w", err)
	}
	return out, nil
}

func (rt *Runtime) recordUsage(task, model string, resp *llm.Response) {
	if rt.Usage == nil {
		return
	}
	rt.Usage.Record(routing.UsageEntry{
		Task:         task,
		Model:        model,
		Tier:         routing.TierFor(task),
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
		Cost:         routing.EstimateCost(model, resp.Usage.InputTokens, resp.Usage.OutputTokens),
	})
}

// outcomeFromError maps an invocation error to a user-presentable
// failure outcome.
func outcomeFromError[T any](err error) Outcome[T] {
	var (
		timeoutErr    *llm.TimeoutError
		upstreamErr   *llm.UpstreamError
		emptyErr      *llm.EmptyResponseError
		validationErr *schemas.ValidationError
		configErr     *llm.ConfigError
	)
	switch {
	case errors.As(err, &timeoutErr):
		return failure[T]("The request timed out. Please try again.")
	case errors.As(err, &upstreamErr):
		return failure[T]("The model service is temporarily unavailable. Please try again.")
	case errors.As(err, &emptyErr):
		return failure[T]("The model returned an empty response.")
	case errors.As(err, &validationErr):
		return failure[T]("The model returned an unexpected format.")
	case errors.As(err, &configErr):
		return failure[T](fmt.Sprintf("Configuration problem: %v", err))
	default:
		return failure[T](fmt.Sprintf("The request failed: %v", err))
	}
}

// hashKey builds a short stable digest of the given parts, used as the
// variable segment of a cache key so long inputs do not produce
// unbounded keys.
func hashKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// clampScore rounds a raw model score and clamps it into [0, 100].
func clampScore(raw float64) int {
	score := int(math.Round(raw))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// capSlice truncates a slice to at most max elements.
func capSlice[T any](s []T, max int) []T {
	if len(s) > max {
		return s[:max]
	}
	return s
}

// defaultString substitutes fallback when value is blank.
func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
