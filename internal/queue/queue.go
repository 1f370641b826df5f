// Package queue wires pipeline tasks into an asynq-backed work queue.
// Retry and backoff for failed steps live here, in the queue, not in the
// steps themselves.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/applyforge/applyforge/internal/pipeline"
)

// TypeGTMPipeline is the asynq task type for pipeline steps.
const TypeGTMPipeline = "gtm:pipeline"

// defaultMaxRetry bounds queue-level retries for a failed step.
const defaultMaxRetry = 3

// Client enqueues pipeline tasks.
type Client struct {
	inner *asynq.Client
}

// NewClient creates an enqueue-side client against redis at addr.
func NewClient(addr, password string) *Client {
	return &Client{inner: asynq.NewClient(asynq.RedisClientOpt{
		Addr:     addr,
		Password: password,
	})}
}

// Enqueue schedules one pipeline task.
func (c *Client) Enqueue(ctx context.Context, task pipeline.Task) (string, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("failed to encode task: %w", err)
	}
	info, err := c.inner.EnqueueContext(ctx,
		asynq.NewTask(TypeGTMPipeline, payload),
		asynq.MaxRetry(defaultMaxRetry),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue %s: %w", task.Step, err)
	}
	return info.ID, nil
}

// Close releases the client's redis connections.
func (c *Client) Close() error {
	return c.inner.Close()
}

// Handler adapts a pipeline processor to asynq's handler interface.
type Handler struct {
	Processor *pipeline.Processor
}

// ProcessTask runs one queued pipeline step. Unknown steps are not
// retried: re-running them can never succeed. Other failures return an
// error so asynq retries with its backoff.
func (h *Handler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var task pipeline.Task
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("malformed task payload: %v: %w", err, asynq.SkipRetry)
	}

	result := h.Processor.Process(ctx, task)
	if result.OK {
		return nil
	}
	if strings.HasPrefix(result.Message, "Unknown step") {
		return fmt.Errorf("%s: %w", result.Message, asynq.SkipRetry)
	}
	return fmt.Errorf("step %s failed: %s", task.Step, result.Message)
}

// WorkerConfig configures the queue worker.
type WorkerConfig struct {
	RedisAddr     string
	RedisPassword string
	Concurrency   int
}

// RunWorker blocks serving queued pipeline tasks until the server stops.
func RunWorker(cfg WorkerConfig, processor *pipeline.Processor) error {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		asynq.Config{Concurrency: concurrency},
	)

	mux := asynq.NewServeMux()
	mux.Handle(TypeGTMPipeline, &Handler{Processor: processor})
	return srv.Run(mux)
}
