package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applyforge/applyforge/internal/agents"
	"github.com/applyforge/applyforge/internal/llm"
	"github.com/applyforge/applyforge/internal/pipeline"
)

type fixedClient struct {
	content string
}

func (f *fixedClient) Complete(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	return &llm.Response{Content: f.content, Model: req.Model}, nil
}

func (f *fixedClient) Provider() llm.Provider { return "stub" }
func (f *fixedClient) Close() error           { return nil }

func newHandler(content string) *Handler {
	return &Handler{Processor: &pipeline.Processor{
		Agents: agents.NewRuntime(&fixedClient{content: content}),
	}}
}

func asynqTask(t *testing.T, task pipeline.Task) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(task)
	require.NoError(t, err)
	return asynq.NewTask(TypeGTMPipeline, payload)
}

func TestProcessTask_UnknownStepSkipsRetry(t *testing.T) {
	h := newHandler(`{}`)

	err := h.ProcessTask(context.Background(), asynqTask(t, pipeline.Task{Step: "unknown_step"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry), "unknown steps must not be retried")
	assert.Contains(t, err.Error(), "Unknown step: unknown_step")
}

func TestProcessTask_MalformedPayloadSkipsRetry(t *testing.T) {
	h := newHandler(`{}`)

	err := h.ProcessTask(context.Background(), asynq.NewTask(TypeGTMPipeline, []byte(`{broken`)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestProcessTask_StepFailureIsRetryable(t *testing.T) {
	// The model returns garbage, so the step fails; that class of
	// failure is transient and should go back to the queue.
	h := newHandler(`not json`)

	err := h.ProcessTask(context.Background(), asynqTask(t, pipeline.Task{
		Step: pipeline.StepStrategy, Vertical: "tech",
	}))
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestProcessTask_SuccessReturnsNil(t *testing.T) {
	h := newHandler(`{
		"pieces": [{"title": "One", "body": "Body.", "call_to_action": "Go"}]
	}`)

	err := h.ProcessTask(context.Background(), asynqTask(t, pipeline.Task{
		Step: pipeline.StepContent, Channel: "linkedin", Vertical: "tech",
		Payload: json.RawMessage(`{"topic": "sourcing"}`),
	}))
	assert.NoError(t, err)
}
