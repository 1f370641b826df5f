package agents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// RunRecord captures one agent run for observability.
type RunRecord struct {
	Agent    string
	Duration time.Duration
	Success  bool
	Message  string
	At       time.Time
}

// Recorder receives a record for every agent run, success or failure.
// Implementations must not block the caller for long; recording failures
// are the recorder's problem, not the agent's.
type Recorder interface {
	RecordRun(ctx context.Context, rec RunRecord)
}

var inputValidator = validator.New()

// validateInput checks an agent input against its declared struct tags.
// Returns "" when valid, otherwise a user-presentable message.
func validateInput(in any) string {
	err := inputValidator.Struct(in)
	if err == nil {
		return ""
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if fieldErrs[0].Tag() == "required" {
			return fmt.Sprintf("Missing required input: %s.", fieldErrs[0].Field())
		}
		return fmt.Sprintf("Invalid input: %s.", fieldErrs[0].Field())
	}
	return "Invalid input."
}

// runAgent wraps an agent body with input validation and run metrics so
// agent bodies contain neither. Inputs are validated before any model
// call; the record fires on every path out of the body, including
// panics, which additionally convert to a failure outcome rather than
// crashing the worker.
func runAgent[In, Out any](ctx context.Context, rt *Runtime, agent string, in In, body func(context.Context, *Runtime, In) Outcome[Out]) (out Outcome[Out]) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = failure[Out](fmt.Sprintf("Internal error: %v", r))
		}
		if rt.Metrics != nil {
			rt.Metrics.RecordRun(ctx, RunRecord{
				Agent:    agent,
				Duration: time.Since(start),
				Success:  out.OK,
				Message:  out.Message,
				At:       start,
			})
		}
	}()
	if msg := validateInput(in); msg != "" {
		return failure[Out](msg)
	}
	return body(ctx, rt, in)
}
