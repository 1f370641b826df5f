package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicClient adapts the Anthropic Messages API to the Client
// contract. Anthropic has no response_format, so a json_schema request is
// emulated by appending the schema to the system instruction; schema
// enforcement happens downstream via internal/schemas either way.
type anthropicClient struct {
	client anthropic.Client
	cfg    *Config
}

func newAnthropicClient(cfg *Config) (*anthropicClient, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicClient{client: anthropic.NewClient(opts...), cfg: cfg}, nil
}

func (c *anthropicClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	return complete(ctx, c.cfg, c, req)
}

func (c *anthropicClient) Provider() Provider { return ProviderAnthropic }

func (c *anthropicClient) Close() error { return nil }

func (c *anthropicClient) completeOnce(ctx context.Context, req *Request) (*Response, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(maxTokens),
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	var system string
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
		case RoleUser:
			params.Messages = append(params.Messages,
				anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case RoleAssistant:
			params.Messages = append(params.Messages,
				anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	if rf := req.ResponseFormat; rf != nil && rf.Type == FormatJSONSchema {
		doc, err := json.Marshal(rf.Schema)
		if err != nil {
			return nil, &ConfigError{Setting: "response_format", Message: fmt.Sprintf("schema is not serializable: %v", err)}
		}
		if system != "" {
			system += "\n\n"
		}
		system += "Respond with a single JSON object matching this JSON Schema exactly, with no other text:\n" + string(doc)
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	if len(req.Tools) > 0 {
		params.Tools = buildAnthropicTools(req.Tools)
	}
	if tc := req.ToolChoice; tc != nil {
		switch tc.Mode {
		case ToolChoiceAuto:
			params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
		case ToolChoiceRequired:
			params.ToolChoice = anthropic.ToolChoiceUnionParam{OfAny: &anthropic.ToolChoiceAnyParam{}}
		case ToolChoiceNamed:
			params.ToolChoice = anthropic.ToolChoiceUnionParam{
				OfTool: &anthropic.ToolChoiceToolParam{Name: tc.Name},
			}
		}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, wrapAnthropicError(err)
	}

	out := &Response{
		Model: string(msg.Model),
		Usage: Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
			TotalTokens:  int(msg.Usage.InputTokens + msg.Usage.OutputTokens),
		},
	}
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			out.Content += block.Text
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: string(block.Input),
			})
		}
	}
	if out.Content == "" && len(out.ToolCalls) == 0 {
		return nil, &EmptyResponseError{Model: req.Model}
	}
	return out, nil
}

func buildAnthropicTools(tools []Tool) []anthropic.ToolUnionParam {
	result := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		tool := anthropic.ToolParam{
			Name: t.Name,
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: t.Parameters["properties"],
			},
		}
		if t.Description != "" {
			tool.Description = anthropic.String(t.Description)
		}
		result[i] = anthropic.ToolUnionParam{OfTool: &tool}
	}
	return result
}

func wrapAnthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &UpstreamError{
			StatusCode: apierr.StatusCode,
			Retryable:  RetryableStatus(apierr.StatusCode),
			Cause:      err,
		}
	}
	return err
}
