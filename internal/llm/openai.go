package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// openAIClient speaks the chat-completions wire contract against any
// OpenAI-compatible endpoint. This is the default provider.
type openAIClient struct {
	client openai.Client
	cfg    *Config
}

func newOpenAIClient(cfg *Config) (*openAIClient, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// SDK-internal retries off: the allow-list and delay schedule
		// live in internal/retry so the policy is testable in one place.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &openAIClient{client: openai.NewClient(opts...), cfg: cfg}, nil
}

func (c *openAIClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	return complete(ctx, c.cfg, c, req)
}

func (c *openAIClient) Provider() Provider { return ProviderOpenAI }

func (c *openAIClient) Close() error { return nil }

func (c *openAIClient) completeOnce(ctx context.Context, req *Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(req.Model),
		Messages: buildOpenAIMessages(req.Messages),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if len(req.Tools) > 0 {
		params.Tools = buildOpenAITools(req.Tools)
	}
	if req.ToolChoice != nil {
		params.ToolChoice = buildOpenAIToolChoice(req.ToolChoice)
	}
	if rf := req.ResponseFormat; rf != nil {
		switch rf.Type {
		case FormatJSONObject:
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			}
		case FormatJSONSchema:
			name := rf.SchemaName
			if name == "" {
				name = "structured_output"
			}
			params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
					JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
						Name:   name,
						Schema: rf.Schema,
						Strict: openai.Bool(true),
					},
				},
			}
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, &EmptyResponseError{Model: req.Model}
	}

	choice := resp.Choices[0]
	out := &Response{
		Content: choice.Message.Content,
		Model:   resp.Model,
		Usage: Usage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		},
	}
	for _, tc := range choice.Message.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	return out, nil
}

func buildOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			result = append(result, openai.SystemMessage(m.Content))
		case RoleAssistant:
			result = append(result, openai.AssistantMessage(m.Content))
		case RoleUser:
			if len(m.Parts) > 0 {
				result = append(result, openai.UserMessage(buildOpenAIParts(m.Parts)))
			} else {
				result = append(result, openai.UserMessage(m.Content))
			}
		}
	}
	return result
}

func buildOpenAIParts(parts []ContentPart) []openai.ChatCompletionContentPartUnionParam {
	result := make([]openai.ChatCompletionContentPartUnionParam, 0, len(parts))
	for _, p := range parts {
		switch p.Type {
		case PartText:
			result = append(result, openai.TextContentPart(p.Text))
		case PartImage:
			result = append(result, openai.ImageContentPart(
				openai.ChatCompletionContentPartImageImageURLParam{URL: p.ImageURL}))
		case PartFile:
			result = append(result, openai.FileContentPart(
				openai.ChatCompletionContentPartFileFileParam{FileID: openai.String(p.FileID)}))
		}
	}
	return result
}

func buildOpenAITools(tools []Tool) []openai.ChatCompletionToolParam {
	result := make([]openai.ChatCompletionToolParam, len(tools))
	for i, t := range tools {
		def := shared.FunctionDefinitionParam{
			Name:       t.Name,
			Parameters: shared.FunctionParameters(t.Parameters),
		}
		if t.Description != "" {
			def.Description = openai.String(t.Description)
		}
		result[i] = openai.ChatCompletionToolParam{Function: def}
	}
	return result
}

func buildOpenAIToolChoice(tc *ToolChoice) openai.ChatCompletionToolChoiceOptionUnionParam {
	switch tc.Mode {
	case ToolChoiceNamed:
		return openai.ChatCompletionToolChoiceOptionUnionParam{
			OfChatCompletionNamedToolChoice: &openai.ChatCompletionNamedToolChoiceParam{
				Function: openai.ChatCompletionNamedToolChoiceFunctionParam{Name: tc.Name},
			},
		}
	default:
		return openai.ChatCompletionToolChoiceOptionUnionParam{
			OfAuto: openai.String(string(tc.Mode)),
		}
	}
}

func wrapOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &UpstreamError{
			StatusCode: apierr.StatusCode,
			Retryable:  RetryableStatus(apierr.StatusCode),
			Cause:      err,
		}
	}
	return err
}
