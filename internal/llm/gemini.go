package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// geminiClient adapts the Google Gemini SDK to the Client contract.
// JSON output is requested through the response MIME type; schema
// enforcement happens downstream via internal/schemas.
type geminiClient struct {
	client *genai.Client
	cfg    *Config
}

func newGeminiClient(ctx context.Context, cfg *Config) (*geminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiClient{client: client, cfg: cfg}, nil
}

func (c *geminiClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	return complete(ctx, c.cfg, c, req)
}

func (c *geminiClient) Provider() Provider { return ProviderGemini }

func (c *geminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *geminiClient) completeOnce(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Tools) > 0 {
		return nil, &ConfigError{Setting: "tools", Message: "tool declarations are not supported by the gemini provider"}
	}

	model := c.client.GenerativeModel(req.Model)
	if req.Temperature != nil {
		model.SetTemperature(float32(*req.Temperature))
	} else {
		model.SetTemperature(0.1) // Low temperature for consistent output
	}
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if rf := req.ResponseFormat; rf != nil && rf.Type != FormatText {
		model.ResponseMIMEType = "application/json"
	}

	// Gemini takes a system instruction separately from the turn history.
	var userParts []genai.Part
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
		case RoleUser, RoleAssistant:
			userParts = append(userParts, genai.Text(m.Content))
		}
	}
	if len(userParts) == 0 {
		return nil, &ConfigError{Setting: "messages", Message: "gemini requires at least one user message"}
	}

	resp, err := model.GenerateContent(ctx, userParts...)
	if err != nil {
		return nil, wrapGeminiError(err)
	}

	text, err := geminiText(resp)
	if err != nil {
		return nil, err
	}

	out := &Response{Content: text, Model: req.Model}
	if resp.UsageMetadata != nil {
		out.Usage = Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// geminiText extracts the concatenated text parts from a Gemini response.
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &EmptyResponseError{}
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &EmptyResponseError{}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", &EmptyResponseError{}
	}
	return strings.Join(parts, ""), nil
}

func wrapGeminiError(err error) error {
	var apierr *googleapi.Error
	if errors.As(err, &apierr) {
		return &UpstreamError{
			StatusCode: apierr.Code,
			Retryable:  RetryableStatus(apierr.Code),
			Cause:      err,
		}
	}
	return err
}
