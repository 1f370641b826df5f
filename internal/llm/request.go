package llm

// Role identifies the author of a chat message.
type Role string

// Chat message roles.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// PartType identifies the kind of a typed content part.
type PartType string

// Content part kinds.
const (
	PartText  PartType = "text"
	PartImage PartType = "image_url"
	PartFile  PartType = "file"
)

// ContentPart is one typed segment of a multi-part message.
type ContentPart struct {
	Type     PartType
	Text     string
	ImageURL string
	FileID   string
}

// Message is one role/content entry in the conversation. Content carries
// plain text; Parts carries typed segments. When both are set, Parts wins.
type Message struct {
	Role    Role
	Content string
	Parts   []ContentPart
}

// Tool declares a function the model may call.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolChoiceMode selects how the model may use declared tools.
type ToolChoiceMode string

// Tool choice modes.
const (
	ToolChoiceNone     ToolChoiceMode = "none"
	ToolChoiceAuto     ToolChoiceMode = "auto"
	ToolChoiceRequired ToolChoiceMode = "required"
	ToolChoiceNamed    ToolChoiceMode = "named"
)

// ToolChoice constrains tool usage. Name is only read in named mode.
type ToolChoice struct {
	Mode ToolChoiceMode
	Name string
}

// ResponseFormatType selects the output constraint for the model.
type ResponseFormatType string

// Response format kinds.
const (
	FormatText       ResponseFormatType = "text"
	FormatJSONObject ResponseFormatType = "json_object"
	FormatJSONSchema ResponseFormatType = "json_schema"
)

// ResponseFormat constrains model output. Schema is required for
// FormatJSONSchema and must be a non-empty JSON-Schema document.
type ResponseFormat struct {
	Type       ResponseFormatType
	SchemaName string
	Schema     map[string]any
}

// Request is a single normalized completion request.
type Request struct {
	// Model overrides the client's default model when non-empty.
	Model          string
	Messages       []Message
	Tools          []Tool
	ToolChoice     *ToolChoice
	ResponseFormat *ResponseFormat
	MaxTokens      int
	Temperature    *float64
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Usage holds token accounting for one completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response is the uniform result envelope across providers.
type Response struct {
	Content   string
	ToolCalls []ToolCall
	Model     string
	Usage     Usage
}

// normalizeRequest validates and canonicalizes a request before any
// network attempt. Violations are configuration errors, never retried.
func normalizeRequest(req *Request, defaultModel string) error {
	if req == nil || len(req.Messages) == 0 {
		return &ConfigError{Setting: "messages", Message: "at least one message is required"}
	}
	if req.Model == "" {
		req.Model = defaultModel
	}

	// Provider compatibility: a message whose content is a single text
	// part collapses to a bare string.
	for i := range req.Messages {
		m := &req.Messages[i]
		if len(m.Parts) == 1 && m.Parts[0].Type == PartText {
			m.Content = m.Parts[0].Text
			m.Parts = nil
		}
	}

	if req.ToolChoice != nil {
		switch req.ToolChoice.Mode {
		case ToolChoiceRequired:
			if len(req.Tools) != 1 {
				return &ConfigError{
					Setting: "tool_choice",
					Message: "tool_choice \"required\" needs exactly one declared tool",
				}
			}
		case ToolChoiceNamed:
			if req.ToolChoice.Name == "" {
				return &ConfigError{Setting: "tool_choice", Message: "named tool_choice needs a tool name"}
			}
		}
	}

	if rf := req.ResponseFormat; rf != nil && rf.Type == FormatJSONSchema {
		if len(rf.Schema) == 0 {
			return &ConfigError{
				Setting: "response_format",
				Message: "json_schema response format requires a non-empty schema",
			}
		}
	}

	return nil
}
