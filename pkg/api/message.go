package api

// MessageRole identifies the sender of a message. The role acts as the tag
// of a discriminated union: user, system, and tool messages carry only text
// content, while assistant messages may additionally carry tool calls.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
	RoleTool      MessageRole = "tool"
)

// Message is a role-tagged message within a choice.
//
// For the assistant role, Content is optional and ToolCalls may be set.
// As received from the platform, ToolCalls is always absent and Content may
// contain embedded <tool_call> markup; after ExtractToolCalls has decoded
// that markup, Content is nil and ToolCalls holds the decoded calls in
// left-to-right source order. Non-assistant roles always carry Content and
// never carry ToolCalls.
//
// Content marshals as JSON null when absent; ToolCalls is omitted entirely
// when absent, matching the downstream consumer's wire expectations.
type Message struct {
	Role      MessageRole `json:"role"`
	Content   *string     `json:"content"`
	ToolCalls []ToolCall  `json:"tool_calls,omitempty"`
}

// NewUserContent builds a user message with the given text.
func NewUserContent(content string) Message {
	return Message{Role: RoleUser, Content: &content}
}

// NewAssistantContent builds an assistant message holding plain text and no
// tool calls.
func NewAssistantContent(content string) Message {
	return Message{Role: RoleAssistant, Content: &content}
}

// NewAssistantToolCalls builds an assistant message holding only tool calls.
func NewAssistantToolCalls(calls []ToolCall) Message {
	return Message{Role: RoleAssistant, ToolCalls: calls}
}
