package api

import (
	"encoding/json"
	"regexp"
	"strings"
)

// toolCallPattern captures the body between an opening marker and the
// nearest following closing marker (non-greedy). Nested markers are not
// supported; backends do not emit them.
var toolCallPattern = regexp.MustCompile(`<tool_call>(.*?)</tool_call>`)

// syntheticCallID is assigned to every extracted call. Backends emit no
// identifier inside the markup, so the same literal is reused across all
// calls in a message.
const syntheticCallID = "func"

// ExtractToolCalls scans an assistant message's text for embedded
// <tool_call> markup and converts it into structured ToolCall records.
// Non-assistant messages and messages without content are left untouched,
// as are assistant messages whose text carries no markers.
//
// Newlines are stripped before scanning so that markup bodies whose JSON
// spans multiple lines still match. Either marker alone is enough to
// trigger an extraction attempt.
//
// Decoding is all-or-nothing per message: the first span that fails to
// decode as {name, arguments} aborts with a *MarkupDecodeError and the
// message keeps its original content and (absent) tool calls. On success
// the decoded calls replace the content, in left-to-right source order.
func (m *Message) ExtractToolCalls() error {
	if m.Role != RoleAssistant || m.Content == nil {
		return nil
	}
	text := *m.Content
	if !strings.Contains(text, "<tool_call>") && !strings.Contains(text, "</tool_call>") {
		return nil
	}

	matches := toolCallPattern.FindAllStringSubmatch(strings.ReplaceAll(text, "\n", ""), -1)
	calls := make([]ToolCall, 0, len(matches))
	for _, match := range matches {
		span := strings.TrimSpace(match[1])
		var fn FunctionData
		if err := json.Unmarshal([]byte(span), &fn); err != nil {
			return &MarkupDecodeError{Span: span, Err: err}
		}
		calls = append(calls, NewFunctionCall(syntheticCallID, fn))
	}

	m.ToolCalls = calls
	m.Content = nil
	return nil
}
