// Package api defines the canonical types for the modelfan platform API:
// completions, choices, messages, tool calls, and the price/word bookkeeping
// attached to multi-model prompt results.
//
// It also implements the response post-processing pipeline. Backends on the
// platform emit pseudo function-call markup as plain text inside assistant
// messages (<tool_call>{...}</tool_call>); Completion.Parse extracts that
// markup into structured ToolCall records and reconciles each choice's
// finish_reason with the message state after extraction.
package api
