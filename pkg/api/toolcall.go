package api

import (
	"encoding/json"
	"fmt"
)

// ToolCallTypeFunction is the only tool call variant the platform emits.
const ToolCallTypeFunction = "function"

// ToolCall is a structured function invocation recovered from assistant
// message markup. It is a type-tagged union with a single variant,
// "function".
type ToolCall struct {
	Type     string       `json:"type"`
	ID       string       `json:"id"`
	Function FunctionData `json:"function"`
}

// NewFunctionCall builds a function-variant ToolCall.
func NewFunctionCall(id string, fn FunctionData) ToolCall {
	return ToolCall{Type: ToolCallTypeFunction, ID: id, Function: fn}
}

// UnmarshalJSON decodes a ToolCall and rejects unknown variant tags, keeping
// the union closed the way a sum type would.
func (tc *ToolCall) UnmarshalJSON(data []byte) error {
	type wire ToolCall
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type != ToolCallTypeFunction {
		return fmt.Errorf("unknown tool call type %q", w.Type)
	}
	*tc = ToolCall(w)
	return nil
}

// FunctionData holds the name and arguments of a function call.
//
// The read and write contracts are intentionally asymmetric: Arguments is
// decoded from arbitrary structured JSON, but re-encodes as a single
// JSON-encoded text string ("{\"id\":7}" rather than {"id":7}), which is the
// wire shape the downstream consumer expects.
type FunctionData struct {
	Name      string
	Arguments any
}

// MarshalJSON serializes the function data with arguments double-encoded as
// a JSON string.
func (f FunctionData) MarshalJSON() ([]byte, error) {
	args, err := json.Marshal(f.Arguments)
	if err != nil {
		return nil, fmt.Errorf("encoding function arguments: %w", err)
	}
	type wire struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	}
	return json.Marshal(wire{Name: f.Name, Arguments: string(args)})
}

// UnmarshalJSON decodes function data from a JSON object. Both fields are
// required: a missing "name" or "arguments" key is an error, while an
// explicit null for "arguments" is a valid (null) argument value.
func (f *FunctionData) UnmarshalJSON(data []byte) error {
	var w struct {
		Name      *string         `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Name == nil {
		return fmt.Errorf("missing required field %q", "name")
	}
	if len(w.Arguments) == 0 {
		return fmt.Errorf("missing required field %q", "arguments")
	}
	var args any
	if err := json.Unmarshal(w.Arguments, &args); err != nil {
		return err
	}
	f.Name = *w.Name
	f.Arguments = args
	return nil
}
