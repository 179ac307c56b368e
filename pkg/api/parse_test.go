package api

import (
	"errors"
	"testing"
)

func TestParse_ExtractsAndNormalizes(t *testing.T) {
	// Scenario: one markup choice, one plain-text choice.
	c := Completion{
		ID:    "cmpl-1",
		Model: "test-model",
		Choices: []Choice{
			{
				Index:        0,
				Message:      NewAssistantContent(`<tool_call>{"name":"lookup","arguments":{"id":7}}</tool_call>`),
				FinishReason: "stop",
			},
			{
				Index:        1,
				Message:      NewAssistantContent("Hello world"),
				FinishReason: "end_turn",
			},
		},
	}

	if err := c.Parse(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := c.Choices[0]
	if first.Message.Content != nil {
		t.Errorf("expected content cleared on choice 0, got %q", *first.Message.Content)
	}
	if len(first.Message.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call on choice 0, got %d", len(first.Message.ToolCalls))
	}
	if first.FinishReason != FinishReasonToolCalls {
		t.Errorf("expected finish reason %q, got %q", FinishReasonToolCalls, first.FinishReason)
	}

	second := c.Choices[1]
	if second.Message.Content == nil || *second.Message.Content != "Hello world" {
		t.Errorf("expected content untouched on choice 1")
	}
	if second.FinishReason != FinishReasonStop {
		t.Errorf("expected finish reason %q, got %q", FinishReasonStop, second.FinishReason)
	}
}

func TestParse_FailFastKeepsEarlierMutations(t *testing.T) {
	c := Completion{
		Choices: []Choice{
			{
				Index:        0,
				Message:      NewAssistantContent(`<tool_call>{"name":"ok","arguments":{}}</tool_call>`),
				FinishReason: "stop",
			},
			{
				Index:        1,
				Message:      NewAssistantContent(`<tool_call>{"arguments":{}}</tool_call>`), // missing name
				FinishReason: "end_turn",
			},
			{
				Index:        2,
				Message:      NewAssistantContent("later choice"),
				FinishReason: "end_turn",
			},
		},
	}

	err := c.Parse()
	if err == nil {
		t.Fatal("expected a decode error")
	}
	var decodeErr *MarkupDecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *MarkupDecodeError, got %T: %v", err, err)
	}

	// Choice 0 was processed before the failure and keeps its mutations.
	if c.Choices[0].Message.Content != nil {
		t.Error("expected choice 0 content to stay cleared")
	}
	if c.Choices[0].FinishReason != FinishReasonToolCalls {
		t.Errorf("expected choice 0 finish reason %q, got %q",
			FinishReasonToolCalls, c.Choices[0].FinishReason)
	}

	// The failing choice committed nothing.
	if c.Choices[1].Message.Content == nil {
		t.Error("expected choice 1 content to be untouched")
	}
	if c.Choices[1].FinishReason != "end_turn" {
		t.Errorf("expected choice 1 finish reason untouched, got %q", c.Choices[1].FinishReason)
	}

	// Choices after the failure were never reached.
	if c.Choices[2].FinishReason != "end_turn" {
		t.Errorf("expected choice 2 untouched, got finish reason %q", c.Choices[2].FinishReason)
	}
}

func TestNormalizeFinishReason(t *testing.T) {
	tests := []struct {
		name   string
		choice Choice
		want   string
	}{
		{
			name:   "absent content forces tool_calls",
			choice: Choice{Message: NewAssistantToolCalls(nil), FinishReason: "stop"},
			want:   FinishReasonToolCalls,
		},
		{
			name:   "absent content overrides even tool-call-unrelated labels",
			choice: Choice{Message: NewAssistantToolCalls(nil), FinishReason: "length"},
			want:   FinishReasonToolCalls,
		},
		{
			name:   "end_turn with content becomes stop",
			choice: Choice{Message: NewAssistantContent("hi"), FinishReason: "end_turn"},
			want:   FinishReasonStop,
		},
		{
			name:   "other labels with content pass through",
			choice: Choice{Message: NewAssistantContent("hi"), FinishReason: "length"},
			want:   "length",
		},
		{
			name:   "non-assistant roles pass through",
			choice: Choice{Message: NewUserContent("hi"), FinishReason: "end_turn"},
			want:   "end_turn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.choice.normalizeFinishReason()
			if tt.choice.FinishReason != tt.want {
				t.Errorf("expected finish reason %q, got %q", tt.want, tt.choice.FinishReason)
			}
		})
	}
}

func TestParse_AlreadyProcessedCompletionIsStable(t *testing.T) {
	c := Completion{
		Choices: []Choice{
			{
				Index:        0,
				Message:      NewAssistantContent(`<tool_call>{"name":"lookup","arguments":{"id":7}}</tool_call>`),
				FinishReason: "stop",
			},
		},
	}
	if err := c.Parse(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Parse(); err != nil {
		t.Fatalf("unexpected error on second parse: %v", err)
	}
	if len(c.Choices[0].Message.ToolCalls) != 1 {
		t.Errorf("expected tool calls unchanged after re-parse")
	}
	if c.Choices[0].FinishReason != FinishReasonToolCalls {
		t.Errorf("expected finish reason stable, got %q", c.Choices[0].FinishReason)
	}
}
