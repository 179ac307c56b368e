// Command demo walks through the completion post-processing pipeline
// offline: it decodes a canned multi-model payload, selects a completion,
// extracts tool-call markup, and normalizes finish reasons.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/modelfan/modelfan-go/pkg/api"
)

// payload is what the platform returns for a two-model prompt: one model
// answered with text, the other emitted tool-call markup.
const payload = `{
  "completions": {
    "meta-llama/Llama-3-8B": {
      "completion": {
        "id": "cmpl-demo-text",
        "object": "chat.completion",
        "model": "meta-llama/Llama-3-8B",
        "created": 1700000000,
        "usage": {"prompt_tokens": 12, "completion_tokens": 8, "total_tokens": 20},
        "choices": [
          {
            "message": {"role": "assistant", "content": "The capital of France is Paris."},
            "index": 0,
            "finish_reason": "end_turn"
          }
        ]
      },
      "price": {"input": 0.012, "output": 0.008, "total": 0.02},
      "words": {"input": 7, "output": 6, "total": 13}
    },
    "qwen/Qwen2-72B": {
      "completion": {
        "id": "cmpl-demo-tool",
        "object": "chat.completion",
        "model": "qwen/Qwen2-72B",
        "created": 1700000000,
        "usage": {"prompt_tokens": 20, "completion_tokens": 15, "total_tokens": 35},
        "choices": [
          {
            "message": {
              "role": "assistant",
              "content": "<tool_call>{\"name\":\"get_weather\",\"arguments\":{\"location\":\"Paris\",\"unit\":\"celsius\"}}</tool_call>"
            },
            "index": 0,
            "finish_reason": "end_turn"
          }
        ]
      },
      "price": {"input": 0.02, "output": 0.015, "total": 0.035},
      "words": {"input": 7, "output": 9, "total": 16}
    }
  },
  "overall_price": {"input": 0.032, "output": 0.023, "total": 0.055},
  "overall_words": {"input": 14, "output": 15, "total": 29}
}`

func main() {
	fmt.Println("=== modelfan post-processing demo ===")
	fmt.Println()

	// 1. Decode the multi-model payload.
	var data api.CompletionData
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		fmt.Printf("Decode FAILED: %v\n", err)
		return
	}
	fmt.Printf("[1] Decoded payload: %d completions, overall price %.3f\n",
		len(data.Completions), data.OverallPrice.Total)

	// 2. Walk each model's completion through the parse pipeline.
	for model, result := range data.Completions {
		completion := result.Completion
		if err := completion.Parse(); err != nil {
			fmt.Printf("    %s: parse FAILED: %v\n", model, err)
			continue
		}

		choice := completion.Choices[0]
		fmt.Printf("\n[2] %s (finish_reason=%s)\n", model, choice.FinishReason)
		if choice.Message.Content != nil {
			fmt.Printf("    content: %q\n", *choice.Message.Content)
		}
		for _, call := range choice.Message.ToolCalls {
			args, _ := json.Marshal(call.Function.Arguments)
			fmt.Printf("    tool call: id=%s name=%s args=%s\n",
				call.ID, call.Function.Name, args)
		}
	}

	// 3. First selects an arbitrary completion from the keyed set.
	selected, err := data.First()
	if err != nil {
		fmt.Printf("Selection FAILED: %v\n", err)
		return
	}
	fmt.Printf("\n[3] Selected completion: %s (model %s)\n", selected.ID, selected.Model)

	// 4. Parsed messages serialize with structured tool calls.
	parsed := selected
	_ = parsed.Parse()
	out, _ := json.MarshalIndent(parsed.Choices[0].Message, "", "  ")
	fmt.Printf("\n[4] Parsed message JSON:\n%s\n", out)

	// 5. Empty result sets yield a typed error.
	empty := api.CompletionData{Completions: map[string]api.ModelResult{}}
	if _, err := empty.First(); err != nil {
		fmt.Printf("\n[5] Empty result set: %v\n", err)
	}

	// 6. Malformed markup surfaces span and cause.
	bad := api.NewAssistantContent(`<tool_call>{"arguments":{}}</tool_call>`)
	if err := bad.ExtractToolCalls(); err != nil {
		fmt.Printf("\n[6] Malformed markup: %v\n", err)
	}

	fmt.Println("\n=== demo complete ===")
}
