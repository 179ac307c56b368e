package api

// Usage holds token usage statistics for a completion. The counters are
// supplied by the platform and passed through without validation; no
// arithmetic relationship between them is enforced here.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one candidate response within a completion. Index mirrors the
// position of the choice in the original choices array. FinishReason is the
// provider-supplied stop label; Completion.Parse may normalize it.
type Choice struct {
	Message      Message `json:"message"`
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason"`
}

// Completion is a single model's completion response.
type Completion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Model   string   `json:"model"`
	Created int64    `json:"created"`
	Usage   Usage    `json:"usage"`
	Choices []Choice `json:"choices"`
}

// Price is the cost breakdown for a model run: input tokens, output tokens,
// and the combined total. Values are computed by the platform.
type Price struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
	Total  float64 `json:"total"`
}

// Words is the word-count breakdown for a model run, computed by the platform.
type Words struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// ModelResult pairs one model's completion with its price and word-count
// bookkeeping.
type ModelResult struct {
	Completion Completion `json:"completion"`
	Price      Price      `json:"price"`
	Words      Words      `json:"words"`
}

// CompletionData is the payload of the prompt completion endpoint: the
// results of fanning one prompt out to several models, keyed by an opaque
// label (typically the model name), plus aggregate totals.
//
// The map carries no iteration order; nothing in this package depends on
// which entry comes "first".
type CompletionData struct {
	Completions  map[string]ModelResult `json:"completions"`
	OverallPrice Price                  `json:"overall_price"`
	OverallWords Words                  `json:"overall_words"`
}
