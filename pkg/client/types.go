package client

// Platform API endpoint paths.
const (
	CompletionPath = "/v1/prompt/completion"
	ImagePath      = "/v0/image/generation"
)

// CompletionRequest is the request body for the prompt completion endpoint.
// The same prompt is fanned out to every model in Models; the platform
// returns one completion per model plus aggregate price/word totals.
type CompletionRequest struct {
	Models      []string `json:"models"`
	Message     string   `json:"message"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// ImageRequest is the request body for the image generation endpoint.
type ImageRequest struct {
	Model       string `json:"model"`
	Description string `json:"description"`
	Size        string `json:"size,omitempty"`
	Variations  int    `json:"variations,omitempty"`
}
