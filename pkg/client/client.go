package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelfan/modelfan-go/pkg/api"
	"github.com/modelfan/modelfan-go/pkg/auth"
	"github.com/modelfan/modelfan-go/pkg/debug"
	"github.com/modelfan/modelfan-go/pkg/observability"
)

// DefaultBaseURL is the production platform endpoint.
const DefaultBaseURL = "https://api.modelfan.ai"

// Client performs HTTP requests against the platform API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     auth.TokenSource
}

// New creates a Client for the given base URL and credentials. An empty
// baseURL selects the production endpoint; a zero timeout defaults to 120s.
func New(baseURL string, tokens auth.TokenSource, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if timeout == 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		tokens:  tokens,
	}
}

// CreateCompletion sends a prompt to the completion endpoint and returns the
// decoded multi-model payload as the platform sent it. Callers select a
// completion (CompletionData.First or the Completions map) and run Parse on
// it themselves; see Complete for the combined operation.
func (c *Client) CreateCompletion(ctx context.Context, req *CompletionRequest) (*api.CompletionData, error) {
	var data api.CompletionData
	if err := c.post(ctx, CompletionPath, req, &data); err != nil {
		return nil, err
	}

	for _, result := range data.Completions {
		observability.RecordModelResult(result)
	}
	return &data, nil
}

// Complete sends a prompt, selects an arbitrary completion from the result
// set, and post-processes it: tool-call markup is extracted into structured
// records and finish reasons are normalized.
func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (api.Completion, error) {
	data, err := c.CreateCompletion(ctx, req)
	if err != nil {
		return api.Completion{}, err
	}

	completion, err := data.First()
	if err != nil {
		return api.Completion{}, err
	}
	if err := completion.Parse(); err != nil {
		return api.Completion{}, err
	}

	for _, choice := range completion.Choices {
		if n := len(choice.Message.ToolCalls); n > 0 {
			observability.ToolCallsExtracted.WithLabelValues(completion.Model).Add(float64(n))
			debug.Log("parse", "extracted tool calls",
				"model", completion.Model,
				"choice", choice.Index,
				"count", n,
			)
		}
	}
	return completion, nil
}

// CreateImage sends an image generation request and returns the decoded
// payload: a zip archive URL, individual image URLs, and the price charged.
func (c *Client) CreateImage(ctx context.Context, req *ImageRequest) (*api.ImageData, error) {
	var data api.ImageData
	if err := c.post(ctx, ImagePath, req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// post sends a JSON payload to the given endpoint and decodes the response
// body into out.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return api.NewServerError(fmt.Sprintf("failed to marshal request: %s", err.Error()))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return api.NewServerError(fmt.Sprintf("failed to create HTTP request: %s", err.Error()))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("obtaining bearer token: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	debug.Log("client", "request", "endpoint", path, "bytes", len(body))

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	observability.RequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.RequestsTotal.WithLabelValues(path, "error").Inc()
		return MapNetworkError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		observability.RequestsTotal.WithLabelValues(path, "error").Inc()
		return MapHTTPError(httpResp)
	}
	observability.RequestsTotal.WithLabelValues(path, "ok").Inc()

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return api.NewServerError(fmt.Sprintf("failed to parse platform response: %s", err.Error()))
	}

	debug.Log("client", "response", "endpoint", path, "status", httpResp.StatusCode)
	return nil
}

// Close releases client resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
