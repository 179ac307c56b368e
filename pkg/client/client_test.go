package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modelfan/modelfan-go/pkg/api"
	"github.com/modelfan/modelfan-go/pkg/auth"
	"github.com/modelfan/modelfan-go/pkg/config"
)

func completionFixture(content, finishReason string) api.CompletionData {
	return api.CompletionData{
		Completions: map[string]api.ModelResult{
			"test-model": {
				Completion: api.Completion{
					ID:      "cmpl-1",
					Object:  "chat.completion",
					Model:   "test-model",
					Created: 1700000000,
					Usage:   api.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
					Choices: []api.Choice{
						{Message: api.NewAssistantContent(content), Index: 0, FinishReason: finishReason},
					},
				},
				Price: api.Price{Input: 0.001, Output: 0.002, Total: 0.003},
				Words: api.Words{Input: 8, Output: 12, Total: 20},
			},
		},
		OverallPrice: api.Price{Input: 0.001, Output: 0.002, Total: 0.003},
		OverallWords: api.Words{Input: 8, Output: 12, Total: 20},
	}
}

func TestCreateCompletion(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq CompletionRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(completionFixture("Hello world", "end_turn"))
	}))
	defer srv.Close()

	c := New(srv.URL, auth.StaticKey("mk-test"), 0)
	defer c.Close()

	data, err := c.CreateCompletion(context.Background(), &CompletionRequest{
		Models:  []string{"test-model"},
		Message: "hi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != CompletionPath {
		t.Errorf("expected path %q, got %q", CompletionPath, gotPath)
	}
	if gotAuth != "Bearer mk-test" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if gotReq.Message != "hi" || len(gotReq.Models) != 1 {
		t.Errorf("unexpected request body: %+v", gotReq)
	}

	result, ok := data.Completions["test-model"]
	if !ok {
		t.Fatalf("expected test-model entry, got %v", data.Completions)
	}
	// The payload is returned as the platform sent it, unparsed.
	msg := result.Completion.Choices[0].Message
	if msg.Content == nil || *msg.Content != "Hello world" {
		t.Errorf("expected raw content, got %v", msg.Content)
	}
	if result.Completion.Choices[0].FinishReason != "end_turn" {
		t.Errorf("expected raw finish reason, got %q", result.Completion.Choices[0].FinishReason)
	}
}

func TestComplete_RunsParsePipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionFixture(
			`<tool_call>{"name":"lookup","arguments":{"id":7}}</tool_call>`, "stop"))
	}))
	defer srv.Close()

	c := New(srv.URL, auth.StaticKey("mk-test"), 0)
	defer c.Close()

	completion, err := c.Complete(context.Background(), &CompletionRequest{
		Models:  []string{"test-model"},
		Message: "look up 7",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	choice := completion.Choices[0]
	if choice.Message.Content != nil {
		t.Errorf("expected content cleared, got %q", *choice.Message.Content)
	}
	if len(choice.Message.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(choice.Message.ToolCalls))
	}
	if choice.Message.ToolCalls[0].Function.Name != "lookup" {
		t.Errorf("expected tool call name %q, got %q", "lookup", choice.Message.ToolCalls[0].Function.Name)
	}
	if choice.FinishReason != api.FinishReasonToolCalls {
		t.Errorf("expected finish reason %q, got %q", api.FinishReasonToolCalls, choice.FinishReason)
	}
}

func TestComplete_EmptyResultSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.CompletionData{Completions: map[string]api.ModelResult{}})
	}))
	defer srv.Close()

	c := New(srv.URL, auth.StaticKey("mk-test"), 0)
	defer c.Close()

	_, err := c.Complete(context.Background(), &CompletionRequest{Message: "hi"})
	if !errors.Is(err, api.ErrNoCompletions) {
		t.Errorf("expected ErrNoCompletions, got %v", err)
	}
}

func TestComplete_MarkupDecodeErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionFixture(
			`<tool_call>{"arguments":{}}</tool_call>`, "stop"))
	}))
	defer srv.Close()

	c := New(srv.URL, auth.StaticKey("mk-test"), 0)
	defer c.Close()

	_, err := c.Complete(context.Background(), &CompletionRequest{Message: "hi"})
	var decodeErr *api.MarkupDecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected *api.MarkupDecodeError, got %v", err)
	}
}

func TestCreateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ImagePath {
			t.Errorf("expected path %q, got %q", ImagePath, r.URL.Path)
		}
		json.NewEncoder(w).Encode(api.ImageData{
			Zip:    "https://cdn.example/images.zip",
			Images: []string{"https://cdn.example/1.png", "https://cdn.example/2.png"},
			Price:  api.ImagePrice{PricePerImage: 10, QuantityImages: 2, Total: 20},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, auth.StaticKey("mk-test"), 0)
	defer c.Close()

	data, err := c.CreateImage(context.Background(), &ImageRequest{
		Model:       "image-model",
		Description: "a lighthouse at dusk",
		Variations:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Images) != 2 || data.Price.Total != 20 {
		t.Errorf("unexpected image payload: %+v", data)
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType api.ErrorType
		wantMsg  string
	}{
		{"bad request with message", http.StatusBadRequest,
			`{"error":{"type":"invalid_request","message":"models is required"}}`,
			api.ErrorTypeInvalidRequest, "models is required"},
		{"unauthorized", http.StatusUnauthorized, "", api.ErrorTypeServerError, "platform authentication failed"},
		{"not found", http.StatusNotFound, "", api.ErrorTypeNotFound, "platform resource not found"},
		{"rate limited", http.StatusTooManyRequests, "", api.ErrorTypeTooManyRequests, "platform rate limit exceeded"},
		{"server error", http.StatusInternalServerError, "", api.ErrorTypeServerError, "platform server error (HTTP 500)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			}))
			defer srv.Close()

			c := New(srv.URL, auth.StaticKey("mk-test"), 0)
			defer c.Close()

			_, err := c.CreateCompletion(context.Background(), &CompletionRequest{Message: "hi"})
			var apiErr *api.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *api.APIError, got %T: %v", err, err)
			}
			if apiErr.Type != tt.wantType {
				t.Errorf("expected type %q, got %q", tt.wantType, apiErr.Type)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("expected message %q, got %q", tt.wantMsg, apiErr.Message)
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Auth.APIKey = "mk-config"

	c, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	token, err := c.tokens.Token(context.Background())
	if err != nil || token != "mk-config" {
		t.Errorf("expected static key token, got %q, %v", token, err)
	}
	if c.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", c.baseURL)
	}
}

func TestNewFromConfig_ServiceAccount(t *testing.T) {
	cfg := config.Defaults()
	cfg.Auth.Type = "service_account"
	cfg.Auth.KeyID = "key-1"
	cfg.Auth.Secret = "s3cret"

	c, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	token, err := c.tokens.Token(context.Background())
	if err != nil {
		t.Fatalf("minting token failed: %v", err)
	}
	if token == "" {
		t.Error("expected non-empty JWT")
	}
}

func TestNewFromConfig_MissingKey(t *testing.T) {
	cfg := config.Defaults()

	_, err := NewFromConfig(&cfg)
	if !errors.Is(err, auth.ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}

func TestTokenSourceFailureAbortsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server without credentials")
	}))
	defer srv.Close()

	c := New(srv.URL, auth.StaticKey(""), 0)
	defer c.Close()

	_, err := c.CreateCompletion(context.Background(), &CompletionRequest{Message: "hi"})
	if !errors.Is(err, auth.ErrNoCredentials) {
		t.Errorf("expected ErrNoCredentials, got %v", err)
	}
}
