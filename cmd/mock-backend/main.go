// Command mock-backend runs a deterministic platform server for testing
// the client against realistic payloads. It returns predictable completion
// and image responses based on request content analysis, including
// assistant messages carrying <tool_call> markup.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/prompt/completion", handleCompletion)
	mux.HandleFunc("POST /v0/image/generation", handleImage)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Request types ---

type completionRequest struct {
	Models      []string `json:"models"`
	Message     string   `json:"message"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

type imageRequest struct {
	Model       string `json:"model"`
	Description string `json:"description"`
	Size        string `json:"size,omitempty"`
	Variations  int    `json:"variations"`
}

// --- Response types ---

type completionData struct {
	Completions  map[string]modelResult `json:"completions"`
	OverallPrice price                  `json:"overall_price"`
	OverallWords words                  `json:"overall_words"`
}

type modelResult struct {
	Completion completion `json:"completion"`
	Price      price      `json:"price"`
	Words      words      `json:"words"`
}

type completion struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Model   string   `json:"model"`
	Created int64    `json:"created"`
	Usage   usage    `json:"usage"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Message      message `json:"message"`
	Index        int     `json:"index"`
	FinishReason string  `json:"finish_reason"`
}

type message struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type price struct {
	Input  float64 `json:"input"`
	Output float64 `json:"output"`
	Total  float64 `json:"total"`
}

type words struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// --- Handlers ---

func handleCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"type":"invalid_request","message":"invalid request"}}`, http.StatusBadRequest)
		return
	}

	if len(req.Models) == 0 {
		http.Error(w, `{"error":{"type":"invalid_request","message":"models is required"}}`, http.StatusBadRequest)
		return
	}

	data := completionData{Completions: map[string]modelResult{}}
	for _, model := range req.Models {
		result := classifyAndRespond(model, req.Message)
		data.Completions[model] = result
		data.OverallPrice.Input += result.Price.Input
		data.OverallPrice.Output += result.Price.Output
		data.OverallPrice.Total += result.Price.Total
		data.OverallWords.Input += result.Words.Input
		data.OverallWords.Output += result.Words.Output
		data.OverallWords.Total += result.Words.Total
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func classifyAndRespond(model, msg string) modelResult {
	lower := strings.ToLower(msg)

	// Two tool calls in one message.
	if strings.Contains(lower, "weather and time") || strings.Contains(lower, "multi tool") {
		return toolCallResult(model,
			`<tool_call>{"name":"get_weather","arguments":{"location":"San Francisco"}}</tool_call>`+
				`<tool_call>{"name":"get_time","arguments":{"zone":"PST"}}</tool_call>`)
	}

	// Weather prompts trigger a tool-call response in markup form,
	// the shape the parse pipeline extracts.
	if strings.Contains(lower, "weather") {
		return toolCallResult(model,
			`<tool_call>{"name":"get_weather","arguments":{"location":"San Francisco","unit":"celsius"}}</tool_call>`)
	}

	text := "Hello, nice day!"
	if strings.Contains(lower, "count from 1 to 5") {
		text = "1, 2, 3, 4, 5"
	}
	return textResult(model, text)
}

func textResult(model, text string) modelResult {
	return modelResult{
		Completion: completion{
			ID:      "cmpl-mock-text",
			Object:  "chat.completion",
			Model:   model,
			Created: time.Now().Unix(),
			Usage:   usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
			Choices: []choice{
				{
					Message:      message{Role: "assistant", Content: &text},
					Index:        0,
					FinishReason: "end_turn",
				},
			},
		},
		Price: price{Input: 0.01, Output: 0.005, Total: 0.015},
		Words: words{Input: 8, Output: 4, Total: 12},
	}
}

func toolCallResult(model, markup string) modelResult {
	return modelResult{
		Completion: completion{
			ID:      "cmpl-mock-tool",
			Object:  "chat.completion",
			Model:   model,
			Created: time.Now().Unix(),
			Usage:   usage{PromptTokens: 20, CompletionTokens: 15, TotalTokens: 35},
			Choices: []choice{
				{
					Message:      message{Role: "assistant", Content: &markup},
					Index:        0,
					FinishReason: "end_turn",
				},
			},
		},
		Price: price{Input: 0.02, Output: 0.015, Total: 0.035},
		Words: words{Input: 8, Output: 10, Total: 18},
	}
}

func handleImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"type":"invalid_request","message":"invalid request"}}`, http.StatusBadRequest)
		return
	}

	n := req.Variations
	if n <= 0 {
		n = 1
	}

	images := make([]string, n)
	for i := range images {
		images[i] = "https://cdn.mock.modelfan.ai/images/mock-" + strconv.Itoa(i+1) + ".png"
	}

	resp := map[string]any{
		"zip":    "https://cdn.mock.modelfan.ai/images/mock.zip",
		"images": images,
		"price": map[string]int{
			"price_per_image": 10,
			"quantity_images": n,
			"total":           10 * n,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
