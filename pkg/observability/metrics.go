// Package observability provides Prometheus metrics for the modelfan client:
// request outcomes, latencies, and the token/price bookkeeping reported by
// the platform. Values are recorded as received, never computed locally.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/modelfan/modelfan-go/pkg/api"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts platform API requests by endpoint and outcome.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelfan_requests_total",
			Help: "Platform API requests",
		},
		[]string{"endpoint", "status"},
	)

	// RequestDuration records platform request duration in seconds.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelfan_request_duration_seconds",
			Help:    "Platform request duration",
			Buckets: LLMBuckets,
		},
		[]string{"endpoint"},
	)

	// TokensTotal counts tokens reported by the platform, by model and
	// direction (prompt/completion).
	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelfan_tokens_total",
			Help: "Token count",
		},
		[]string{"model", "direction"},
	)

	// PriceTotal accumulates the price reported by the platform, by model
	// and direction (input/output).
	PriceTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelfan_price_total",
			Help: "Reported price",
		},
		[]string{"model", "direction"},
	)

	// ToolCallsExtracted counts tool calls recovered from assistant
	// message markup.
	ToolCallsExtracted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelfan_tool_calls_extracted_total",
			Help: "Extracted tool calls",
		},
		[]string{"model"},
	)

	// ToolDispatchTotal counts tool calls dispatched to MCP servers by
	// tool name and outcome.
	ToolDispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelfan_tool_dispatch_total",
			Help: "Dispatched tool calls",
		},
		[]string{"tool", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		TokensTotal,
		PriceTotal,
		ToolCallsExtracted,
		ToolDispatchTotal,
	)
}

// RecordModelResult records the usage and price bookkeeping of one model's
// result under its completion's model name.
func RecordModelResult(result api.ModelResult) {
	model := result.Completion.Model

	TokensTotal.WithLabelValues(model, "prompt").Add(float64(result.Completion.Usage.PromptTokens))
	TokensTotal.WithLabelValues(model, "completion").Add(float64(result.Completion.Usage.CompletionTokens))

	PriceTotal.WithLabelValues(model, "input").Add(result.Price.Input)
	PriceTotal.WithLabelValues(model, "output").Add(result.Price.Output)
}
