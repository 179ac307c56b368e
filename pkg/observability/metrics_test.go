package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/modelfan/modelfan-go/pkg/api"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry without panicking.
func TestMetricsRegistered(t *testing.T) {
	expected := map[string]bool{
		"modelfan_requests_total":             false,
		"modelfan_request_duration_seconds":   false,
		"modelfan_tokens_total":               false,
		"modelfan_price_total":                false,
		"modelfan_tool_calls_extracted_total": false,
		"modelfan_tool_dispatch_total":        false,
	}

	// Counters and histograms only appear after first observation, so seed
	// every metric before gathering.
	RequestsTotal.WithLabelValues("/v1/prompt/completion", "ok").Inc()
	RequestDuration.WithLabelValues("/v1/prompt/completion").Observe(0.1)
	TokensTotal.WithLabelValues("test", "prompt").Add(10)
	PriceTotal.WithLabelValues("test", "input").Add(0.01)
	ToolCallsExtracted.WithLabelValues("test").Inc()
	ToolDispatchTotal.WithLabelValues("test_tool", "ok").Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

func TestRecordModelResult(t *testing.T) {
	tokensBefore := counterValue(t, TokensTotal, "record-model", "prompt")
	priceBefore := counterValue(t, PriceTotal, "record-model", "output")

	RecordModelResult(api.ModelResult{
		Completion: api.Completion{
			Model: "record-model",
			Usage: api.Usage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20},
		},
		Price: api.Price{Input: 0.001, Output: 0.002, Total: 0.003},
	})

	if got := counterValue(t, TokensTotal, "record-model", "prompt") - tokensBefore; got != 12 {
		t.Errorf("expected 12 prompt tokens recorded, got %f", got)
	}
	if got := counterValue(t, PriceTotal, "record-model", "output") - priceBefore; got != 0.002 {
		t.Errorf("expected output price 0.002 recorded, got %f", got)
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}
