// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// llmTracerName is the shared OTel tracer name for LLM client instrumentation.
const llmTracerName = "agent.llm"

// Package-level Prometheus metrics for LLM client operations.
// Auto-registered via promauto so no explicit registry wiring is needed.
var (
	// llmCallDuration measures the duration of LLM API calls.
	//
	// Labels:
	//   - provider: "openai"
	//   - status: "success" or "error"
	llmCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agent",
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Duration of LLM API calls in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider", "status"},
	)

	// llmCallsTotal counts the total number of LLM API calls.
	//
	// Labels:
	//   - provider: "openai"
	//   - status: "success" or "error"
	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total number of LLM API calls.",
		},
		[]string{"provider", "status"},
	)

	// llmTokensTotal counts the total tokens consumed by LLM calls.
	//
	// Labels:
	//   - provider: "openai"
	//   - direction: "input" or "output"
	llmTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Total tokens consumed by LLM calls.",
		},
		[]string{"provider", "direction"},
	)

	// llmErrorsTotal counts the total LLM errors by type.
	//
	// Labels:
	//   - provider: "openai"
	//   - error_type: "timeout", "auth", "rate_limit", "server", "unknown"
	llmErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agent",
			Subsystem: "llm",
			Name:      "errors_total",
			Help:      "Total LLM errors by type.",
		},
		[]string{"provider", "error_type"},
	)

	// llmActiveRequests tracks the number of in-flight LLM requests.
	//
	// Labels:
	//   - provider: "openai"
	llmActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "agent",
			Subsystem: "llm",
			Name:      "active_requests",
			Help:      "Number of currently active LLM requests.",
		},
		[]string{"provider"},
	)
)

// classifyError maps an error to a label-safe error type string.
//
// Description:
//
//	Categorizes an error into one of the predefined error types used as
//	Prometheus label values. APIError status codes are checked first;
//	message inspection is the fallback. This avoids high-cardinality
//	labels from raw error messages.
//
// Inputs:
//
//	err - The error to classify. May be nil.
//
// Outputs:
//
//	string - One of: "timeout", "auth", "rate_limit", "server", "unknown".
//	         Returns empty string for nil error.
//
// Thread Safety: Safe for concurrent use.
func classifyError(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return "auth"
		case apiErr.StatusCode == 429:
			return "rate_limit"
		case apiErr.StatusCode >= 500:
			return "server"
		}
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "context deadline exceeded") ||
		strings.Contains(msg, "context canceled") ||
		strings.Contains(msg, "timeout"):
		return "timeout"
	case strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "authentication") ||
		strings.Contains(msg, "api key"):
		return "auth"
	case strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests"):
		return "rate_limit"
	case strings.Contains(msg, "server error") ||
		strings.Contains(msg, "internal error"):
		return "server"
	default:
		return "unknown"
	}
}

// recordLLMMetrics records Prometheus metrics for a completed LLM call.
//
// Description:
//
//	One-shot metric recording for both success and error paths. Records
//	duration, call count, token counts (on success), and error type (on failure).
//
// Thread Safety: Safe for concurrent use.
func recordLLMMetrics(provider string, duration time.Duration, usage TokenUsage, err error) {
	status := "success"
	if err != nil {
		status = "error"
		errType := classifyError(err)
		llmErrorsTotal.WithLabelValues(provider, errType).Inc()
	}

	llmCallDuration.WithLabelValues(provider, status).Observe(duration.Seconds())
	llmCallsTotal.WithLabelValues(provider, status).Inc()

	if err == nil {
		llmTokensTotal.WithLabelValues(provider, "input").Add(float64(usage.Prompt))
		llmTokensTotal.WithLabelValues(provider, "output").Add(float64(usage.Completion))
	}
}

// InstrumentedClient wraps a ToolCallingClient with tracing and metrics.
//
// Description:
//
//	Decorator that records an OTel span plus Prometheus metrics around
//	every ChatWithTools call. The wrapped client does the actual work;
//	instrumentation never alters results or errors.
//
// Thread Safety: Safe for concurrent use when the wrapped client is.
type InstrumentedClient struct {
	inner    ToolCallingClient
	provider string
}

// NewInstrumentedClient wraps client with tracing and metrics under the
// given provider label.
func NewInstrumentedClient(client ToolCallingClient, provider string) *InstrumentedClient {
	return &InstrumentedClient{inner: client, provider: provider}
}

// ChatWithTools implements ToolCallingClient.
func (c *InstrumentedClient) ChatWithTools(ctx context.Context, messages []ChatMessage,
	params GenerationParams, tools []ToolDef) (*ChatWithToolsResult, error) {

	tracer := otel.Tracer(llmTracerName)
	ctx, span := tracer.Start(ctx, "llm.chat_with_tools")
	defer span.End()

	span.SetAttributes(
		attribute.String("llm.provider", c.provider),
		attribute.Int("llm.messages", len(messages)),
		attribute.Int("llm.tools", len(tools)),
	)

	llmActiveRequests.WithLabelValues(c.provider).Inc()
	defer llmActiveRequests.WithLabelValues(c.provider).Dec()

	start := time.Now()
	result, err := c.inner.ChatWithTools(ctx, messages, params, tools)
	duration := time.Since(start)

	var usage TokenUsage
	if result != nil {
		usage = result.Usage
	}
	recordLLMMetrics(c.provider, duration, usage, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, classifyError(err))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("llm.stop_reason", result.StopReason),
		attribute.Int("llm.tool_calls", len(result.ToolCalls)),
		attribute.Int("llm.tokens_total", result.Usage.Total),
	)
	return result, nil
}
