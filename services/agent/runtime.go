// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package agent implements the bounded agent execution loop: context
// injection, LLM calls with tool support, tool execution, and entity
// operation extraction. The loop proposes CMS mutations; it never
// applies them.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bigripple/agent-framework/services/agent/entitycontext"
	"github.com/bigripple/agent-framework/services/agent/operations"
	"github.com/bigripple/agent-framework/services/agent/tools"
	"github.com/bigripple/agent-framework/services/llm"
)

// DefaultMaxIterations caps the tool calling loop when the caller does
// not set a limit.
const DefaultMaxIterations = 10

var tracer = otel.Tracer("agent.runtime")

// Input configures a single agent execution.
type Input struct {
	// InputData is the request payload from the CMS (user prompt, goal,
	// structured parameters).
	InputData map[string]any `json:"inputData"`

	// Context is the entity context delivered with the invocation. Nil
	// means an empty context.
	Context *entitycontext.EntityContext `json:"context"`

	// ExecutionID identifies this execution. Generated when empty.
	ExecutionID string `json:"executionId"`

	// SystemPrompt is the agent's base system prompt; the rendered
	// entity context is appended to it.
	SystemPrompt string `json:"systemPrompt"`

	// EnabledTools lists tool ids to expose to the model. Empty runs
	// the loop without tools.
	EnabledTools []string `json:"enabledTools"`

	// MaxIterations bounds the tool calling loop. Zero or negative uses
	// DefaultMaxIterations.
	MaxIterations int `json:"maxIterations"`

	// Model overrides the client's configured model for this execution.
	Model string `json:"model"`
}

// ToolCallRecord is one tool invocation as reported in the output
// envelope.
type ToolCallRecord struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Arguments string        `json:"arguments"`
	Result    *tools.Result `json:"result"`
}

// ExecutionError describes a failed execution.
type ExecutionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Output is the execution result envelope returned to the CMS.
//
// Description:
//
//	Serializes to the camelCase shape the CMS execution output parser
//	expects. EntityOperations and ToolCalls are always present as
//	arrays, never null. Error is set only on failure.
type Output struct {
	Success          bool                         `json:"success"`
	Output           any                          `json:"output"`
	EntityOperations []operations.EntityOperation `json:"entityOperations"`
	ToolCalls        []ToolCallRecord             `json:"toolCalls"`
	TokensUsed       llm.TokenUsage               `json:"tokensUsed"`
	DurationMs       int64                        `json:"durationMs"`
	Error            *ExecutionError              `json:"error,omitempty"`
}

// Runtime executes agents with context injection and tool calling.
//
// Description:
//
//	Each Execute call runs the full flow: build the context-enhanced
//	system prompt, call the LLM, run any tool calls through the
//	executor, loop until the model answers without tool calls or the
//	iteration cap is hit, extract entity operations, and wrap
//	everything in the output envelope. Execute never returns a Go
//	error; every failure class is a failed Output with a stable code.
//
// Thread Safety: Runtime is immutable after construction and safe for
// concurrent use. Each execution keeps its own message history.
type Runtime struct {
	client    llm.ToolCallingClient
	registry  *tools.Registry
	executor  *tools.Executor
	injector  *entitycontext.Injector
	extractor *operations.Extractor
}

// NewRuntime creates a runtime over an LLM client and a tool registry.
func NewRuntime(client llm.ToolCallingClient, registry *tools.Registry) *Runtime {
	return &Runtime{
		client:    client,
		registry:  registry,
		executor:  tools.NewExecutor(registry),
		injector:  entitycontext.NewInjector(),
		extractor: operations.NewExtractor(),
	}
}

// NewRuntimeWithExtractor creates a runtime with a custom operation
// extractor, for callers that need inference tuned or disabled.
func NewRuntimeWithExtractor(client llm.ToolCallingClient, registry *tools.Registry, extractor *operations.Extractor) *Runtime {
	r := NewRuntime(client, registry)
	r.extractor = extractor
	return r
}

// Registry exposes the runtime's tool registry for listing endpoints.
func (r *Runtime) Registry() *tools.Registry {
	return r.registry
}

// Execute runs an agent to completion.
//
// Outputs:
//   - *Output: Always non-nil. Error codes: LLM_ERROR (provider call
//     failed), TIMEOUT (context deadline hit), MAX_ITERATIONS (loop cap
//     reached without a final answer), INTERNAL_ERROR (panic inside the
//     loop). Tool calls made before a failure are preserved in the
//     envelope.
func (r *Runtime) Execute(ctx context.Context, in Input) (out *Output) {
	start := time.Now()

	executionID := in.ExecutionID
	if executionID == "" {
		executionID = uuid.NewString()
	}
	maxIterations := in.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	entityCtx := in.Context
	if entityCtx == nil {
		entityCtx = &entitycontext.EntityContext{}
	}

	ctx, span := tracer.Start(ctx, "agent.execute", trace.WithAttributes(
		attribute.String("agent.execution_id", executionID),
		attribute.Int("agent.max_iterations", maxIterations),
		attribute.Int("agent.enabled_tools", len(in.EnabledTools)),
	))
	defer span.End()

	var usage llm.TokenUsage
	toolCalls := []ToolCallRecord{}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Agent execution panicked",
				slog.String("execution_id", executionID),
				slog.Any("panic", rec),
			)
			span.SetStatus(codes.Error, "panic")
			out = r.failure("INTERNAL_ERROR", "internal error during agent execution",
				toolCalls, usage, start)
		}
	}()

	contextStr := r.injector.BuildFullContext(entityCtx)
	systemPrompt := in.SystemPrompt + "\n\n" + contextStr
	slog.Debug("Built system prompt", slog.Int("context_chars", len(contextStr)))

	messages := []llm.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: formatUserInput(in.InputData)},
	}

	var toolDefs []llm.ToolDef
	if len(in.EnabledTools) > 0 {
		toolDefs = r.registry.ToolDefs(in.EnabledTools)
		slog.Debug("Enabled tools", slog.Int("count", len(toolDefs)))
	}

	callContext := map[string]any{
		"execution_id":   executionID,
		"tenant_context": entityCtx,
	}

	for iteration := 0; iteration < maxIterations; iteration++ {
		slog.Debug("Agent iteration",
			slog.String("execution_id", executionID),
			slog.Int("iteration", iteration+1),
			slog.Int("max", maxIterations),
		)

		res, err := r.client.ChatWithTools(ctx, messages, llm.GenerationParams{ModelOverride: in.Model}, toolDefs)
		if err != nil {
			slog.Error("LLM call failed",
				slog.String("execution_id", executionID),
				slog.String("error", err.Error()),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return r.failure(classifyExecutionError(err), err.Error(), toolCalls, usage, start)
		}
		usage.Add(res.Usage)

		if len(res.ToolCalls) > 0 {
			messages = append(messages, llm.ChatMessage{
				Role:      "assistant",
				Content:   res.Content,
				ToolCalls: res.ToolCalls,
			})

			for _, call := range res.ToolCalls {
				args := call.ArgumentsString()
				slog.Info("Executing tool call",
					slog.String("execution_id", executionID),
					slog.String("tool", call.Name),
				)

				result := r.executor.Execute(ctx, call.Name, args, callContext)
				recordToolExecution(call.Name, result.Success)
				toolCalls = append(toolCalls, ToolCallRecord{
					ID:        call.ID,
					Name:      call.Name,
					Arguments: args,
					Result:    result,
				})

				payload, merr := json.Marshal(result)
				if merr != nil {
					payload = []byte(`{"success":false}`)
				}
				messages = append(messages, llm.ChatMessage{
					Role:       "tool",
					ToolCallID: call.ID,
					ToolName:   call.Name,
					Content:    string(payload),
				})
			}
			continue
		}

		// No tool calls means we have the final response.
		output := parseFinalOutput(res.Content)

		var toolOps []operations.EntityOperation
		for _, tc := range toolCalls {
			if tc.Result != nil && tc.Result.Success && tc.Result.EntityOperation != nil {
				toolOps = append(toolOps, *tc.Result.EntityOperation)
			}
		}

		cleaned, ops := r.extractor.Extract(output, toolOps, operations.Defaults{
			BrandID:     entityCtx.BrandID,
			ExecutionID: executionID,
		})
		if ops == nil {
			ops = []operations.EntityOperation{}
		}

		durationMs := time.Since(start).Milliseconds()
		recordRun("success", time.Since(start), iteration+1, len(ops))
		span.SetAttributes(
			attribute.Int("agent.iterations", iteration+1),
			attribute.Int("agent.operations", len(ops)),
			attribute.Int("agent.tool_calls", len(toolCalls)),
			attribute.Int("agent.tokens_total", usage.Total),
		)

		slog.Info("Execution complete",
			slog.String("execution_id", executionID),
			slog.Int("operations", len(ops)),
			slog.Int("tokens", usage.Total),
			slog.Int64("duration_ms", durationMs),
		)

		return &Output{
			Success:          true,
			Output:           cleaned,
			EntityOperations: ops,
			ToolCalls:        toolCalls,
			TokensUsed:       usage,
			DurationMs:       durationMs,
		}
	}

	slog.Warn("Max iterations reached",
		slog.String("execution_id", executionID),
		slog.Int("max_iterations", maxIterations),
	)
	span.SetStatus(codes.Error, "max iterations reached")
	recordRun("max_iterations", time.Since(start), maxIterations, 0)

	return &Output{
		Success:          false,
		Output:           nil,
		EntityOperations: []operations.EntityOperation{},
		ToolCalls:        toolCalls,
		TokensUsed:       usage,
		DurationMs:       time.Since(start).Milliseconds(),
		Error: &ExecutionError{
			Code:    "MAX_ITERATIONS",
			Message: formatMaxIterations(maxIterations),
		},
	}
}

// failure wraps an error into the output envelope, preserving the tool
// calls and token usage accumulated before the failure.
func (r *Runtime) failure(code, message string, toolCalls []ToolCallRecord, usage llm.TokenUsage, start time.Time) *Output {
	recordRun("error", time.Since(start), 0, 0)
	return &Output{
		Success:          false,
		Output:           nil,
		EntityOperations: []operations.EntityOperation{},
		ToolCalls:        toolCalls,
		TokensUsed:       usage,
		DurationMs:       time.Since(start).Milliseconds(),
		Error:            &ExecutionError{Code: code, Message: message},
	}
}

// classifyExecutionError maps an LLM call failure to a stable code.
func classifyExecutionError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "TIMEOUT"
	}
	return "LLM_ERROR"
}

// parseFinalOutput parses the assistant's final text as JSON when it
// looks like a JSON object, otherwise keeps it as a string.
func parseFinalOutput(content string) any {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}
	return content
}

// formatUserInput renders the request payload for the user message. A
// payload with a single string "prompt" key passes through as plain
// text; anything else is indented JSON.
func formatUserInput(inputData map[string]any) string {
	if len(inputData) == 1 {
		if prompt, ok := inputData["prompt"].(string); ok {
			return prompt
		}
	}
	encoded, err := json.MarshalIndent(inputData, "", "  ")
	if err != nil {
		return ""
	}
	return string(encoded)
}

func formatMaxIterations(max int) string {
	return fmt.Sprintf("Agent exceeded maximum tool calling iterations (%d)", max)
}
