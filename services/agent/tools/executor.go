// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// Executor runs registered tools from LLM tool calls.
//
// Description:
//
//	Handles argument parsing, required-parameter validation, context
//	merging, and handler invocation. Every failure class comes back as
//	a failed *Result with a stable error code; Execute never returns a
//	Go error and never panics, so a misbehaving tool cannot crash an
//	agent run.
//
// Error codes:
//   - INVALID_ARGUMENTS: argument JSON failed to parse.
//   - TOOL_NOT_FOUND: no tool with the given function name.
//   - HANDLER_NOT_FOUND: tool registered without a handler.
//   - MISSING_PARAMETERS: required parameters absent (details.missing
//     lists every one).
//   - EXECUTION_ERROR: handler returned an error or panicked.
//
// Thread Safety: Executor is safe for concurrent use.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor over a registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs a tool by function name.
//
// Description:
//
//	args may be a raw JSON string (as emitted by LLM tool calls) or an
//	already-decoded map. callContext carries call-scoped values such as
//	execution_id and tenant_context; it is merged into the argument map
//	AFTER the parsed arguments, so context keys always win over model
//	output and a tool call cannot spoof its execution identity.
//
// Inputs:
//   - ctx: Context for cancellation; passed through to the handler.
//   - name: The tool's function name (e.g. "create_campaign").
//   - args: JSON string or map[string]any. nil means no arguments.
//   - callContext: Call-scoped values merged over args. May be nil.
//
// Outputs:
//   - *Result: Always non-nil. Failed results carry one of the stable
//     error codes above.
//
// Thread Safety: Safe for concurrent use.
func (e *Executor) Execute(ctx context.Context, name string, args any, callContext map[string]any) (result *Result) {
	// A panicking handler yields EXECUTION_ERROR instead of unwinding
	// into the agent loop.
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool panicked", slog.String("tool", name), slog.Any("panic", r))
			result = Failf("EXECUTION_ERROR", "tool %q panicked: %v", name, r)
		}
	}()

	parsed, parseErr := parseArguments(args)
	if parseErr != nil {
		slog.Error("Failed to parse tool arguments", slog.String("tool", name), slog.String("error", parseErr.Error()))
		return Failf("INVALID_ARGUMENTS", "failed to parse arguments JSON: %v", parseErr)
	}

	def, ok := e.registry.GetByName(name)
	if !ok {
		slog.Warn("Tool not found", slog.String("tool", name))
		return Failf("TOOL_NOT_FOUND", "tool %q is not registered", name)
	}

	handler, ok := e.registry.HandlerByName(name)
	if !ok || handler == nil {
		slog.Error("Handler not found for tool", slog.String("tool", name))
		return Failf("HANDLER_NOT_FOUND", "handler for tool %q is not registered", name)
	}

	var missing []string
	for _, param := range def.RequiredParams() {
		if _, present := parsed[param]; !present {
			missing = append(missing, param)
		}
	}
	if len(missing) > 0 {
		slog.Warn("Missing required parameters",
			slog.String("tool", name),
			slog.Any("missing", missing),
		)
		return Fail("MISSING_PARAMETERS",
			fmt.Sprintf("missing required parameters: %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing},
		)
	}

	// Context merges after args so call-scoped keys win.
	for k, v := range callContext {
		parsed[k] = v
	}

	slog.Info("Executing tool", slog.String("tool", name))
	res, err := handler.Invoke(ctx, parsed)
	if err != nil {
		slog.Error("Tool execution failed", slog.String("tool", name), slog.String("error", err.Error()))
		return Failf("EXECUTION_ERROR", "%v", err)
	}
	if res == nil {
		return Failf("EXECUTION_ERROR", "tool %q returned no result", name)
	}

	slog.Info("Tool completed", slog.String("tool", name), slog.Bool("success", res.Success))
	return res
}

// parseArguments normalizes tool call arguments to a mutable map.
func parseArguments(args any) (map[string]any, error) {
	switch v := args.(type) {
	case nil:
		return map[string]any{}, nil
	case string:
		if v == "" {
			return map[string]any{}, nil
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, err
		}
		if parsed == nil {
			parsed = map[string]any{}
		}
		return parsed, nil
	case json.RawMessage:
		return parseArguments(string(v))
	case map[string]any:
		// Copy so the merge never mutates the caller's map.
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = val
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported argument type %T", args)
	}
}
