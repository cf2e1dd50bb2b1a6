// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package tools provides the tool registry, executor, and the stock
// marketing tools agents can call during an execution. Tools are pure
// proposal machines: a successful entity tool returns an EntityOperation
// describing the CMS mutation, it never applies one.
package tools

import (
	"context"
	"fmt"

	"github.com/bigripple/agent-framework/services/agent/operations"
	"github.com/bigripple/agent-framework/services/llm"
)

// Category classifies a tool for listing and filtering.
type Category string

const (
	// CategoryEntity covers CMS entity CRUD proposal tools.
	CategoryEntity Category = "entity"

	// CategoryKnowledge covers RAG and search tools.
	CategoryKnowledge Category = "knowledge"

	// CategoryUtility covers general utilities.
	CategoryUtility Category = "utility"

	// CategoryCustom covers caller-defined tools.
	CategoryCustom Category = "custom"
)

// Parameter is the schema for a single tool parameter.
type Parameter struct {
	// Name is the parameter name as the model sees it.
	Name string `json:"name"`

	// Type is the JSON Schema type: string, number, integer, boolean,
	// array, object.
	Type string `json:"type"`

	// Description explains the parameter to the model.
	Description string `json:"description"`

	// Required marks the parameter as mandatory.
	Required bool `json:"required"`

	// Enum restricts values to a set of options.
	Enum []any `json:"enum,omitempty"`

	// Default is the default value if not provided.
	Default any `json:"default,omitempty"`

	// Items is the element schema for array parameters.
	Items *llm.ToolParamDef `json:"items,omitempty"`
}

// Definition describes a callable tool.
//
// Description:
//
//	Defines the schema and metadata for a tool that can be registered
//	with the Registry and made available to agents. ID is the stable
//	registry identifier (e.g. "bigripple.campaign.create"); Name is the
//	function name the LLM calls (e.g. "create_campaign").
//
// Thread Safety: Definition is treated as immutable after registration.
type Definition struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Parameters  []Parameter `json:"parameters"`

	// ReturnsEntityOperation marks tools whose results carry an
	// EntityOperation proposal.
	ReturnsEntityOperation bool `json:"returnsEntityOperation"`
}

// RequiredParams returns the names of all required parameters, in
// declaration order.
func (d *Definition) RequiredParams() []string {
	var required []string
	for _, p := range d.Parameters {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return required
}

// ToolDef converts the definition to the LLM function calling schema.
//
// Description:
//
//	Produces the {type: function, function: {name, description,
//	parameters}} shape. Properties and required lists follow parameter
//	declaration order, so repeated exports are byte-identical after
//	JSON encoding.
func (d *Definition) ToolDef() llm.ToolDef {
	properties := make(map[string]llm.ToolParamDef, len(d.Parameters))
	var required []string

	for _, p := range d.Parameters {
		properties[p.Name] = llm.ToolParamDef{
			Type:        p.Type,
			Description: p.Description,
			Enum:        p.Enum,
			Default:     p.Default,
			Items:       p.Items,
		}
		if p.Required {
			required = append(required, p.Name)
		}
	}

	return llm.ToolDef{
		Type: "function",
		Function: llm.ToolFunction{
			Name:        d.Name,
			Description: d.Description,
			Parameters: llm.ToolParameters{
				Type:       "object",
				Properties: properties,
				Required:   required,
			},
		},
	}
}

// ResultError describes a tool failure.
type ResultError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Result is the outcome of a tool execution.
//
// Description:
//
//	Returned by tool handlers and by the executor for every failure
//	class. If the tool proposes a CMS mutation, EntityOperation is
//	populated; the operation is a proposal only.
type Result struct {
	Success         bool                        `json:"success"`
	Data            any                         `json:"data,omitempty"`
	Error           *ResultError                `json:"error,omitempty"`
	EntityOperation *operations.EntityOperation `json:"entityOperation,omitempty"`
}

// OK creates a successful result.
func OK(data any, op *operations.EntityOperation) *Result {
	return &Result{Success: true, Data: data, EntityOperation: op}
}

// Fail creates a failed result with a stable error code.
func Fail(code, message string, details map[string]any) *Result {
	return &Result{
		Success: false,
		Error:   &ResultError{Code: code, Message: message, Details: details},
	}
}

// Failf creates a failed result with a formatted message.
func Failf(code, format string, args ...any) *Result {
	return Fail(code, fmt.Sprintf(format, args...), nil)
}

// Handler executes a tool call.
//
// Description:
//
//	The single execution shape for all tools. Blocking work and work
//	that waits on external systems both run under ctx; cancellation
//	flows through it. A returned error means the tool itself failed
//	unexpectedly and is mapped to an EXECUTION_ERROR result by the
//	executor. Expected failures (validation, not-found) should be
//	returned as a failed *Result instead.
type Handler interface {
	Invoke(ctx context.Context, args map[string]any) (*Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, args map[string]any) (*Result, error)

// Invoke implements Handler.
func (f HandlerFunc) Invoke(ctx context.Context, args map[string]any) (*Result, error) {
	return f(ctx, args)
}
