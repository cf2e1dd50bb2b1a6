// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llm provides provider-agnostic types and clients for LLM chat
// completion with function calling. The agent runtime consumes the
// ToolCallingClient interface; concrete clients (OpenAI) talk to their
// provider's REST API via raw net/http without third-party SDKs.
package llm

import (
	"context"
	"fmt"
)

// Message is a plain conversation message without tool metadata.
//
// Thread Safety: Message is immutable and safe for concurrent read access.
type Message struct {
	// Role is "system", "user", or "assistant".
	Role string `json:"role"`

	// Content is the text content of the message.
	Content string `json:"content"`
}

// GenerationParams holds provider-agnostic sampling parameters.
//
// Description:
//
//	Nil pointer fields are omitted from the request so the provider's
//	defaults apply. ModelOverride selects a model for a single request
//	without reconfiguring the client.
type GenerationParams struct {
	// Temperature controls randomness (0.0-2.0). Nil omits the field.
	Temperature *float32

	// MaxTokens limits the completion length. Nil omits the field.
	MaxTokens *int

	// TopP is the nucleus sampling parameter. Nil omits the field.
	TopP *float32

	// Stop lists stop sequences. Empty omits the field.
	Stop []string

	// ModelOverride selects the model for this request. Empty uses the
	// client's configured model.
	ModelOverride string
}

// TokenUsage counts tokens consumed by one or more LLM calls.
//
// Description:
//
//	The agent runtime accumulates usage across loop iterations by
//	summation via Add. A zero TokenUsage is a valid starting point.
type TokenUsage struct {
	// Prompt is the number of input tokens.
	Prompt int `json:"prompt"`

	// Completion is the number of output tokens.
	Completion int `json:"completion"`

	// Total is the provider-reported total (prompt + completion).
	Total int `json:"total"`
}

// Add accumulates another usage count into u.
func (u *TokenUsage) Add(other TokenUsage) {
	u.Prompt += other.Prompt
	u.Completion += other.Completion
	u.Total += other.Total
}

// ChatClient is the minimal interface for plain text chat.
//
// Thread Safety: Implementations must be safe for concurrent use.
type ChatClient interface {
	// Chat sends messages and returns the assistant's response text.
	Chat(ctx context.Context, messages []Message, params GenerationParams) (string, error)
}

// ToolCallingClient is the interface the agent runtime depends on.
//
// Description:
//
//	Any chat-completion API with function calling can satisfy this shape.
//	The runtime passes the full running message history plus tool schemas
//	on every call; the client returns assistant text and/or tool calls
//	along with token usage for the call.
//
// Thread Safety: Implementations must be safe for concurrent use.
type ToolCallingClient interface {
	// ChatWithTools sends a chat request with tool definitions.
	ChatWithTools(ctx context.Context, messages []ChatMessage, params GenerationParams, tools []ToolDef) (*ChatWithToolsResult, error)
}

// APIError is a provider API failure with an HTTP status.
//
// Description:
//
//	Returned when the provider responds with a non-200 status or an
//	error payload. The message is pre-redacted via SafeLogString so it
//	can be logged or surfaced directly.
type APIError struct {
	// Provider is the provider name, e.g. "openai".
	Provider string

	// StatusCode is the HTTP status, or 0 for payload-level errors.
	StatusCode int

	// Type is the provider's error type string, if any.
	Type string

	// Message is the redacted provider error message.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: API error: %s - %s", e.Provider, e.Type, e.Message)
}
