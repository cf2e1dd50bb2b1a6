// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"encoding/json"
	"testing"
)

func TestToolCallResponse_ArgumentsString_Object(t *testing.T) {
	tc := ToolCallResponse{
		ID:        "call-1",
		Name:      "create_campaign",
		Arguments: json.RawMessage(`{"name":"Spring Sale","channels":["linkedin"]}`),
	}

	result := tc.ArgumentsString()
	if result != `{"name":"Spring Sale","channels":["linkedin"]}` {
		t.Errorf("ArgumentsString() = %q, want JSON object string", result)
	}
}

func TestToolCallResponse_ArgumentsString_String(t *testing.T) {
	// Some models return arguments as a JSON string
	tc := ToolCallResponse{
		ID:        "call-2",
		Name:      "search_knowledge_base",
		Arguments: json.RawMessage(`"{\"query\":\"hello\"}"`),
	}

	result := tc.ArgumentsString()
	if result != `{"query":"hello"}` {
		t.Errorf("ArgumentsString() = %q, want unquoted JSON string", result)
	}
}

func TestToolCallResponse_ArgumentsString_Empty(t *testing.T) {
	tc := ToolCallResponse{
		ID:   "call-3",
		Name: "no_args",
	}

	result := tc.ArgumentsString()
	if result != "{}" {
		t.Errorf("ArgumentsString() = %q, want %q", result, "{}")
	}
}

func TestToolCallResponse_ArgumentsString_Array(t *testing.T) {
	tc := ToolCallResponse{
		ID:        "call-5",
		Name:      "array_args",
		Arguments: json.RawMessage(`[1,2,3]`),
	}

	result := tc.ArgumentsString()
	if result != `[1,2,3]` {
		t.Errorf("ArgumentsString() = %q, want %q", result, `[1,2,3]`)
	}
}

func TestToolDef_JSONRoundTrip(t *testing.T) {
	def := ToolDef{
		Type: "function",
		Function: ToolFunction{
			Name:        "create_campaign",
			Description: "Create a marketing campaign",
			Parameters: ToolParameters{
				Type: "object",
				Properties: map[string]ToolParamDef{
					"name": {
						Type:        "string",
						Description: "Campaign name",
					},
					"channels": {
						Type:        "array",
						Description: "Marketing channels",
						Items:       &ToolParamDef{Type: "string"},
					},
				},
				Required: []string{"name"},
			},
		},
	}

	data, err := json.Marshal(def)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded ToolDef
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.Function.Name != "create_campaign" {
		t.Errorf("Name = %q, want %q", decoded.Function.Name, "create_campaign")
	}
	if len(decoded.Function.Parameters.Properties) != 2 {
		t.Errorf("Properties count = %d, want 2", len(decoded.Function.Parameters.Properties))
	}
	if len(decoded.Function.Parameters.Required) != 1 || decoded.Function.Parameters.Required[0] != "name" {
		t.Errorf("Required = %v, want [name]", decoded.Function.Parameters.Required)
	}
	items := decoded.Function.Parameters.Properties["channels"].Items
	if items == nil || items.Type != "string" {
		t.Errorf("channels Items = %+v, want string element schema", items)
	}
}

func TestChatMessage_ToolResultFields(t *testing.T) {
	msg := ChatMessage{
		Role:       "tool",
		Content:    "result data",
		ToolCallID: "tc-1",
		ToolName:   "search_knowledge_base",
	}

	if msg.ToolCallID != "tc-1" {
		t.Errorf("ToolCallID = %q, want %q", msg.ToolCallID, "tc-1")
	}
	if msg.ToolName != "search_knowledge_base" {
		t.Errorf("ToolName = %q, want %q", msg.ToolName, "search_knowledge_base")
	}
}

func TestTokenUsage_Add(t *testing.T) {
	var total TokenUsage
	total.Add(TokenUsage{Prompt: 10, Completion: 5, Total: 15})
	total.Add(TokenUsage{Prompt: 7, Completion: 3, Total: 10})

	if total.Prompt != 17 || total.Completion != 8 || total.Total != 25 {
		t.Errorf("accumulated usage = %+v, want {17 8 25}", total)
	}
}

func TestTokenUsage_AddZero(t *testing.T) {
	total := TokenUsage{Prompt: 1, Completion: 2, Total: 3}
	total.Add(TokenUsage{})

	if total.Prompt != 1 || total.Completion != 2 || total.Total != 3 {
		t.Errorf("adding zero usage changed totals: %+v", total)
	}
}
