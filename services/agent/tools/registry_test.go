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
	"errors"
	"testing"
)

func noopHandler() Handler {
	return HandlerFunc(func(ctx context.Context, args map[string]any) (*Result, error) {
		return OK(nil, nil), nil
	})
}

func testDefinition(id, name string) Definition {
	return Definition{
		ID:          id,
		Name:        name,
		Description: "test tool",
		Category:    CategoryUtility,
		Parameters: []Parameter{
			{Name: "query", Type: "string", Description: "the query", Required: true},
		},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDefinition("test.one", "tool_one"), noopHandler()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	def, ok := r.Get("test.one")
	if !ok || def.Name != "tool_one" {
		t.Errorf("Get = (%+v, %v), want tool_one", def, ok)
	}

	def, ok = r.GetByName("tool_one")
	if !ok || def.ID != "test.one" {
		t.Errorf("GetByName = (%+v, %v), want test.one", def, ok)
	}

	if _, ok := r.Handler("test.one"); !ok {
		t.Error("Handler should be registered")
	}
	if _, ok := r.HandlerByName("tool_one"); !ok {
		t.Error("HandlerByName should find the handler")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistry_DuplicateID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDefinition("test.one", "tool_one"), noopHandler()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := r.Register(testDefinition("test.one", "other_name"), noopHandler())
	var dup *DuplicateToolError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateToolError, got %v", err)
	}
	if dup.ID != "test.one" {
		t.Errorf("dup.ID = %q, want test.one", dup.ID)
	}
	// Registry unchanged on error.
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDefinition("test.one", "tool_one"), noopHandler()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := r.Register(testDefinition("test.two", "tool_one"), noopHandler())
	var dup *DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("expected *DuplicateNameError, got %v", err)
	}
	if dup.Name != "tool_one" {
		t.Errorf("dup.Name = %q, want tool_one", dup.Name)
	}
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(testDefinition("test.one", "tool_one"), noopHandler()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if !r.Unregister("test.one") {
		t.Error("Unregister should return true for a registered tool")
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
	if _, ok := r.GetByName("tool_one"); ok {
		t.Error("name mapping should be removed with the tool")
	}

	// Absent id is a no-op.
	if r.Unregister("test.one") {
		t.Error("Unregister should return false for an absent tool")
	}

	// The freed name is reusable.
	if err := r.Register(testDefinition("test.two", "tool_one"), noopHandler()); err != nil {
		t.Errorf("re-registering a freed name failed: %v", err)
	}
}

func TestRegistry_ListPreservesRegistrationOrder(t *testing.T) {
	r := NewRegistry()
	ids := []string{"test.c", "test.a", "test.b"}
	for i, id := range ids {
		if err := r.Register(testDefinition(id, "tool_"+string(rune('0'+i))), noopHandler()); err != nil {
			t.Fatalf("Register %s failed: %v", id, err)
		}
	}

	defs := r.List()
	if len(defs) != 3 {
		t.Fatalf("len(List) = %d, want 3", len(defs))
	}
	for i, id := range ids {
		if defs[i].ID != id {
			t.Errorf("List[%d].ID = %q, want %q", i, defs[i].ID, id)
		}
	}

	got := r.IDs()
	for i, id := range ids {
		if got[i] != id {
			t.Errorf("IDs[%d] = %q, want %q", i, got[i], id)
		}
	}
}

func TestRegistry_ListByCategory(t *testing.T) {
	r := NewMarketingRegistry()

	entity := r.ListByCategory(CategoryEntity)
	if len(entity) != 5 {
		t.Errorf("entity tools = %d, want 5", len(entity))
	}
	knowledge := r.ListByCategory(CategoryKnowledge)
	if len(knowledge) != 3 {
		t.Errorf("knowledge tools = %d, want 3", len(knowledge))
	}
}

func TestRegistry_ToolDefs_AllAndSubset(t *testing.T) {
	r := NewMarketingRegistry()

	all := r.ToolDefs(nil)
	if len(all) != r.Len() {
		t.Errorf("len(ToolDefs(nil)) = %d, want %d", len(all), r.Len())
	}
	if all[0].Function.Name != "create_campaign" {
		t.Errorf("first exported tool = %q, want create_campaign (registration order)", all[0].Function.Name)
	}

	subset := r.ToolDefs([]string{"bigripple.brand.create", "bigripple.campaign.create"})
	if len(subset) != 2 {
		t.Fatalf("len(subset) = %d, want 2", len(subset))
	}
	if subset[0].Function.Name != "create_brand" || subset[1].Function.Name != "create_campaign" {
		t.Errorf("subset order = [%s, %s], want caller order", subset[0].Function.Name, subset[1].Function.Name)
	}

	// Unknown ids are skipped.
	skipped := r.ToolDefs([]string{"nope", "bigripple.content.create"})
	if len(skipped) != 1 || skipped[0].Function.Name != "create_content" {
		t.Errorf("unknown ids should be skipped, got %v", skipped)
	}
}

func TestRegistry_ToolDefs_Idempotent(t *testing.T) {
	r := NewMarketingRegistry()

	first, err := json.Marshal(r.ToolDefs(nil))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := json.Marshal(r.ToolDefs(nil))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if string(first) != string(second) {
		t.Error("repeated exports should be byte-identical")
	}
}

func TestRegistry_ToolDefs_Schema(t *testing.T) {
	r := NewMarketingRegistry()

	defs := r.ToolDefs([]string{"bigripple.campaign.create"})
	if len(defs) != 1 {
		t.Fatalf("len(defs) = %d, want 1", len(defs))
	}
	td := defs[0]
	if td.Type != "function" {
		t.Errorf("Type = %q, want function", td.Type)
	}
	if td.Function.Parameters.Type != "object" {
		t.Errorf("Parameters.Type = %q, want object", td.Function.Parameters.Type)
	}
	wantRequired := []string{"brand_id", "name", "channels"}
	if len(td.Function.Parameters.Required) != len(wantRequired) {
		t.Fatalf("Required = %v, want %v", td.Function.Parameters.Required, wantRequired)
	}
	for i, name := range wantRequired {
		if td.Function.Parameters.Required[i] != name {
			t.Errorf("Required[%d] = %q, want %q", i, td.Function.Parameters.Required[i], name)
		}
	}
	channels, ok := td.Function.Parameters.Properties["channels"]
	if !ok || channels.Type != "array" || channels.Items == nil {
		t.Errorf("channels property = %+v, want array with items", channels)
	}
}

func TestNewMarketingRegistry_FreshInstances(t *testing.T) {
	a := NewMarketingRegistry()
	b := NewMarketingRegistry()
	if a == b {
		t.Fatal("builder must return fresh instances")
	}

	a.Unregister("bigripple.brand.create")
	if _, ok := b.Get("bigripple.brand.create"); !ok {
		t.Error("mutating one instance must not affect another")
	}
}
