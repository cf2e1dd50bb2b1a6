// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tools

import (
	"fmt"
	"sync"

	"github.com/bigripple/agent-framework/services/llm"
)

// DuplicateToolError reports a tool id collision on Register.
type DuplicateToolError struct {
	ID string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tools: tool %q already registered", e.ID)
}

// DuplicateNameError reports a function name collision on Register.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("tools: function name %q already registered", e.Name)
}

// Registry is the central registry for agent tools.
//
// Description:
//
//	Tools are keyed twice: by stable tool id for management operations
//	and by function name for LLM call dispatch. Registration order is
//	preserved so schema exports are deterministic. Registries are cheap;
//	build one per configuration rather than sharing a mutable global.
//
// Thread Safety: All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Definition
	handlers map[string]Handler
	nameToID map[string]string
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:    make(map[string]Definition),
		handlers: make(map[string]Handler),
		nameToID: make(map[string]string),
	}
}

// Register adds a tool with its handler.
//
// Outputs:
//   - error: *DuplicateToolError if the id is taken, *DuplicateNameError
//     if the function name is taken. The registry is unchanged on error.
func (r *Registry) Register(def Definition, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.ID]; exists {
		return &DuplicateToolError{ID: def.ID}
	}
	if _, exists := r.nameToID[def.Name]; exists {
		return &DuplicateNameError{Name: def.Name}
	}

	r.tools[def.ID] = def
	r.handlers[def.ID] = handler
	r.nameToID[def.Name] = def.ID
	r.order = append(r.order, def.ID)
	return nil
}

// MustRegister registers a tool and panics on collision. For use in
// builders wiring the stock tools, where a collision is a programming
// error.
func (r *Registry) MustRegister(def Definition, handler Handler) {
	if err := r.Register(def, handler); err != nil {
		panic(err)
	}
}

// Unregister removes a tool by id. Returns false when the id is not
// registered; the call is then a no-op.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, exists := r.tools[id]
	if !exists {
		return false
	}

	delete(r.nameToID, def.Name)
	delete(r.handlers, id)
	delete(r.tools, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns a tool definition by id.
func (r *Registry) Get(id string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.tools[id]
	return def, ok
}

// GetByName returns a tool definition by function name.
func (r *Registry) GetByName(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return Definition{}, false
	}
	def, ok := r.tools[id]
	return def, ok
}

// Handler returns a tool handler by id.
func (r *Registry) Handler(id string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[id]
	return h, ok
}

// HandlerByName returns a tool handler by function name.
func (r *Registry) HandlerByName(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	h, ok := r.handlers[id]
	return h, ok
}

// List returns all tool definitions in registration order.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		defs = append(defs, r.tools[id])
	}
	return defs
}

// ListByCategory returns the definitions in a category, in registration
// order.
func (r *Registry) ListByCategory(category Category) []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var defs []Definition
	for _, id := range r.order {
		if def := r.tools[id]; def.Category == category {
			defs = append(defs, def)
		}
	}
	return defs
}

// IDs returns all registered tool ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// ToolDefs exports tools to the LLM function calling schema.
//
// Description:
//
//	nil ids exports every tool in registration order. Otherwise the
//	given ids are exported in the given order; unknown ids are skipped.
//	Export is read-only and idempotent: repeated calls with the same
//	registry state produce identical schemas.
func (r *Registry) ToolDefs(ids []string) []llm.ToolDef {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ids == nil {
		ids = r.order
	}

	var defs []llm.ToolDef
	for _, id := range ids {
		if def, ok := r.tools[id]; ok {
			defs = append(defs, def.ToolDef())
		}
	}
	return defs
}
