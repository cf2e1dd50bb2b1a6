// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tools

// NewMarketingRegistry builds a registry with all stock marketing tools
// registered: campaign create/update, content create/update, brand
// create, and the knowledge lookups.
//
// Each call returns a fresh instance, never a shared singleton, so
// callers can add or remove tools without affecting other executions.
func NewMarketingRegistry() *Registry {
	r := NewRegistry()
	RegisterCampaignTools(r)
	RegisterContentTools(r)
	RegisterBrandTools(r)
	RegisterKnowledgeTools(r)
	return r
}

// argString reads a string argument, empty when absent or not a string.
func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// argStringSlice reads an array argument as a string slice. JSON decoding
// yields []any, so elements are coerced; non-strings are skipped.
func argStringSlice(args map[string]any, key string) []string {
	switch v := args[key].(type) {
	case []string:
		return v
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// argInt reads an integer argument. JSON numbers decode as float64.
func argInt(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

// contains reports whether values includes s.
func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// enumValues converts a string list to the []any shape the JSON Schema
// enum field expects.
func enumValues(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
