// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tools

import (
	"context"
	"fmt"
	"regexp"

	"github.com/bigripple/agent-framework/services/agent/operations"
	"github.com/bigripple/agent-framework/services/llm"
)

// BrandTones are the valid brand voice tone values.
var BrandTones = []string{"professional", "casual", "friendly", "authoritative", "playful"}

var (
	slugPattern     = regexp.MustCompile(`^[a-z0-9-]+$`)
	hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

// RegisterBrandTools adds the brand creation tool to a registry.
func RegisterBrandTools(r *Registry) {
	r.MustRegister(Definition{
		ID:   "bigripple.brand.create",
		Name: "create_brand",
		Description: "Create a new brand for a customer. " +
			"A brand represents a business or product that will have campaigns and content. " +
			"Returns a brand creation operation that will be processed by the CMS.",
		Category: CategoryEntity,
		Parameters: []Parameter{
			{Name: "customer_id", Type: "string", Description: "The ID of the customer to create the brand for", Required: true},
			{Name: "name", Type: "string", Description: "Brand name (2-100 characters)", Required: true},
			{Name: "slug", Type: "string", Description: "URL-friendly identifier (2-50 chars, lowercase letters, numbers, hyphens only)", Required: true},
			{Name: "description", Type: "string", Description: "Brand description (max 500 characters)"},
			{Name: "tone", Type: "string", Description: "Brand voice tone", Enum: enumValues(BrandTones)},
			{Name: "personality", Type: "array", Description: "Brand personality traits (max 5)",
				Items: &llm.ToolParamDef{Type: "string"}},
			{Name: "target_audience", Type: "string", Description: "Target audience description"},
			{Name: "brand_values", Type: "array", Description: "Core brand values",
				Items: &llm.ToolParamDef{Type: "string"}},
			{Name: "avoid_words", Type: "array", Description: "Words to avoid in content",
				Items: &llm.ToolParamDef{Type: "string"}},
			{Name: "primary_color", Type: "string", Description: "Primary brand color (hex format, e.g., #FF5733)"},
			{Name: "logo_url", Type: "string", Description: "URL to brand logo"},
		},
		ReturnsEntityOperation: true,
	}, HandlerFunc(handleCreateBrand))
}

func handleCreateBrand(ctx context.Context, args map[string]any) (*Result, error) {
	customerID := argString(args, "customer_id")
	name := argString(args, "name")
	slug := argString(args, "slug")

	if len(name) < 2 || len(name) > 100 {
		return Fail("INVALID_NAME", "brand name must be 2-100 characters", nil), nil
	}
	if !slugPattern.MatchString(slug) {
		return Fail("INVALID_SLUG", "slug must contain only lowercase letters, numbers, and hyphens", nil), nil
	}
	if len(slug) < 2 || len(slug) > 50 {
		return Fail("INVALID_SLUG", "slug must be 2-50 characters", nil), nil
	}

	tone := argString(args, "tone")
	if tone != "" && !contains(BrandTones, tone) {
		return Failf("INVALID_TONE", "invalid tone: %s. Valid: %v", tone, BrandTones), nil
	}

	personality := argStringSlice(args, "personality")
	if len(personality) > 5 {
		return Fail("TOO_MANY_PERSONALITY_TRAITS", "maximum 5 personality traits allowed", nil), nil
	}

	primaryColor := argString(args, "primary_color")
	if primaryColor != "" && !hexColorPattern.MatchString(primaryColor) {
		return Fail("INVALID_COLOR", "primary color must be hex format (e.g., #FF5733)", nil), nil
	}

	data := operations.BrandData{
		Name:         name,
		Slug:         slug,
		Description:  argString(args, "description"),
		PrimaryColor: primaryColor,
		LogoURL:      argString(args, "logo_url"),
	}

	voice := operations.VoiceSettings{
		Tone:           tone,
		Personality:    personality,
		TargetAudience: argString(args, "target_audience"),
		BrandValues:    argStringSlice(args, "brand_values"),
		AvoidWords:     argStringSlice(args, "avoid_words"),
	}
	if voice.Tone != "" || len(voice.Personality) > 0 || voice.TargetAudience != "" ||
		len(voice.BrandValues) > 0 || len(voice.AvoidWords) > 0 {
		data.VoiceSettings = &voice
	}

	op := operations.NewCreateBrand(customerID, data, operations.ToolMetadata(argString(args, "execution_id")))

	return OK(map[string]any{
		"message":        fmt.Sprintf("Brand '%s' will be created", name),
		"operation_type": "create_brand",
		"customer_id":    customerID,
		"slug":           slug,
	}, &op), nil
}
