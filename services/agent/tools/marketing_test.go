// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/bigripple/agent-framework/services/agent/operations"
)

func marketingExecutor() *Executor {
	return NewExecutor(NewMarketingRegistry())
}

func execCtx() map[string]any {
	return map[string]any{"execution_id": "exec-123"}
}

// ============================================================================
// Campaign tools
// ============================================================================

func TestCreateCampaign_Success(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "create_campaign", map[string]any{
		"brand_id": "brand-1",
		"name":     "Summer Launch",
		"channels": []any{"linkedin", "email"},
		"goal":     "Drive signups",
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}

	op := res.EntityOperation
	if op == nil {
		t.Fatal("expected an entity operation")
	}
	if op.Type != operations.TypeCreateCampaign {
		t.Errorf("Type = %q, want %q", op.Type, operations.TypeCreateCampaign)
	}
	if op.BrandID != "brand-1" {
		t.Errorf("BrandID = %q, want brand-1", op.BrandID)
	}
	data, ok := op.Data.(operations.CampaignData)
	if !ok {
		t.Fatalf("Data is %T, want CampaignData", op.Data)
	}
	if data.Status != "DRAFT" {
		t.Errorf("Status = %q, want DRAFT", data.Status)
	}
	if len(data.Channels) != 2 {
		t.Errorf("Channels = %v", data.Channels)
	}
	if op.Metadata == nil || !op.Metadata.AIGenerated || op.Metadata.SourceExecutionID != "exec-123" {
		t.Errorf("Metadata = %+v", op.Metadata)
	}
}

func TestCreateCampaign_MetadataFallback(t *testing.T) {
	e := marketingExecutor()

	// No execution_id in the call context.
	res := e.Execute(context.Background(), "create_campaign", map[string]any{
		"brand_id": "brand-1",
		"name":     "Fallback",
		"channels": []any{"blog"},
	}, nil)
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}
	if res.EntityOperation.Metadata.SourceExecutionID != "unknown" {
		t.Errorf("SourceExecutionID = %q, want unknown", res.EntityOperation.Metadata.SourceExecutionID)
	}
}

func TestCreateCampaign_InvalidChannels(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "create_campaign", map[string]any{
		"brand_id": "brand-1",
		"name":     "Bad Channels",
		"channels": []any{"linkedin", "tiktok", "carrier-pigeon"},
	}, execCtx())
	if res.Success || res.Error.Code != "INVALID_CHANNELS" {
		t.Fatalf("result = %+v, want INVALID_CHANNELS", res)
	}
	if !strings.Contains(res.Error.Message, "tiktok") {
		t.Errorf("message = %q, should name the offending channels", res.Error.Message)
	}
	if res.EntityOperation != nil {
		t.Error("failed calls must not carry operations")
	}
}

func TestCreateCampaign_MissingRequired(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "create_campaign", map[string]any{
		"name": "No brand",
	}, execCtx())
	if res.Success || res.Error.Code != "MISSING_PARAMETERS" {
		t.Fatalf("result = %+v, want MISSING_PARAMETERS", res)
	}
	missing := res.Error.Details["missing"].([]string)
	if len(missing) != 2 || missing[0] != "brand_id" || missing[1] != "channels" {
		t.Errorf("missing = %v, want [brand_id channels]", missing)
	}
}

func TestUpdateCampaign_Success(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "update_campaign", map[string]any{
		"campaign_id": "camp-9",
		"status":      "ACTIVE",
		"goal":        "New goal",
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}

	op := res.EntityOperation
	if op.Type != operations.TypeUpdateCampaign || op.CampaignID != "camp-9" {
		t.Errorf("op = %+v", op)
	}
	// Updates are user-directed edits, not AI proposals.
	if op.Metadata != nil {
		t.Errorf("update operations must not carry metadata, got %+v", op.Metadata)
	}

	data := res.Data.(map[string]any)
	updated := data["updates"].([]string)
	if len(updated) != 2 || updated[0] != "goal" || updated[1] != "status" {
		t.Errorf("updates = %v, want [goal status]", updated)
	}
}

func TestUpdateCampaign_Validation(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "update_campaign", map[string]any{
		"campaign_id": "camp-9",
		"status":      "RUNNING",
	}, execCtx())
	if res.Success || res.Error.Code != "INVALID_STATUS" {
		t.Errorf("result = %+v, want INVALID_STATUS", res)
	}

	res = e.Execute(context.Background(), "update_campaign", map[string]any{
		"campaign_id": "camp-9",
		"channels":    []any{"myspace"},
	}, execCtx())
	if res.Success || res.Error.Code != "INVALID_CHANNELS" {
		t.Errorf("result = %+v, want INVALID_CHANNELS", res)
	}

	res = e.Execute(context.Background(), "update_campaign", map[string]any{
		"campaign_id": "camp-9",
	}, execCtx())
	if res.Success || res.Error.Code != "NO_UPDATES" {
		t.Errorf("result = %+v, want NO_UPDATES", res)
	}
}

// ============================================================================
// Content tools
// ============================================================================

func TestCreateContent_Success(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "create_content", map[string]any{
		"brand_id":     "brand-1",
		"content_type": "SOCIAL_POST",
		"channel":      "linkedin",
		"body":         "Big announcement coming soon.",
		"campaign_id":  "camp-1",
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}

	op := res.EntityOperation
	if op.Type != operations.TypeCreateContent {
		t.Errorf("Type = %q", op.Type)
	}
	if op.BrandID != "brand-1" || op.CampaignID != "camp-1" {
		t.Errorf("ids = (%q, %q)", op.BrandID, op.CampaignID)
	}
	data := op.Data.(operations.ContentData)
	if data.Type != "SOCIAL_POST" || data.Channel != "linkedin" || data.Status != "DRAFT" {
		t.Errorf("data = %+v", data)
	}
}

func TestCreateContent_Validation(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "create_content", map[string]any{
		"brand_id":     "brand-1",
		"content_type": "PODCAST",
		"channel":      "linkedin",
		"body":         "x",
	}, execCtx())
	if res.Success || res.Error.Code != "INVALID_CONTENT_TYPE" {
		t.Errorf("result = %+v, want INVALID_CONTENT_TYPE", res)
	}

	res = e.Execute(context.Background(), "create_content", map[string]any{
		"brand_id":     "brand-1",
		"content_type": "SOCIAL_POST",
		"channel":      "linkedin",
		"body":         "   ",
	}, execCtx())
	if res.Success || res.Error.Code != "EMPTY_BODY" {
		t.Errorf("result = %+v, want EMPTY_BODY for whitespace body", res)
	}
}

func TestCreateContent_BodyTruncatedInMessage(t *testing.T) {
	e := marketingExecutor()

	body := strings.Repeat("a", 80)
	res := e.Execute(context.Background(), "create_content", map[string]any{
		"brand_id":     "brand-1",
		"content_type": "BLOG_POST",
		"channel":      "blog",
		"body":         body,
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}
	msg := res.Data.(map[string]any)["message"].(string)
	if !strings.Contains(msg, strings.Repeat("a", 50)+"...") {
		t.Errorf("message = %q, want truncated body preview", msg)
	}
	if strings.Contains(msg, body) {
		t.Error("message should not include the full body")
	}
}

func TestUpdateContent_Validation(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "update_content", map[string]any{
		"content_id": "content-1",
		"body":       "",
	}, execCtx())
	if res.Success || res.Error.Code != "EMPTY_BODY" {
		t.Errorf("result = %+v, want EMPTY_BODY when body is provided but blank", res)
	}

	res = e.Execute(context.Background(), "update_content", map[string]any{
		"content_id": "content-1",
	}, execCtx())
	if res.Success || res.Error.Code != "NO_UPDATES" {
		t.Errorf("result = %+v, want NO_UPDATES", res)
	}

	res = e.Execute(context.Background(), "update_content", map[string]any{
		"content_id": "content-1",
		"status":     "PUBLISHED",
		"title":      "Refreshed title",
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}
	op := res.EntityOperation
	if op.Type != operations.TypeUpdateContent || op.ContentID != "content-1" {
		t.Errorf("op = %+v", op)
	}
	if op.Metadata != nil {
		t.Error("update operations must not carry metadata")
	}
}

// ============================================================================
// Brand tool
// ============================================================================

func TestCreateBrand_Success(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "create_brand", map[string]any{
		"customer_id":     "cust-1",
		"name":            "Acme Coffee",
		"slug":            "acme-coffee",
		"tone":            "friendly",
		"personality":     []any{"warm", "quirky"},
		"target_audience": "Remote workers",
		"primary_color":   "#FF5733",
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}

	op := res.EntityOperation
	if op.Type != operations.TypeCreateBrand || op.CustomerID != "cust-1" {
		t.Errorf("op = %+v", op)
	}
	data := op.Data.(operations.BrandData)
	if data.VoiceSettings == nil {
		t.Fatal("voice settings should be assembled when voice fields are set")
	}
	if data.VoiceSettings.Tone != "friendly" || len(data.VoiceSettings.Personality) != 2 {
		t.Errorf("voice = %+v", data.VoiceSettings)
	}
}

func TestCreateBrand_NoVoiceSettings(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "create_brand", map[string]any{
		"customer_id": "cust-1",
		"name":        "Plain Brand",
		"slug":        "plain-brand",
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}
	data := res.EntityOperation.Data.(operations.BrandData)
	if data.VoiceSettings != nil {
		t.Errorf("voice settings should be omitted when no voice fields are set, got %+v", data.VoiceSettings)
	}
}

func TestCreateBrand_Validation(t *testing.T) {
	e := marketingExecutor()

	cases := []struct {
		name     string
		args     map[string]any
		wantCode string
	}{
		{
			name:     "short name",
			args:     map[string]any{"customer_id": "c", "name": "A", "slug": "ok-slug"},
			wantCode: "INVALID_NAME",
		},
		{
			name:     "uppercase slug",
			args:     map[string]any{"customer_id": "c", "name": "Acme", "slug": "Not-Valid"},
			wantCode: "INVALID_SLUG",
		},
		{
			name:     "slug too short",
			args:     map[string]any{"customer_id": "c", "name": "Acme", "slug": "a"},
			wantCode: "INVALID_SLUG",
		},
		{
			name:     "bad tone",
			args:     map[string]any{"customer_id": "c", "name": "Acme", "slug": "acme", "tone": "sarcastic"},
			wantCode: "INVALID_TONE",
		},
		{
			name: "too many traits",
			args: map[string]any{"customer_id": "c", "name": "Acme", "slug": "acme",
				"personality": []any{"a", "b", "c", "d", "e", "f"}},
			wantCode: "TOO_MANY_PERSONALITY_TRAITS",
		},
		{
			name:     "bad color",
			args:     map[string]any{"customer_id": "c", "name": "Acme", "slug": "acme", "primary_color": "red"},
			wantCode: "INVALID_COLOR",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := e.Execute(context.Background(), "create_brand", tc.args, execCtx())
			if res.Success {
				t.Fatal("expected failure")
			}
			if res.Error.Code != tc.wantCode {
				t.Errorf("code = %q, want %q", res.Error.Code, tc.wantCode)
			}
		})
	}
}

// ============================================================================
// Knowledge tools
// ============================================================================

func TestKnowledgeTools_NoOperations(t *testing.T) {
	e := marketingExecutor()

	res := e.Execute(context.Background(), "search_knowledge_base", map[string]any{
		"query": "best performing posts",
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}
	if res.EntityOperation != nil {
		t.Error("knowledge tools never produce operations")
	}
	data := res.Data.(map[string]any)
	if data["max_results"] != 5 {
		t.Errorf("max_results = %v, want default 5", data["max_results"])
	}

	res = e.Execute(context.Background(), "get_campaign_performance", map[string]any{
		"brand_id": "brand-1",
		"limit":    float64(3),
	}, execCtx())
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res.Error)
	}
	if res.Data.(map[string]any)["limit"] != 3 {
		t.Errorf("limit = %v, want 3", res.Data.(map[string]any)["limit"])
	}
}
