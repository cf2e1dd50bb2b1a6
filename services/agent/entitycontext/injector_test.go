// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package entitycontext

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func sampleContext() *EntityContext {
	return &EntityContext{
		UserID:     "user-1",
		CustomerID: "cust-1",
		BrandID:    "brand-1",
		Brands: []BrandSummary{
			{ID: "brand-1", Name: "Acme Coffee", Slug: "acme-coffee",
				Description: "Small batch roaster", CampaignsCount: 3, ContentsCount: 12},
			{ID: "brand-2", Name: "Acme Tea", Slug: "acme-tea"},
		},
		Campaigns: []CampaignSummary{
			{ID: "camp-1", Name: "Summer Launch", Status: "ACTIVE",
				Goal: "Drive signups", Channels: []string{"linkedin", "email"}, ContentsCount: 4},
			{ID: "camp-2", Name: "Archive Test", Status: "ARCHIVED"},
		},
		Contents: []ContentSummary{
			{ID: "content-1", Type: "SOCIAL_POST", Channel: "linkedin",
				Title: "Launch teaser", Body: "Something is brewing.", Status: "PUBLISHED",
				Impressions: 1200, Engagements: 90, Clicks: 15, CampaignName: "Summer Launch"},
		},
		BrandVoice: &BrandVoiceSettings{
			Tone:        "friendly",
			Personality: []string{"warm", "quirky"},
			AvoidWords:  []string{"cheap"},
		},
		RetrievalContext: "Past campaign CTR averaged 2.3% on linkedin.",
	}
}

func TestEntityContext_ActiveBrand(t *testing.T) {
	c := sampleContext()

	brand := c.ActiveBrand()
	if brand == nil || brand.ID != "brand-1" {
		t.Errorf("ActiveBrand = %+v, want brand-1", brand)
	}

	c.BrandID = "brand-404"
	if c.ActiveBrand() != nil {
		t.Error("unknown BrandID should yield nil")
	}

	c.BrandID = ""
	if c.ActiveBrand() != nil {
		t.Error("unset BrandID should yield nil")
	}
}

func TestEntityContext_ActiveCampaigns(t *testing.T) {
	c := sampleContext()

	if got := c.ActiveCampaigns(""); len(got) != 2 {
		t.Errorf("unfiltered = %d campaigns, want 2", len(got))
	}
	active := c.ActiveCampaigns("ACTIVE")
	if len(active) != 1 || active[0].ID != "camp-1" {
		t.Errorf("ACTIVE = %+v", active)
	}
	if got := c.ActiveCampaigns("PAUSED"); len(got) != 0 {
		t.Errorf("PAUSED = %+v, want none", got)
	}
}

func TestEntityContext_JSONRoundTrip(t *testing.T) {
	raw := `{
		"userId": "user-1",
		"brandId": "brand-1",
		"brands": [{"id": "brand-1", "name": "Acme", "slug": "acme", "campaignsCount": 2, "contentsCount": 5}],
		"brandVoice": {"tone": "casual", "avoidWords": ["synergy"]},
		"retrievalContext": "notes"
	}`

	var c EntityContext
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if c.UserID != "user-1" || c.BrandID != "brand-1" {
		t.Errorf("tenant scope = %+v", c)
	}
	if len(c.Brands) != 1 || c.Brands[0].CampaignsCount != 2 {
		t.Errorf("brands = %+v", c.Brands)
	}
	if c.BrandVoice == nil || c.BrandVoice.Tone != "casual" {
		t.Errorf("brandVoice = %+v", c.BrandVoice)
	}
	if !c.HasRAGContext() {
		t.Error("HasRAGContext should be true")
	}
}

func TestInjector_FullContext(t *testing.T) {
	out := NewInjector().BuildFullContext(sampleContext())

	for _, want := range []string{
		"## Current Context",
		"- User ID: user-1",
		"- Active Brand ID: brand-1",
		"- Customer ID: cust-1",
		"## Available Brands",
		"- **Acme Coffee** (ID: brand-1)",
		"  - Campaigns: 3, Content: 12",
		"## Brand Voice Guidelines",
		"- **Tone**: friendly",
		"- **Personality**: warm, quirky",
		"- **Avoid**: cheap",
		"## Active Campaigns",
		"- **Summer Launch** (ID: camp-1, Status: ACTIVE)",
		"  - Channels: linkedin, email",
		"## Recent Content",
		"- **Launch teaser** (SOCIAL_POST, linkedin)",
		"  - Metrics: 1200 impressions, 90 engagements, 15 clicks",
		"## Knowledge Base Context",
		"Past campaign CTR averaged 2.3% on linkedin.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestInjector_TenantOnly(t *testing.T) {
	c := &EntityContext{UserID: "user-1"}
	out := NewInjector().BuildFullContext(c)

	if !strings.HasPrefix(out, "## Current Context") {
		t.Errorf("output = %q", out)
	}
	if strings.Count(out, "## ") != 1 {
		t.Errorf("empty context should render only the tenant section:\n%s", out)
	}
	// Agency line absent when unset.
	if strings.Contains(out, "Agency ID") {
		t.Error("unset agency id should not be rendered")
	}
}

func TestInjector_MinimalContext(t *testing.T) {
	out := NewInjector().BuildMinimalContext(sampleContext())

	if !strings.Contains(out, "## Brand Voice Guidelines") {
		t.Error("minimal context should keep brand voice")
	}
	if !strings.Contains(out, "## Knowledge Base Context") {
		t.Error("minimal context should keep RAG text")
	}
	for _, absent := range []string{"## Available Brands", "## Active Campaigns", "## Recent Content"} {
		if strings.Contains(out, absent) {
			t.Errorf("minimal context should omit %q", absent)
		}
	}
}

func TestInjector_ListCapsAndTruncation(t *testing.T) {
	c := &EntityContext{UserID: "user-1"}
	for i := 0; i < 15; i++ {
		c.Brands = append(c.Brands, BrandSummary{
			ID: fmt.Sprintf("brand-%d", i), Name: fmt.Sprintf("Brand %d", i), Slug: "x",
		})
	}
	c.Brands[0].Description = strings.Repeat("d", 250)
	c.Campaigns = []CampaignSummary{
		{ID: "camp-1", Name: "Long Goal", Status: "ACTIVE", Goal: strings.Repeat("g", 200)},
	}
	c.Contents = []ContentSummary{
		{ID: "content-1", Type: "SOCIAL_POST", Channel: "blog",
			Body: strings.Repeat("b", 120), Status: "DRAFT"},
	}

	out := NewInjector().BuildFullContext(c)

	if strings.Contains(out, "Brand 10") {
		t.Error("brand list should be capped at 10")
	}
	if !strings.Contains(out, "Brand 9") {
		t.Error("tenth brand should still be rendered")
	}
	if !strings.Contains(out, strings.Repeat("d", 200)+"...") {
		t.Error("long description should be truncated to 200 chars")
	}
	if !strings.Contains(out, strings.Repeat("g", 150)+"...") {
		t.Error("long goal should be truncated to 150 chars")
	}
	// Untitled content falls back to a body preview.
	if !strings.Contains(out, strings.Repeat("b", 50)+"...") {
		t.Error("untitled content should use a 50 char body preview")
	}
}

func TestInjector_EmptyVoiceOmitted(t *testing.T) {
	c := &EntityContext{UserID: "user-1", BrandVoice: &BrandVoiceSettings{}}
	out := NewInjector().BuildFullContext(c)
	if strings.Contains(out, "## Brand Voice Guidelines") {
		t.Error("a voice block with no fields should render nothing")
	}
}
