// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package entitycontext

import (
	"fmt"
	"strings"
)

// Per-section caps keep the injected context inside a predictable token
// envelope regardless of how much the CMS sends.
const (
	maxBrands          = 10
	maxCampaigns       = 10
	maxContents        = 10
	maxVocabularyWords = 10
	maxDescriptionLen  = 200
	maxGoalLen         = 150
	maxBodyPreviewLen  = 50
)

// Sections selects which context sections the injector renders. The
// tenant section is always rendered.
type Sections struct {
	Brands     bool
	Campaigns  bool
	Content    bool
	BrandVoice bool
	RAG        bool
}

// AllSections enables every section.
func AllSections() Sections {
	return Sections{Brands: true, Campaigns: true, Content: true, BrandVoice: true, RAG: true}
}

// Injector renders an EntityContext into markdown for system prompt
// injection.
//
// Description:
//
//	Output is a sequence of "## ..." sections joined by blank lines.
//	Empty inputs render no section, so a bare tenant context stays a
//	few lines. List sections are capped and long free-text fields
//	truncated to bound prompt growth.
//
// Thread Safety: Injector is stateless and safe for concurrent use.
type Injector struct{}

// NewInjector creates a context injector.
func NewInjector() *Injector {
	return &Injector{}
}

// BuildContextPrompt renders the selected sections of a context.
func (in *Injector) BuildContextPrompt(c *EntityContext, sections Sections) string {
	parts := []string{formatTenant(c)}

	if sections.Brands && len(c.Brands) > 0 {
		parts = append(parts, formatBrands(c.Brands))
	}
	if sections.BrandVoice && c.BrandVoice != nil {
		if s := formatBrandVoice(c.BrandVoice); s != "" {
			parts = append(parts, s)
		}
	}
	if sections.Campaigns && len(c.Campaigns) > 0 {
		parts = append(parts, formatCampaigns(c.Campaigns))
	}
	if sections.Content && len(c.Contents) > 0 {
		parts = append(parts, formatContents(c.Contents))
	}
	if sections.RAG && c.HasRAGContext() {
		parts = append(parts, formatRAG(c.RetrievalContext))
	}

	return strings.Join(parts, "\n\n")
}

// BuildFullContext renders every section.
func (in *Injector) BuildFullContext(c *EntityContext) string {
	return in.BuildContextPrompt(c, AllSections())
}

// BuildMinimalContext renders only tenant scope, brand voice, and RAG
// text. For token-constrained prompts.
func (in *Injector) BuildMinimalContext(c *EntityContext) string {
	return in.BuildContextPrompt(c, Sections{BrandVoice: true, RAG: true})
}

func formatTenant(c *EntityContext) string {
	lines := []string{"## Current Context"}
	lines = append(lines, fmt.Sprintf("- User ID: %s", c.UserID))
	if c.BrandID != "" {
		lines = append(lines, fmt.Sprintf("- Active Brand ID: %s", c.BrandID))
	}
	if c.CustomerID != "" {
		lines = append(lines, fmt.Sprintf("- Customer ID: %s", c.CustomerID))
	}
	if c.AgencyID != "" {
		lines = append(lines, fmt.Sprintf("- Agency ID: %s", c.AgencyID))
	}
	return strings.Join(lines, "\n")
}

func formatBrands(brands []BrandSummary) string {
	lines := []string{"## Available Brands"}
	for _, brand := range capBrands(brands) {
		lines = append(lines, fmt.Sprintf("- **%s** (ID: %s)", brand.Name, brand.ID))
		if brand.Description != "" {
			lines = append(lines, fmt.Sprintf("  - Description: %s", truncate(brand.Description, maxDescriptionLen)))
		}
		lines = append(lines, fmt.Sprintf("  - Campaigns: %d, Content: %d", brand.CampaignsCount, brand.ContentsCount))
	}
	return strings.Join(lines, "\n")
}

func formatBrandVoice(voice *BrandVoiceSettings) string {
	lines := []string{"## Brand Voice Guidelines"}
	if voice.Tone != "" {
		lines = append(lines, fmt.Sprintf("- **Tone**: %s", voice.Tone))
	}
	if len(voice.Personality) > 0 {
		lines = append(lines, fmt.Sprintf("- **Personality**: %s", strings.Join(voice.Personality, ", ")))
	}
	if voice.TargetAudience != "" {
		lines = append(lines, fmt.Sprintf("- **Target Audience**: %s", voice.TargetAudience))
	}
	if len(voice.BrandValues) > 0 {
		lines = append(lines, fmt.Sprintf("- **Brand Values**: %s", strings.Join(voice.BrandValues, ", ")))
	}
	if len(voice.Vocabulary) > 0 {
		vocab := voice.Vocabulary
		if len(vocab) > maxVocabularyWords {
			vocab = vocab[:maxVocabularyWords]
		}
		lines = append(lines, fmt.Sprintf("- **Vocabulary**: %s", strings.Join(vocab, ", ")))
	}
	if len(voice.AvoidWords) > 0 {
		lines = append(lines, fmt.Sprintf("- **Avoid**: %s", strings.Join(voice.AvoidWords, ", ")))
	}
	if len(lines) == 1 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func formatCampaigns(campaigns []CampaignSummary) string {
	if len(campaigns) > maxCampaigns {
		campaigns = campaigns[:maxCampaigns]
	}
	lines := []string{"## Active Campaigns"}
	for _, campaign := range campaigns {
		lines = append(lines, fmt.Sprintf("- **%s** (ID: %s, Status: %s)", campaign.Name, campaign.ID, campaign.Status))
		if campaign.Goal != "" {
			lines = append(lines, fmt.Sprintf("  - Goal: %s", truncate(campaign.Goal, maxGoalLen)))
		}
		if campaign.TargetAudience != "" {
			lines = append(lines, fmt.Sprintf("  - Target Audience: %s", campaign.TargetAudience))
		}
		if len(campaign.Channels) > 0 {
			lines = append(lines, fmt.Sprintf("  - Channels: %s", strings.Join(campaign.Channels, ", ")))
		}
		lines = append(lines, fmt.Sprintf("  - Content Pieces: %d", campaign.ContentsCount))
	}
	return strings.Join(lines, "\n")
}

func formatContents(contents []ContentSummary) string {
	if len(contents) > maxContents {
		contents = contents[:maxContents]
	}
	lines := []string{"## Recent Content"}
	for _, content := range contents {
		title := content.Title
		if title == "" {
			title = truncate(content.Body, maxBodyPreviewLen)
		}
		lines = append(lines, fmt.Sprintf("- **%s** (%s, %s)", title, content.Type, content.Channel))
		lines = append(lines, fmt.Sprintf("  - Status: %s", content.Status))
		if content.Impressions > 0 || content.Engagements > 0 {
			lines = append(lines, fmt.Sprintf("  - Metrics: %d impressions, %d engagements, %d clicks",
				content.Impressions, content.Engagements, content.Clicks))
		}
		if content.CampaignName != "" {
			lines = append(lines, fmt.Sprintf("  - Campaign: %s", content.CampaignName))
		}
	}
	return strings.Join(lines, "\n")
}

func formatRAG(retrievalContext string) string {
	return "## Knowledge Base Context\n" +
		"Use the following information from past campaigns and content to inform your response:\n\n" +
		retrievalContext
}

func capBrands(brands []BrandSummary) []BrandSummary {
	if len(brands) > maxBrands {
		return brands[:maxBrands]
	}
	return brands
}

// truncate cuts s to max characters, appending "..." when cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
