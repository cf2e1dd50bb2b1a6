// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package entitycontext models the CMS entity context delivered with each
// agent invocation, and formats it for prompt injection.
package entitycontext

// BrandVoiceSettings is the brand voice configuration for content
// generation.
type BrandVoiceSettings struct {
	Tone           string   `json:"tone,omitempty"`
	Personality    []string `json:"personality,omitempty"`
	Vocabulary     []string `json:"vocabulary,omitempty"`
	AvoidWords     []string `json:"avoidWords,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty"`
	BrandValues    []string `json:"brandValues,omitempty"`
}

// BrandSummary is a brand as seen in context injection.
type BrandSummary struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Slug           string              `json:"slug"`
	Description    string              `json:"description,omitempty"`
	VoiceSettings  *BrandVoiceSettings `json:"voiceSettings,omitempty"`
	PrimaryColor   string              `json:"primaryColor,omitempty"`
	CampaignsCount int                 `json:"campaignsCount"`
	ContentsCount  int                 `json:"contentsCount"`
}

// CampaignSummary is a campaign as seen in context injection.
type CampaignSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Status         string   `json:"status"`
	Goal           string   `json:"goal,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty"`
	StartDate      string   `json:"startDate,omitempty"`
	EndDate        string   `json:"endDate,omitempty"`
	Channels       []string `json:"channels,omitempty"`
	ContentsCount  int      `json:"contentsCount"`
}

// ContentSummary is a content item as seen in context injection.
type ContentSummary struct {
	ID           string `json:"id"`
	Type         string `json:"type"`
	Channel      string `json:"channel"`
	Title        string `json:"title,omitempty"`
	Body         string `json:"body"`
	Status       string `json:"status"`
	ScheduledAt  string `json:"scheduledAt,omitempty"`
	PublishedAt  string `json:"publishedAt,omitempty"`
	CampaignID   string `json:"campaignId,omitempty"`
	CampaignName string `json:"campaignName,omitempty"`
	AIGenerated  bool   `json:"aiGenerated,omitempty"`
	Impressions  int    `json:"impressions,omitempty"`
	Engagements  int    `json:"engagements,omitempty"`
	Clicks       int    `json:"clicks,omitempty"`
}

// EntityContext is the full context the CMS sends when invoking an agent.
//
// Description:
//
//	Carries the tenant scope from auth (UserID is required, the rest are
//	optional narrowing), the entity awareness lists (brands, campaigns,
//	recent content), brand voice guidelines, and the RAG retrieval text
//	pre-fetched by the CMS. Agents read it; they never mutate it.
type EntityContext struct {
	UserID     string `json:"userId"`
	AgencyID   string `json:"agencyId,omitempty"`
	CustomerID string `json:"customerId,omitempty"`
	BrandID    string `json:"brandId,omitempty"`

	Brands    []BrandSummary    `json:"brands,omitempty"`
	Campaigns []CampaignSummary `json:"campaigns,omitempty"`
	Contents  []ContentSummary  `json:"contents,omitempty"`

	KnowledgeBases []string            `json:"knowledgeBases,omitempty"`
	BrandVoice     *BrandVoiceSettings `json:"brandVoice,omitempty"`

	// RetrievalContext is RAG text pre-retrieved by the CMS.
	RetrievalContext string `json:"retrievalContext,omitempty"`
}

// ActiveBrand returns the brand matching BrandID, or nil when BrandID is
// unset or not present in the brands list.
func (c *EntityContext) ActiveBrand() *BrandSummary {
	if c.BrandID == "" {
		return nil
	}
	for i := range c.Brands {
		if c.Brands[i].ID == c.BrandID {
			return &c.Brands[i]
		}
	}
	return nil
}

// ActiveCampaigns returns campaigns, filtered by status when status is
// non-empty.
func (c *EntityContext) ActiveCampaigns(status string) []CampaignSummary {
	if status == "" {
		return c.Campaigns
	}
	var out []CampaignSummary
	for _, campaign := range c.Campaigns {
		if campaign.Status == status {
			out = append(out, campaign)
		}
	}
	return out
}

// HasRAGContext reports whether pre-retrieved RAG text is available.
func (c *EntityContext) HasRAGContext() bool {
	return c.RetrievalContext != ""
}
