// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package operations

import (
	"log/slog"
	"strings"
)

// campaignKeys are output keys that indicate campaign suggestions.
var campaignKeys = []string{"campaigns", "campaignOptions", "suggestedCampaigns", "campaignProposals"}

// contentKeys are output keys that indicate content suggestions.
var contentKeys = []string{"contents", "contentItems", "suggestedContent", "posts", "socialPosts", "contentCalendar"}

// createFlags mark a suggested item as intended for creation.
var createFlags = []string{"createInSystem", "saveToDatabase", "autoCreate", "save", "create"}

// validContentTypes are the CMS content type constants.
var validContentTypes = map[string]bool{
	"BLOG_POST":    true,
	"SOCIAL_POST":  true,
	"EMAIL":        true,
	"AD_COPY":      true,
	"LANDING_PAGE": true,
}

// contentTypeSynonyms maps loose model spellings to CMS content types.
var contentTypeSynonyms = map[string]string{
	"blog":         "BLOG_POST",
	"blog_post":    "BLOG_POST",
	"blogpost":     "BLOG_POST",
	"social":       "SOCIAL_POST",
	"social_post":  "SOCIAL_POST",
	"socialpost":   "SOCIAL_POST",
	"post":         "SOCIAL_POST",
	"email":        "EMAIL",
	"ad":           "AD_COPY",
	"ad_copy":      "AD_COPY",
	"adcopy":       "AD_COPY",
	"landing":      "LANDING_PAGE",
	"landing_page": "LANDING_PAGE",
	"landingpage":  "LANDING_PAGE",
}

// Defaults supplies fallback ids for inferred operations.
type Defaults struct {
	// BrandID is the default brand for items that carry none.
	BrandID string

	// CampaignID is the default campaign for inferred content.
	CampaignID string

	// ExecutionID stamps provenance metadata on inferred operations.
	ExecutionID string
}

// Extractor pulls entity operations out of agent output.
//
// Description:
//
//	Three sources, in priority order: operations returned by tools
//	(passed in verbatim), an explicit entityOperations array in a map
//	output, and heuristic inference over well-known suggestion keys
//	(campaigns, posts, ...). Inference is the only fuzzy path and can
//	be switched off without touching the deterministic ones.
//
/// Thread Safety: Extractor is immutable after construction and safe
// for concurrent use.
type Extractor struct {
	// InferOperations enables the heuristic inference source.
	InferOperations bool

	// RequireCreateFlag gates inference on an explicit create flag
	// (createInSystem, saveToDatabase, autoCreate, save, create) being
	// true on the item.
	RequireCreateFlag bool
}

// NewExtractor returns an extractor with inference on and the create
// flag required, the production defaults.
func NewExtractor() *Extractor {
	return &Extractor{InferOperations: true, RequireCreateFlag: true}
}

// Extract collects entity operations from agent output and tool results.
//
// Description:
//
//	toolOps are operations already harvested from tool results, appended
//	first and verbatim. If output is a JSON object, an explicit
//	entityOperations array is decoded next and the key is removed from
//	the returned output (the only mutation Extract performs). Inference
//	runs last, scanning the campaign keys then the content keys in their
//	fixed order. Items without a resolvable brand id, or content without
//	a body, are skipped with a warning. No de-duplication is applied
//	across sources.
//
// Inputs:
//   - output: The agent's parsed output. Any JSON value.
//   - toolOps: Operations from tool results, in call order. May be nil.
//   - d: Default ids for inference and provenance.
//
// Outputs:
//   - any: The cleaned output (entityOperations removed when present).
//   - []EntityOperation: All collected operations, in source order.
//
// Thread Safety: Safe for concurrent use.
func (e *Extractor) Extract(output any, toolOps []EntityOperation, d Defaults) (any, []EntityOperation) {
	var ops []EntityOperation
	ops = append(ops, toolOps...)

	m, isMap := output.(map[string]any)
	if !isMap {
		return output, ops
	}

	if rawOps, present := m["entityOperations"]; present {
		if list, ok := rawOps.([]any); ok {
			for _, item := range list {
				opMap, ok := item.(map[string]any)
				if !ok {
					slog.Warn("Skipping explicit operation: not an object")
					continue
				}
				op, err := DecodeMap(opMap)
				if err != nil {
					slog.Warn("Skipping explicit operation", slog.String("error", err.Error()))
					continue
				}
				ops = append(ops, *op)
			}
		}
		// Remove the key from the returned output, leaving the caller's
		// map untouched.
		cleaned := make(map[string]any, len(m))
		for k, v := range m {
			if k != "entityOperations" {
				cleaned[k] = v
			}
		}
		m = cleaned
	}

	if e.InferOperations {
		defaultBrandID := d.BrandID
		if defaultBrandID == "" {
			defaultBrandID = stringField(m, "brandId")
		}
		defaultCampaignID := d.CampaignID
		if defaultCampaignID == "" {
			defaultCampaignID = stringField(m, "campaignId")
		}

		for _, key := range campaignKeys {
			if items, present := m[key]; present {
				ops = append(ops, e.campaignsToOperations(items, defaultBrandID, d.ExecutionID)...)
			}
		}
		for _, key := range contentKeys {
			if items, present := m[key]; present {
				ops = append(ops, e.contentsToOperations(items, defaultBrandID, defaultCampaignID, d.ExecutionID)...)
			}
		}
	}

	return m, ops
}

// shouldCreate reports whether an item opted into creation.
func (e *Extractor) shouldCreate(item map[string]any) bool {
	if !e.RequireCreateFlag {
		return true
	}
	for _, flag := range createFlags {
		if boolField(item, flag) {
			return true
		}
	}
	return false
}

// campaignsToOperations converts campaign suggestions to create operations.
func (e *Extractor) campaignsToOperations(items any, brandID, executionID string) []EntityOperation {
	list, ok := items.([]any)
	if !ok {
		return nil
	}

	var ops []EntityOperation
	for _, raw := range list {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if !e.shouldCreate(item) {
			continue
		}

		itemBrandID := stringField(item, "brandId", "brand_id")
		if itemBrandID == "" {
			itemBrandID = brandID
		}
		if itemBrandID == "" {
			slog.Warn("Skipping campaign: no brandId available")
			continue
		}

		data := CampaignData{
			Name:           stringField(item, "name"),
			Description:    stringField(item, "description"),
			Goal:           stringField(item, "goal"),
			TargetAudience: stringField(item, "targetAudience", "target_audience"),
			Channels:       stringSliceField(item, "channels"),
			Status:         "DRAFT",
			StartDate:      stringField(item, "startDate", "start_date"),
			EndDate:        stringField(item, "endDate", "end_date"),
		}

		ops = append(ops, NewCreateCampaign(itemBrandID, data, InferredMetadata(executionID)))
	}
	return ops
}

// contentsToOperations converts content suggestions to create operations.
func (e *Extractor) contentsToOperations(items any, brandID, campaignID, executionID string) []EntityOperation {
	list, ok := items.([]any)
	if !ok {
		return nil
	}

	var ops []EntityOperation
	for _, raw := range list {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if !e.shouldCreate(item) {
			continue
		}

		itemBrandID := stringField(item, "brandId", "brand_id")
		if itemBrandID == "" {
			itemBrandID = brandID
		}
		if itemBrandID == "" {
			slog.Warn("Skipping content: no brandId available")
			continue
		}

		itemCampaignID := stringField(item, "campaignId", "campaign_id")
		if itemCampaignID == "" {
			itemCampaignID = campaignID
		}

		body := stringField(item, "body", "content", "text", "message")
		if body == "" {
			slog.Warn("Skipping content: no body found")
			continue
		}

		channel := stringField(item, "channel")
		if channel == "" {
			channel = "linkedin"
		}

		data := ContentData{
			Type:        inferContentType(item),
			Channel:     channel,
			Title:       stringField(item, "title"),
			Body:        body,
			Status:      "DRAFT",
			MediaURLs:   stringSliceField(item, "mediaUrls", "media_urls"),
			ScheduledAt: stringField(item, "scheduledAt", "scheduled_at"),
		}

		ops = append(ops, NewCreateContent(itemBrandID, itemCampaignID, data, InferredMetadata(executionID)))
	}
	return ops
}

// inferContentType resolves a CMS content type for a suggested item.
//
// Explicit type fields win, via the synonym table first and then an
// uppercase passthrough of already-valid values. Otherwise the channel
// decides, and SOCIAL_POST is the final fallback.
func inferContentType(item map[string]any) string {
	explicit := stringField(item, "type", "contentType")
	if explicit != "" {
		normalized := strings.ReplaceAll(strings.ToLower(explicit), "-", "_")
		if mapped, ok := contentTypeSynonyms[normalized]; ok {
			return mapped
		}
		if validContentTypes[strings.ToUpper(explicit)] {
			return strings.ToUpper(explicit)
		}
	}

	switch strings.ToLower(stringField(item, "channel")) {
	case "facebook", "instagram", "linkedin", "twitter":
		return "SOCIAL_POST"
	case "blog":
		return "BLOG_POST"
	case "email":
		return "EMAIL"
	}

	return "SOCIAL_POST"
}
