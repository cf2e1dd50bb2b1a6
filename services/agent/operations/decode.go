// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package operations

import (
	"encoding/json"
	"fmt"
)

// ErrUnknownType is wrapped by decode failures on an unrecognized
// operation type.
var ErrUnknownType = fmt.Errorf("operations: unknown operation type")

// DecodeMap converts a decoded JSON object into a typed EntityOperation.
//
// Description:
//
//	Tolerant decode adapter for operations arriving in agent output or
//	over the wire. Accepts both the external camelCase field names
//	(brandId, targetAudience) and snake_case aliases (brand_id,
//	target_audience) produced by some models. The first matching alias
//	wins. Unknown payload fields are dropped.
//
// Inputs:
//   - m: The decoded object. Must carry a known "type".
//
// Outputs:
//   - *EntityOperation: The typed operation.
//   - error: Non-nil when type is missing or unknown.
func DecodeMap(m map[string]any) (*EntityOperation, error) {
	typeStr := stringField(m, "type")
	opType := Type(typeStr)
	if !knownTypes[opType] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typeStr)
	}

	op := &EntityOperation{
		Type:       opType,
		CustomerID: stringField(m, "customerId", "customer_id"),
		BrandID:    stringField(m, "brandId", "brand_id"),
		CampaignID: stringField(m, "campaignId", "campaign_id"),
		ContentID:  stringField(m, "contentId", "content_id"),
	}

	if metaRaw, ok := m["metadata"].(map[string]any); ok {
		op.Metadata = &Metadata{
			AIGenerated:       boolField(metaRaw, "aiGenerated", "ai_generated"),
			SourceExecutionID: stringField(metaRaw, "sourceExecutionId", "source_execution_id"),
		}
	}

	data, _ := m["data"].(map[string]any)
	switch opType {
	case TypeCreateBrand:
		op.Data = decodeBrandData(data)
	case TypeCreateCampaign, TypeUpdateCampaign:
		op.Data = decodeCampaignData(data)
	case TypeCreateContent, TypeUpdateContent:
		op.Data = decodeContentData(data)
	}

	return op, nil
}

func decodeBrandData(m map[string]any) BrandData {
	d := BrandData{
		Name:         stringField(m, "name"),
		Slug:         stringField(m, "slug"),
		Description:  stringField(m, "description"),
		PrimaryColor: stringField(m, "primaryColor", "primary_color"),
		LogoURL:      stringField(m, "logoUrl", "logo_url"),
	}
	if vsRaw, ok := m["voiceSettings"].(map[string]any); ok {
		d.VoiceSettings = decodeVoiceSettings(vsRaw)
	} else if vsRaw, ok := m["voice_settings"].(map[string]any); ok {
		d.VoiceSettings = decodeVoiceSettings(vsRaw)
	}
	return d
}

func decodeVoiceSettings(m map[string]any) *VoiceSettings {
	return &VoiceSettings{
		Tone:           stringField(m, "tone"),
		Personality:    stringSliceField(m, "personality"),
		TargetAudience: stringField(m, "targetAudience", "target_audience"),
		BrandValues:    stringSliceField(m, "brandValues", "brand_values"),
		AvoidWords:     stringSliceField(m, "avoidWords", "avoid_words"),
	}
}

func decodeCampaignData(m map[string]any) CampaignData {
	return CampaignData{
		Name:           stringField(m, "name"),
		Description:    stringField(m, "description"),
		Goal:           stringField(m, "goal"),
		TargetAudience: stringField(m, "targetAudience", "target_audience"),
		Channels:       stringSliceField(m, "channels"),
		Status:         stringField(m, "status"),
		StartDate:      stringField(m, "startDate", "start_date"),
		EndDate:        stringField(m, "endDate", "end_date"),
	}
}

func decodeContentData(m map[string]any) ContentData {
	return ContentData{
		Type:        stringField(m, "type", "contentType", "content_type"),
		Channel:     stringField(m, "channel"),
		Title:       stringField(m, "title"),
		Body:        stringField(m, "body"),
		Status:      stringField(m, "status"),
		MediaURLs:   stringSliceField(m, "mediaUrls", "media_urls"),
		ScheduledAt: stringField(m, "scheduledAt", "scheduled_at"),
	}
}

// UnmarshalJSON decodes through DecodeMap so wire input gets the same
// alias tolerance as operations embedded in agent output.
func (op *EntityOperation) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("operations: decoding operation: %w", err)
	}
	decoded, err := DecodeMap(m)
	if err != nil {
		return err
	}
	*op = *decoded
	return nil
}

// stringField returns the first non-empty string value among keys.
func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// boolField returns the first bool value among keys, false if absent.
func boolField(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := m[k].(bool); ok {
			return b
		}
	}
	return false
}

// stringSliceField returns the first list value among keys, coerced to a
// string slice. Non-string elements are skipped.
func stringSliceField(m map[string]any, keys ...string) []string {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case []string:
			if len(v) > 0 {
				return v
			}
		case []any:
			var out []string
			for _, item := range v {
				if s, ok := item.(string); ok {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}
