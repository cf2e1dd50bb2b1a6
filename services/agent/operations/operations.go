// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package operations defines the typed CMS entity operations the agent can
// propose, plus the extractor that pulls them out of agent output. An
// operation is a proposal only; applying it is the CMS's job.
package operations

// Type identifies the kind of CMS mutation an operation proposes.
type Type string

const (
	TypeCreateBrand    Type = "create_brand"
	TypeCreateCampaign Type = "create_campaign"
	TypeUpdateCampaign Type = "update_campaign"
	TypeCreateContent  Type = "create_content"
	TypeUpdateContent  Type = "update_content"
)

// knownTypes guards decoding against arbitrary type strings.
var knownTypes = map[Type]bool{
	TypeCreateBrand:    true,
	TypeCreateCampaign: true,
	TypeUpdateCampaign: true,
	TypeCreateContent:  true,
	TypeUpdateContent:  true,
}

// Metadata carries provenance for an operation.
type Metadata struct {
	// AIGenerated marks the operation as model-produced.
	AIGenerated bool `json:"aiGenerated,omitempty"`

	// SourceExecutionID is the agent execution that produced the
	// operation, or a sentinel ("inferred", "unknown") when no id was
	// available.
	SourceExecutionID string `json:"sourceExecutionId,omitempty"`
}

// Data is the per-type payload of an operation.
//
// Description:
//
//	The concrete type is determined by the operation Type: BrandData for
//	create_brand, CampaignData for create_campaign/update_campaign,
//	ContentData for create_content/update_content. Every payload field
//	uses omitempty so absent values are omitted rather than null.
type Data interface {
	isOperationData()
}

// VoiceSettings is the brand voice block inside BrandData.
type VoiceSettings struct {
	Tone           string   `json:"tone,omitempty"`
	Personality    []string `json:"personality,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty"`
	BrandValues    []string `json:"brandValues,omitempty"`
	AvoidWords     []string `json:"avoidWords,omitempty"`
}

// BrandData is the payload for create_brand.
type BrandData struct {
	Name          string         `json:"name,omitempty"`
	Slug          string         `json:"slug,omitempty"`
	Description   string         `json:"description,omitempty"`
	VoiceSettings *VoiceSettings `json:"voiceSettings,omitempty"`
	PrimaryColor  string         `json:"primaryColor,omitempty"`
	LogoURL       string         `json:"logoUrl,omitempty"`
}

func (BrandData) isOperationData() {}

// CampaignData is the payload for create_campaign and update_campaign.
type CampaignData struct {
	Name           string   `json:"name,omitempty"`
	Description    string   `json:"description,omitempty"`
	Goal           string   `json:"goal,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty"`
	Channels       []string `json:"channels,omitempty"`
	Status         string   `json:"status,omitempty"`
	StartDate      string   `json:"startDate,omitempty"`
	EndDate        string   `json:"endDate,omitempty"`
}

func (CampaignData) isOperationData() {}

// ContentData is the payload for create_content and update_content.
type ContentData struct {
	// Type is the content type (BLOG_POST, SOCIAL_POST, EMAIL, AD_COPY,
	// LANDING_PAGE).
	Type        string   `json:"type,omitempty"`
	Channel     string   `json:"channel,omitempty"`
	Title       string   `json:"title,omitempty"`
	Body        string   `json:"body,omitempty"`
	Status      string   `json:"status,omitempty"`
	MediaURLs   []string `json:"mediaUrls,omitempty"`
	ScheduledAt string   `json:"scheduledAt,omitempty"`
}

func (ContentData) isOperationData() {}

// EntityOperation is a proposed CMS mutation.
//
// Description:
//
//	Tagged union over the five operation types. The envelope carries the
//	target entity ids; Data holds the per-type payload. Serializes to
//	camelCase matching the CMS operation schemas, with absent fields
//	omitted (never null).
//
// Thread Safety: EntityOperation is treated as immutable once built.
type EntityOperation struct {
	Type       Type      `json:"type"`
	CustomerID string    `json:"customerId,omitempty"`
	BrandID    string    `json:"brandId,omitempty"`
	CampaignID string    `json:"campaignId,omitempty"`
	ContentID  string    `json:"contentId,omitempty"`
	Data       Data      `json:"data"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// NewCreateBrand builds a create_brand operation.
func NewCreateBrand(customerID string, data BrandData, meta *Metadata) EntityOperation {
	return EntityOperation{
		Type:       TypeCreateBrand,
		CustomerID: customerID,
		Data:       data,
		Metadata:   meta,
	}
}

// NewCreateCampaign builds a create_campaign operation.
func NewCreateCampaign(brandID string, data CampaignData, meta *Metadata) EntityOperation {
	return EntityOperation{
		Type:     TypeCreateCampaign,
		BrandID:  brandID,
		Data:     data,
		Metadata: meta,
	}
}

// NewUpdateCampaign builds an update_campaign operation.
func NewUpdateCampaign(campaignID string, data CampaignData) EntityOperation {
	return EntityOperation{
		Type:       TypeUpdateCampaign,
		CampaignID: campaignID,
		Data:       data,
	}
}

// NewCreateContent builds a create_content operation. campaignID is
// optional and omitted when empty.
func NewCreateContent(brandID, campaignID string, data ContentData, meta *Metadata) EntityOperation {
	return EntityOperation{
		Type:       TypeCreateContent,
		BrandID:    brandID,
		CampaignID: campaignID,
		Data:       data,
		Metadata:   meta,
	}
}

// NewUpdateContent builds an update_content operation.
func NewUpdateContent(contentID string, data ContentData) EntityOperation {
	return EntityOperation{
		Type:      TypeUpdateContent,
		ContentID: contentID,
		Data:      data,
	}
}

// ToolMetadata is the provenance block for tool-produced operations.
// Falls back to "unknown" when no execution id was threaded through.
func ToolMetadata(executionID string) *Metadata {
	if executionID == "" {
		executionID = "unknown"
	}
	return &Metadata{AIGenerated: true, SourceExecutionID: executionID}
}

// InferredMetadata is the provenance block for operations inferred from
// output structure. Falls back to "inferred" when no execution id is known.
func InferredMetadata(executionID string) *Metadata {
	if executionID == "" {
		executionID = "inferred"
	}
	return &Metadata{AIGenerated: true, SourceExecutionID: executionID}
}
