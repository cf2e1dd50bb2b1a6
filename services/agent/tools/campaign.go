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

	"github.com/bigripple/agent-framework/services/agent/operations"
	"github.com/bigripple/agent-framework/services/llm"
)

// Channels are the valid marketing channel values in the CMS schemas.
var Channels = []string{"facebook", "instagram", "linkedin", "twitter", "blog", "email"}

// CampaignStatuses are the valid campaign status values.
var CampaignStatuses = []string{"DRAFT", "PENDING_APPROVAL", "APPROVED", "ACTIVE", "PAUSED", "COMPLETED", "ARCHIVED"}

// RegisterCampaignTools adds the campaign create/update tools to a registry.
func RegisterCampaignTools(r *Registry) {
	r.MustRegister(Definition{
		ID:   "bigripple.campaign.create",
		Name: "create_campaign",
		Description: "Create a new marketing campaign for a brand. " +
			"Returns a campaign creation operation that will be processed by the CMS. " +
			"Use this when the user wants to create a new campaign with specific goals and channels.",
		Category: CategoryEntity,
		Parameters: []Parameter{
			{Name: "brand_id", Type: "string", Description: "The ID of the brand to create the campaign for", Required: true},
			{Name: "name", Type: "string", Description: "Campaign name (2-200 characters)", Required: true},
			{Name: "channels", Type: "array", Description: "Marketing channels for the campaign", Required: true,
				Items: &llm.ToolParamDef{Type: "string", Enum: enumValues(Channels)}},
			{Name: "description", Type: "string", Description: "Campaign description (max 1000 characters)"},
			{Name: "goal", Type: "string", Description: "Campaign goal or objective (max 500 characters)"},
			{Name: "target_audience", Type: "string", Description: "Target audience description (max 500 characters)"},
			{Name: "start_date", Type: "string", Description: "Campaign start date (ISO datetime format)"},
			{Name: "end_date", Type: "string", Description: "Campaign end date (ISO datetime format)"},
		},
		ReturnsEntityOperation: true,
	}, HandlerFunc(handleCreateCampaign))

	r.MustRegister(Definition{
		ID:   "bigripple.campaign.update",
		Name: "update_campaign",
		Description: "Update an existing campaign. " +
			"Only provide the fields you want to change. " +
			"Returns an update operation that will be processed by the CMS.",
		Category: CategoryEntity,
		Parameters: []Parameter{
			{Name: "campaign_id", Type: "string", Description: "The ID of the campaign to update", Required: true},
			{Name: "name", Type: "string", Description: "New campaign name (2-200 characters)"},
			{Name: "description", Type: "string", Description: "New description (max 1000 characters)"},
			{Name: "goal", Type: "string", Description: "New goal (max 500 characters)"},
			{Name: "target_audience", Type: "string", Description: "New target audience (max 500 characters)"},
			{Name: "channels", Type: "array", Description: "New list of channels",
				Items: &llm.ToolParamDef{Type: "string", Enum: enumValues(Channels)}},
			{Name: "status", Type: "string", Description: "New campaign status", Enum: enumValues(CampaignStatuses)},
			{Name: "start_date", Type: "string", Description: "New start date (ISO datetime)"},
			{Name: "end_date", Type: "string", Description: "New end date (ISO datetime)"},
		},
		ReturnsEntityOperation: true,
	}, HandlerFunc(handleUpdateCampaign))
}

func handleCreateCampaign(ctx context.Context, args map[string]any) (*Result, error) {
	brandID := argString(args, "brand_id")
	name := argString(args, "name")
	channels := argStringSlice(args, "channels")

	if invalid := invalidChannels(channels); len(invalid) > 0 {
		return Failf("INVALID_CHANNELS", "invalid channels: %v. Valid: %v", invalid, Channels), nil
	}

	data := operations.CampaignData{
		Name:           name,
		Channels:       channels,
		Status:         "DRAFT",
		Description:    argString(args, "description"),
		Goal:           argString(args, "goal"),
		TargetAudience: argString(args, "target_audience"),
		StartDate:      argString(args, "start_date"),
		EndDate:        argString(args, "end_date"),
	}

	op := operations.NewCreateCampaign(brandID, data, operations.ToolMetadata(argString(args, "execution_id")))

	return OK(map[string]any{
		"message":        fmt.Sprintf("Campaign '%s' will be created", name),
		"operation_type": "create_campaign",
		"brand_id":       brandID,
	}, &op), nil
}

func handleUpdateCampaign(ctx context.Context, args map[string]any) (*Result, error) {
	campaignID := argString(args, "campaign_id")

	status := argString(args, "status")
	if status != "" && !contains(CampaignStatuses, status) {
		return Failf("INVALID_STATUS", "invalid status: %s. Valid: %v", status, CampaignStatuses), nil
	}

	channels := argStringSlice(args, "channels")
	if invalid := invalidChannels(channels); len(invalid) > 0 {
		return Failf("INVALID_CHANNELS", "invalid channels: %v. Valid: %v", invalid, Channels), nil
	}

	data := operations.CampaignData{
		Name:           argString(args, "name"),
		Description:    argString(args, "description"),
		Goal:           argString(args, "goal"),
		TargetAudience: argString(args, "target_audience"),
		Channels:       channels,
		Status:         status,
		StartDate:      argString(args, "start_date"),
		EndDate:        argString(args, "end_date"),
	}

	updated := updatedCampaignFields(data)
	if len(updated) == 0 {
		return Fail("NO_UPDATES", "no fields provided to update", nil), nil
	}

	op := operations.NewUpdateCampaign(campaignID, data)

	return OK(map[string]any{
		"message":        fmt.Sprintf("Campaign %s will be updated", campaignID),
		"operation_type": "update_campaign",
		"campaign_id":    campaignID,
		"updates":        updated,
	}, &op), nil
}

// updatedCampaignFields lists the payload fields an update actually sets.
func updatedCampaignFields(data operations.CampaignData) []string {
	var updated []string
	if data.Name != "" {
		updated = append(updated, "name")
	}
	if data.Description != "" {
		updated = append(updated, "description")
	}
	if data.Goal != "" {
		updated = append(updated, "goal")
	}
	if data.TargetAudience != "" {
		updated = append(updated, "targetAudience")
	}
	if len(data.Channels) > 0 {
		updated = append(updated, "channels")
	}
	if data.Status != "" {
		updated = append(updated, "status")
	}
	if data.StartDate != "" {
		updated = append(updated, "startDate")
	}
	if data.EndDate != "" {
		updated = append(updated, "endDate")
	}
	return updated
}

// invalidChannels returns the channels not in the valid set.
func invalidChannels(channels []string) []string {
	var invalid []string
	for _, c := range channels {
		if !contains(Channels, c) {
			invalid = append(invalid, c)
		}
	}
	return invalid
}
