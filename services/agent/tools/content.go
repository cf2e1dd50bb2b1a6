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
	"strings"

	"github.com/bigripple/agent-framework/services/agent/operations"
	"github.com/bigripple/agent-framework/services/llm"
)

// ContentTypes are the valid content type values in the CMS schemas.
var ContentTypes = []string{"BLOG_POST", "SOCIAL_POST", "EMAIL", "AD_COPY", "LANDING_PAGE"}

// ContentStatuses are the valid content status values.
var ContentStatuses = []string{"DRAFT", "PENDING_REVIEW", "APPROVED", "SCHEDULED", "PUBLISHING", "PUBLISHED", "FAILED", "ARCHIVED"}

// RegisterContentTools adds the content create/update tools to a registry.
func RegisterContentTools(r *Registry) {
	r.MustRegister(Definition{
		ID:   "bigripple.content.create",
		Name: "create_content",
		Description: "Create new content for a brand. " +
			"This can be a blog post, social media post, email, ad copy, or landing page. " +
			"Returns a content creation operation that will be processed by the CMS.",
		Category: CategoryEntity,
		Parameters: []Parameter{
			{Name: "brand_id", Type: "string", Description: "The ID of the brand to create content for", Required: true},
			{Name: "content_type", Type: "string", Description: "Type of content to create", Required: true, Enum: enumValues(ContentTypes)},
			{Name: "channel", Type: "string", Description: "Distribution channel for the content", Required: true},
			{Name: "body", Type: "string", Description: "The main content body (required, min 1 character)", Required: true},
			{Name: "title", Type: "string", Description: "Content title (max 200 characters)"},
			{Name: "campaign_id", Type: "string", Description: "Optional campaign ID to link content to"},
			{Name: "media_urls", Type: "array", Description: "Optional list of media URLs (images, videos)",
				Items: &llm.ToolParamDef{Type: "string"}},
			{Name: "scheduled_at", Type: "string", Description: "When to publish (ISO datetime)"},
		},
		ReturnsEntityOperation: true,
	}, HandlerFunc(handleCreateContent))

	r.MustRegister(Definition{
		ID:   "bigripple.content.update",
		Name: "update_content",
		Description: "Update existing content. " +
			"Only provide the fields you want to change. " +
			"Returns an update operation that will be processed by the CMS.",
		Category: CategoryEntity,
		Parameters: []Parameter{
			{Name: "content_id", Type: "string", Description: "The ID of the content to update", Required: true},
			{Name: "content_type", Type: "string", Description: "New content type", Enum: enumValues(ContentTypes)},
			{Name: "channel", Type: "string", Description: "New distribution channel"},
			{Name: "title", Type: "string", Description: "New title (max 200 characters)"},
			{Name: "body", Type: "string", Description: "New content body"},
			{Name: "media_urls", Type: "array", Description: "New list of media URLs",
				Items: &llm.ToolParamDef{Type: "string"}},
			{Name: "scheduled_at", Type: "string", Description: "New publish time (ISO datetime)"},
			{Name: "status", Type: "string", Description: "New content status", Enum: enumValues(ContentStatuses)},
		},
		ReturnsEntityOperation: true,
	}, HandlerFunc(handleUpdateContent))
}

func handleCreateContent(ctx context.Context, args map[string]any) (*Result, error) {
	brandID := argString(args, "brand_id")
	contentType := argString(args, "content_type")
	channel := argString(args, "channel")
	body := argString(args, "body")
	title := argString(args, "title")

	if !contains(ContentTypes, contentType) {
		return Failf("INVALID_CONTENT_TYPE", "invalid content type: %s. Valid: %v", contentType, ContentTypes), nil
	}
	if strings.TrimSpace(body) == "" {
		return Fail("EMPTY_BODY", "content body cannot be empty", nil), nil
	}

	data := operations.ContentData{
		Type:        contentType,
		Channel:     channel,
		Body:        body,
		Status:      "DRAFT",
		Title:       title,
		MediaURLs:   argStringSlice(args, "media_urls"),
		ScheduledAt: argString(args, "scheduled_at"),
	}

	op := operations.NewCreateContent(brandID, argString(args, "campaign_id"), data,
		operations.ToolMetadata(argString(args, "execution_id")))

	desc := title
	if desc == "" {
		desc = body
		if len(desc) > 50 {
			desc = desc[:50] + "..."
		}
	}

	return OK(map[string]any{
		"message":        fmt.Sprintf("Content '%s' will be created", desc),
		"operation_type": "create_content",
		"brand_id":       brandID,
		"content_type":   contentType,
		"channel":        channel,
	}, &op), nil
}

func handleUpdateContent(ctx context.Context, args map[string]any) (*Result, error) {
	contentID := argString(args, "content_id")

	contentType := argString(args, "content_type")
	if contentType != "" && !contains(ContentTypes, contentType) {
		return Failf("INVALID_CONTENT_TYPE", "invalid content type: %s. Valid: %v", contentType, ContentTypes), nil
	}

	status := argString(args, "status")
	if status != "" && !contains(ContentStatuses, status) {
		return Failf("INVALID_STATUS", "invalid status: %s. Valid: %v", status, ContentStatuses), nil
	}

	if body, present := args["body"]; present {
		if s, ok := body.(string); !ok || strings.TrimSpace(s) == "" {
			return Fail("EMPTY_BODY", "content body cannot be empty", nil), nil
		}
	}

	data := operations.ContentData{
		Type:        contentType,
		Channel:     argString(args, "channel"),
		Title:       argString(args, "title"),
		Body:        argString(args, "body"),
		MediaURLs:   argStringSlice(args, "media_urls"),
		ScheduledAt: argString(args, "scheduled_at"),
		Status:      status,
	}

	updated := updatedContentFields(data)
	if len(updated) == 0 {
		return Fail("NO_UPDATES", "no fields provided to update", nil), nil
	}

	op := operations.NewUpdateContent(contentID, data)

	return OK(map[string]any{
		"message":        fmt.Sprintf("Content %s will be updated", contentID),
		"operation_type": "update_content",
		"content_id":     contentID,
		"updates":        updated,
	}, &op), nil
}

// updatedContentFields lists the payload fields an update actually sets.
func updatedContentFields(data operations.ContentData) []string {
	var updated []string
	if data.Type != "" {
		updated = append(updated, "type")
	}
	if data.Channel != "" {
		updated = append(updated, "channel")
	}
	if data.Title != "" {
		updated = append(updated, "title")
	}
	if data.Body != "" {
		updated = append(updated, "body")
	}
	if len(data.MediaURLs) > 0 {
		updated = append(updated, "mediaUrls")
	}
	if data.ScheduledAt != "" {
		updated = append(updated, "scheduledAt")
	}
	if data.Status != "" {
		updated = append(updated, "status")
	}
	return updated
}
