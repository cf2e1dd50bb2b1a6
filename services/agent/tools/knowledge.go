// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tools

import (
	"context"
)

// RegisterKnowledgeTools adds the knowledge/RAG tools to a registry.
//
// These are utility lookups for agents that need information beyond the
// pre-retrieved entity context. They never produce entity operations.
// The actual RAG retrieval is performed by the CMS ahead of the run and
// delivered inside EntityContext; these handlers acknowledge the request
// and point the model back at that context.
func RegisterKnowledgeTools(r *Registry) {
	r.MustRegister(Definition{
		ID:   "bigripple.knowledge.search",
		Name: "search_knowledge_base",
		Description: "Search the brand's knowledge base for relevant information. " +
			"Use this to find past campaign performance, brand guidelines, " +
			"successful content examples, or other relevant context. " +
			"The search uses semantic similarity to find the most relevant results.",
		Category: CategoryKnowledge,
		Parameters: []Parameter{
			{Name: "query", Type: "string", Description: "The search query describing what information you need", Required: true},
			{Name: "max_results", Type: "integer", Description: "Maximum number of results to return (default: 5)", Default: 5},
			{Name: "filter_type", Type: "string", Description: "Optional filter by content type",
				Enum: []any{"campaign", "content", "brand_guidelines", "performance_data"}},
		},
	}, HandlerFunc(handleSearchKnowledge))

	r.MustRegister(Definition{
		ID:   "bigripple.knowledge.brand_guidelines",
		Name: "get_brand_guidelines",
		Description: "Get the brand's voice and style guidelines. " +
			"Returns the brand's tone, personality, target audience, " +
			"values, and any words to avoid in content.",
		Category: CategoryKnowledge,
		Parameters: []Parameter{
			{Name: "brand_id", Type: "string", Description: "The ID of the brand to get guidelines for", Required: true},
		},
	}, HandlerFunc(handleGetBrandGuidelines))

	r.MustRegister(Definition{
		ID:   "bigripple.knowledge.campaign_performance",
		Name: "get_campaign_performance",
		Description: "Get performance data for past campaigns. " +
			"Returns metrics like impressions, engagement, and clicks " +
			"to help inform future campaign planning.",
		Category: CategoryKnowledge,
		Parameters: []Parameter{
			{Name: "brand_id", Type: "string", Description: "The ID of the brand to get campaign data for", Required: true},
			{Name: "limit", Type: "integer", Description: "Maximum number of campaigns to return (default: 10)", Default: 10},
			{Name: "status", Type: "string", Description: "Filter by campaign status",
				Enum: []any{"ACTIVE", "COMPLETED", "ALL"}},
		},
	}, HandlerFunc(handleGetCampaignPerformance))
}

func handleSearchKnowledge(ctx context.Context, args map[string]any) (*Result, error) {
	return OK(map[string]any{
		"message":     "Knowledge search requested",
		"query":       argString(args, "query"),
		"max_results": argInt(args, "max_results", 5),
		"filter_type": argString(args, "filter_type"),
		"note": "In production, this triggers a RAG query against the brand's knowledge base. " +
			"Results are typically pre-loaded in the EntityContext retrievalContext field. " +
			"If you need additional context, check the retrieval context first.",
	}, nil), nil
}

func handleGetBrandGuidelines(ctx context.Context, args map[string]any) (*Result, error) {
	return OK(map[string]any{
		"message":  "Brand guidelines requested",
		"brand_id": argString(args, "brand_id"),
		"note": "Brand voice guidelines are typically pre-loaded in EntityContext brandVoice. " +
			"Check the context for tone, personality, target audience, brand values, and avoid words.",
	}, nil), nil
}

func handleGetCampaignPerformance(ctx context.Context, args map[string]any) (*Result, error) {
	return OK(map[string]any{
		"message":       "Campaign performance data requested",
		"brand_id":      argString(args, "brand_id"),
		"limit":         argInt(args, "limit", 10),
		"status_filter": argString(args, "status"),
		"note": "Campaign summaries are typically pre-loaded in EntityContext campaigns. " +
			"For detailed performance metrics, check the campaigns list in context.",
	}, nil), nil
}
