// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

// toolsResponse mirrors the wrapped /v1/agent/tools response.
type toolsResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Tools []struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
			Category    string `json:"category"`
		} `json:"tools"`
		Count int `json:"count"`
	} `json:"data"`
}

func runToolsCommand(_ *cobra.Command, _ []string) {
	raw := getJSON(fmt.Sprintf("%s/v1/agent/tools", getServerBaseURL()))

	if rawJSON {
		fmt.Println(string(raw))
		return
	}

	var result toolsResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Fatalf("failed to decode response: %v", err)
	}

	fmt.Printf("Registered tools (%d):\n\n", result.Data.Count)
	for _, tool := range result.Data.Tools {
		fmt.Printf("  %-40s [%s]\n", tool.ID, tool.Category)
		fmt.Printf("    %s: %s\n\n", tool.Name, tool.Description)
	}
}

func runExecutionCommand(_ *cobra.Command, args []string) {
	raw := getJSON(fmt.Sprintf("%s/v1/agent/executions/%s", getServerBaseURL(), args[0]))

	if rawJSON {
		fmt.Println(string(raw))
		return
	}

	// Stored executions are served as the raw envelope; re-indent it
	// for readability.
	var envelope map[string]any
	if err := json.Unmarshal(raw, &envelope); err != nil {
		log.Fatalf("failed to decode response: %v", err)
	}
	encoded, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		log.Fatalf("failed to format response: %v", err)
	}
	fmt.Println(string(encoded))
}

// getJSON fetches url and returns the body, exiting on transport or
// HTTP errors.
func getJSON(url string) []byte {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		log.Fatalf("agent server unavailable at %s: %v", url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Agent server error (HTTP %d): %s", resp.StatusCode, string(raw))
	}
	return raw
}
