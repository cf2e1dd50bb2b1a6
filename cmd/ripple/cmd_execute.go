// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// executeRequest is the payload for POST /v1/agent/execute.
type executeRequest struct {
	InputData    map[string]any `json:"inputData"`
	Context      map[string]any `json:"context,omitempty"`
	ExecutionID  string         `json:"executionId,omitempty"`
	SystemPrompt string         `json:"systemPrompt,omitempty"`
	EnabledTools []string       `json:"enabledTools,omitempty"`
}

// executeResponse mirrors the execution envelope fields the CLI prints.
type executeResponse struct {
	Success          bool             `json:"success"`
	Output           any              `json:"output"`
	EntityOperations []map[string]any `json:"entityOperations"`
	ToolCalls        []struct {
		Name string `json:"name"`
	} `json:"toolCalls"`
	TokensUsed struct {
		Total int `json:"total"`
	} `json:"tokensUsed"`
	DurationMs int64 `json:"durationMs"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func runExecuteCommand(_ *cobra.Command, args []string) {
	prompt := strings.Join(args, " ")
	fmt.Printf("Executing: %s\n", prompt)
	fmt.Println("---")

	payload := executeRequest{
		InputData:    map[string]any{"prompt": prompt},
		ExecutionID:  executionID,
		SystemPrompt: systemPrompt,
		EnabledTools: enabledTools,
	}
	if brandID != "" {
		payload.Context = map[string]any{"brandId": brandID, "userId": "cli"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Fatalf("failed to create request body: %v", err)
	}

	client := &http.Client{Timeout: 5 * time.Minute}
	url := fmt.Sprintf("%s/v1/agent/execute", getServerBaseURL())
	resp, err := client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: agent server unavailable at %s\n", url)
		fmt.Fprintf(os.Stderr, "Start it with: OPENAI_API_KEY=sk-... ./agentd\n")
		log.Fatalf("connection failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Agent server error (HTTP %d): %s", resp.StatusCode, string(raw))
	}

	if rawJSON {
		fmt.Println(string(raw))
		return
	}

	var result executeResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		log.Fatalf("failed to decode response: %v", err)
	}

	if !result.Success {
		code, message := "UNKNOWN", "execution failed"
		if result.Error != nil {
			code, message = result.Error.Code, result.Error.Message
		}
		fmt.Fprintf(os.Stderr, "\nExecution failed [%s]: %s\n", code, message)
		os.Exit(1)
	}

	printOutput(result.Output)

	if len(result.EntityOperations) > 0 {
		fmt.Printf("\nProposed operations (%d):\n", len(result.EntityOperations))
		for i, op := range result.EntityOperations {
			opType, _ := op["type"].(string)
			opBrand, _ := op["brandId"].(string)
			fmt.Printf("%d. %s (brand: %s)\n", i+1, opType, opBrand)
		}
	}

	if id := resp.Header.Get("X-Execution-Id"); id != "" {
		fmt.Printf("\n[%d tool calls, %d tokens, %dms, execution: %s]\n",
			len(result.ToolCalls), result.TokensUsed.Total, result.DurationMs, id)
	}
}

// printOutput renders the agent output: strings as-is, structured
// output as indented JSON.
func printOutput(output any) {
	switch v := output.(type) {
	case string:
		fmt.Printf("\n%s\n", v)
	default:
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			fmt.Printf("\n%v\n", v)
			return
		}
		fmt.Printf("\n%s\n", string(encoded))
	}
}
