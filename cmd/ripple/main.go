// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command ripple is the BigRipple agent CLI.
//
// It talks to a running agentd server and is the quickest way to
// exercise an agent without the CMS in the loop.
//
// Usage:
//
//	ripple execute "Draft a LinkedIn campaign for our spring launch"
//	ripple execute --tool bigripple.campaign.create "Plan a campaign"
//	ripple tools
//	ripple execution <execution-id>
//
// The server address defaults to http://localhost:8080 and can be
// overridden with --server or the RIPPLE_SERVER_URL environment
// variable.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Flag values shared across commands.
var (
	serverURL    string
	systemPrompt string
	enabledTools []string
	executionID  string
	brandID      string
	rawJSON      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "BigRipple agent CLI",
		Long:  "Run marketing agents against a BigRipple agent server and inspect the results.",
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "",
		"Agent server base URL (default http://localhost:8080, or RIPPLE_SERVER_URL)")
	rootCmd.PersistentFlags().BoolVar(&rawJSON, "json", false,
		"Print raw JSON responses instead of formatted output")

	executeCmd := &cobra.Command{
		Use:   "execute [prompt]",
		Short: "Run an agent execution",
		Args:  cobra.MinimumNArgs(1),
		Run:   runExecuteCommand,
	}
	executeCmd.Flags().StringVar(&systemPrompt, "system", "",
		"System prompt for the agent")
	executeCmd.Flags().StringSliceVar(&enabledTools, "tool", nil,
		"Tool id to enable (repeatable)")
	executeCmd.Flags().StringVar(&executionID, "execution-id", "",
		"Execution id (generated when empty)")
	executeCmd.Flags().StringVar(&brandID, "brand", "",
		"Active brand id for the entity context")

	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools registered on the server",
		Run:   runToolsCommand,
	}

	executionCmd := &cobra.Command{
		Use:   "execution <id>",
		Short: "Fetch a stored execution result",
		Args:  cobra.ExactArgs(1),
		Run:   runExecutionCommand,
	}

	rootCmd.AddCommand(executeCmd, toolsCmd, executionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getServerBaseURL resolves the agent server address from the --server
// flag, the RIPPLE_SERVER_URL environment variable, or the default.
func getServerBaseURL() string {
	if serverURL != "" {
		return serverURL
	}
	if env := os.Getenv("RIPPLE_SERVER_URL"); env != "" {
		return env
	}
	return "http://localhost:8080"
}
