// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key-abcdefghijklmnop")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Server.Port != 8080 || cfg.Server.LogLevel != "INFO" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Agent.MaxIterations != 10 || !cfg.Agent.InferOperations || !cfg.Agent.RequireCreateFlag {
		t.Errorf("agent = %+v", cfg.Agent)
	}
	if cfg.Storage.DataDir != "" || cfg.Storage.ExecutionTTLHours != 168 {
		t.Errorf("storage = %+v", cfg.Storage)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(""); err == nil {
		t.Fatal("Load should fail without an API key")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key-abcdefghijklmnop")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AGENT_MAX_ITERATIONS", "5")
	t.Setenv("AGENT_REQUIRE_CREATE_FLAG", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Model != "gpt-4o" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
	if cfg.Server.Port != 9090 || !cfg.IsProduction() {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Server.LogLevel != "DEBUG" {
		t.Errorf("LogLevel = %q, want normalized uppercase", cfg.Server.LogLevel)
	}
	if cfg.Agent.MaxIterations != 5 || cfg.Agent.RequireCreateFlag {
		t.Errorf("agent = %+v", cfg.Agent)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key-abcdefghijklmnop")

	path := filepath.Join(t.TempDir(), "agent.yaml")
	content := "server:\n  port: 7070\nagent:\n  max_iterations: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Port = %d, want file value", cfg.Server.Port)
	}
	if cfg.Agent.MaxIterations != 3 {
		t.Errorf("MaxIterations = %d", cfg.Agent.MaxIterations)
	}
	// Untouched fields keep the embedded defaults.
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", cfg.LLM.Model)
	}
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key-abcdefghijklmnop")
	t.Setenv("PORT", "6060")

	path := filepath.Join(t.TempDir(), "agent.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Port = %d, env must win over file", cfg.Server.Port)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test-key-abcdefghijklmnop")

	cases := map[string]string{
		"PORT":                 "70000",
		"ENVIRONMENT":          "qa",
		"LOG_LEVEL":            "TRACE",
		"AGENT_MAX_ITERATIONS": "0",
		"OPENAI_TEMPERATURE":   "3.5",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(""); err == nil {
				t.Errorf("Load should reject %s=%s", key, val)
			}
		})
	}
}
