// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads and validates the agent service configuration.
//
// Configuration is layered: embedded defaults, then an optional YAML
// file, then environment variables. Environment always wins, so a
// container deployment needs no config file at all.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// LLMConfig configures the LLM provider client.
type LLMConfig struct {
	// APIKey is the OpenAI API key. Required; env only, never in YAML.
	APIKey string `yaml:"-" validate:"required"`

	// BaseURL overrides the OpenAI endpoint, for proxies and gateways.
	BaseURL string `yaml:"base_url" validate:"omitempty,url"`

	// Model is the default chat model.
	Model string `yaml:"model" validate:"required"`

	// Temperature is the default sampling temperature.
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`

	// MaxTokens caps completion length per call.
	MaxTokens int `yaml:"max_tokens" validate:"gt=0"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port        int    `yaml:"port" validate:"gt=0,lte=65535"`
	Environment string `yaml:"environment" validate:"oneof=development staging production"`
	LogLevel    string `yaml:"log_level" validate:"oneof=DEBUG INFO WARN ERROR"`
}

// AgentConfig configures execution loop behavior.
type AgentConfig struct {
	// MaxIterations bounds the tool calling loop per execution.
	MaxIterations int `yaml:"max_iterations" validate:"gt=0,lte=50"`

	// InferOperations enables heuristic operation inference over agent
	// output.
	InferOperations bool `yaml:"infer_operations"`

	// RequireCreateFlag gates inference on an explicit create flag.
	RequireCreateFlag bool `yaml:"require_create_flag"`
}

// StorageConfig configures execution result persistence.
type StorageConfig struct {
	// DataDir is the BadgerDB directory. Empty disables persistence.
	DataDir string `yaml:"data_dir"`

	// ExecutionTTLHours is the retention window for stored results.
	ExecutionTTLHours int `yaml:"execution_ttl_hours" validate:"gt=0"`
}

// Config is the full service configuration.
//
// Thread Safety: Immutable after Load; safe for concurrent use.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Server  ServerConfig  `yaml:"server"`
	Agent   AgentConfig   `yaml:"agent"`
	Storage StorageConfig `yaml:"storage"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Load builds the configuration from defaults, an optional YAML file,
// and environment variables.
//
// Description:
//
//	path may be empty; AGENT_CONFIG_FILE is consulted as a fallback.
//	A missing file is not an error, a malformed one is. Validation runs
//	last over the merged result, so an invalid override fails fast at
//	startup rather than at first use.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing embedded defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv("AGENT_CONFIG_FILE")
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: reading %q: %w", path, err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %q: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: validation: %w", err)
	}
	return &cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func applyEnv(cfg *Config) {
	setString(&cfg.LLM.APIKey, "OPENAI_API_KEY")
	setString(&cfg.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&cfg.LLM.Model, "OPENAI_MODEL")
	setFloat32(&cfg.LLM.Temperature, "OPENAI_TEMPERATURE")
	setInt(&cfg.LLM.MaxTokens, "OPENAI_MAX_TOKENS")

	setInt(&cfg.Server.Port, "PORT")
	setString(&cfg.Server.Environment, "ENVIRONMENT")
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Server.LogLevel = strings.ToUpper(v)
	}

	setInt(&cfg.Agent.MaxIterations, "AGENT_MAX_ITERATIONS")
	setBool(&cfg.Agent.InferOperations, "AGENT_INFER_OPERATIONS")
	setBool(&cfg.Agent.RequireCreateFlag, "AGENT_REQUIRE_CREATE_FLAG")

	setString(&cfg.Storage.DataDir, "AGENT_DATA_DIR")
	setInt(&cfg.Storage.ExecutionTTLHours, "AGENT_EXECUTION_TTL_HOURS")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat32(dst *float32, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			*dst = float32(f)
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
