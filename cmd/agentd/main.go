// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command agentd starts the BigRipple agent API server.
//
// The server runs marketing agents against the OpenAI chat API with
// tool calling, entity context injection, and entity operation
// extraction. Agents propose CMS mutations; the CMS applies them after
// its own validation.
//
// Usage:
//
//	go run ./cmd/agentd
//	go run ./cmd/agentd -port 9090
//	go run ./cmd/agentd -config /etc/bigripple/agent.yaml
//
// Required environment:
//
//	OPENAI_API_KEY=sk-...
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/agent/health
//
//	# List available tools
//	curl http://localhost:8080/v1/agent/tools | jq
//
//	# Run an agent
//	curl -X POST http://localhost:8080/v1/agent/execute \
//	  -H "Content-Type: application/json" \
//	  -d '{"inputData": {"prompt": "Draft a LinkedIn campaign"}, "enabledTools": ["bigripple.campaign.create"]}'
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/bigripple/agent-framework/services/agent"
	"github.com/bigripple/agent-framework/services/agent/config"
	"github.com/bigripple/agent-framework/services/agent/operations"
	badgerstore "github.com/bigripple/agent-framework/services/agent/store/badger"
	"github.com/bigripple/agent-framework/services/agent/tools"
	"github.com/bigripple/agent-framework/services/agentapi"
	"github.com/bigripple/agent-framework/services/llm"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	setupLogging(cfg, *debug)

	if *debug || !cfg.IsProduction() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// W3C TraceContext propagation so CMS-originated traces flow
	// through the agent endpoints.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// LLM client with tracing and metrics instrumentation.
	openai := llm.NewOpenAIClientWithConfig(cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	client := llm.NewInstrumentedClient(openai, "openai")

	extractor := &operations.Extractor{
		InferOperations:   cfg.Agent.InferOperations,
		RequireCreateFlag: cfg.Agent.RequireCreateFlag,
	}
	runtime := agent.NewRuntimeWithExtractor(client, tools.NewMarketingRegistry(), extractor)

	// Execution persistence. Graceful degradation: if BadgerDB is
	// unavailable or no data dir is configured, executions are served
	// from the response only and the executions endpoint returns 503.
	var store badgerstore.ExecutionStore
	var db *badgerstore.DB
	if cfg.Storage.DataDir != "" {
		opened, err := badgerstore.OpenDB(badgerstore.Config{Path: cfg.Storage.DataDir})
		if err != nil {
			slog.Warn("Execution store unavailable, persistence disabled",
				slog.String("path", cfg.Storage.DataDir),
				slog.String("error", err.Error()),
			)
		} else {
			db = opened
			ttl := time.Duration(cfg.Storage.ExecutionTTLHours) * time.Hour
			store = badgerstore.NewBadgerExecutionStore(db, ttl, slog.Default())
			slog.Info("Execution store opened",
				slog.String("path", cfg.Storage.DataDir),
				slog.Duration("ttl", ttl),
			)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("bigripple-agent"))
	if *debug {
		router.Use(gin.Logger())
	}

	handlers := agentapi.NewHandlers(runtime, store, slog.Default())
	v1 := router.Group("/v1")
	agentapi.RegisterRoutes(v1, handlers)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	printBanner(cfg.Server.Port, cfg.LLM.Model, store != nil)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down agent server")
		if db != nil {
			if err := db.Close(); err != nil {
				slog.Warn("Failed to close execution store", slog.String("error", err.Error()))
			}
		}
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting agent server",
		slog.String("address", addr),
		slog.String("model", cfg.LLM.Model),
		slog.String("environment", cfg.Server.Environment),
	)
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupLogging installs the default slog handler at the configured
// level. Debug flag forces DEBUG regardless of config.
func setupLogging(cfg *config.Config, debug bool) {
	level := slog.LevelInfo
	switch cfg.Server.LogLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}
	if debug {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func printBanner(port int, model string, persistence bool) {
	persistenceStatus := "DISABLED (set AGENT_DATA_DIR to enable)"
	if persistence {
		persistenceStatus = "ENABLED"
	}

	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                     BIGRIPPLE AGENT SERVER                        ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  LLM marketing agents with tool calling and entity operations.    ║
║  Model: %-56s ║
║  Persistence: %-50s ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%d/v1/agent/health              │  ║
║  │                                                             │  ║
║  │ # List available tools                                      │  ║
║  │ curl http://localhost:%d/v1/agent/tools | jq          │  ║
║  │                                                             │  ║
║  │ # Run an agent                                              │  ║
║  │ curl -X POST http://localhost:%d/v1/agent/execute \   │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"inputData": {"prompt": "Draft a campaign"}}'        │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints:                                                       ║
║  ├── POST /v1/agent/execute - Run an agent execution             ║
║  ├── GET  /v1/agent/executions/:id - Fetch a stored result       ║
║  ├── GET  /v1/agent/tools - List registered tools                ║
║  ├── GET  /v1/agent/health - Health check                        ║
║  └── GET  /metrics - Prometheus metrics                          ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
`
	fmt.Printf(banner, model, persistenceStatus, port, port, port)
}
