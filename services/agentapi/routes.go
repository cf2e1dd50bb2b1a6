// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agentapi

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all agent routes with the router.
//
// Description:
//
//	Registers the /v1/agent/* endpoints with the given Gin router group.
//	The group should already carry any required middleware.
//
// Inputs:
//
//	rg - Gin router group (typically /v1)
//	handlers - The handlers instance
//
// Endpoints:
//
//	POST /v1/agent/execute - Run an agent execution
//	GET  /v1/agent/tools - List registered tools
//	GET  /v1/agent/executions/:id - Fetch a stored execution result
//	GET  /v1/agent/health - Health check
//
// Example:
//
//	runtime := agent.NewRuntime(client, tools.NewMarketingRegistry())
//	handlers := agentapi.NewHandlers(runtime, store, logger)
//
//	v1 := router.Group("/v1")
//	agentapi.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	agent := rg.Group("/agent")
	{
		// Execution
		agent.POST("/execute", handlers.HandleExecute)
		agent.GET("/executions/:id", handlers.HandleGetExecution)

		// Tool discovery
		agent.GET("/tools", handlers.HandleListTools)

		// Health check
		agent.GET("/health", handlers.HandleHealth)
	}
}
