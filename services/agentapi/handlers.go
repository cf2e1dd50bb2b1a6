// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package agentapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/bigripple/agent-framework/services/agent"
	badgerstore "github.com/bigripple/agent-framework/services/agent/store/badger"
)

// defaultMaxConcurrent caps in-flight agent executions. Each execution
// holds an LLM conversation open for seconds to minutes; an unbounded
// fan-in would exhaust provider rate limits before it exhausts memory.
const defaultMaxConcurrent = 16

// Handlers holds the dependencies for the agent HTTP endpoints.
//
// Thread Safety: Handlers is immutable after construction and safe for
// concurrent use.
type Handlers struct {
	runtime *agent.Runtime
	store   badgerstore.ExecutionStore
	logger  *slog.Logger
	sem     *semaphore.Weighted
}

// NewHandlers creates the handler set with the default concurrency cap.
//
// Inputs:
//   - runtime: The agent runtime. Must not be nil.
//   - store: Execution persistence. May be nil; executions are then
//     ephemeral and the executions endpoint reports unavailable.
//   - logger: Logger for diagnostics. May be nil.
func NewHandlers(runtime *agent.Runtime, store badgerstore.ExecutionStore, logger *slog.Logger) *Handlers {
	return NewHandlersWithLimit(runtime, store, logger, defaultMaxConcurrent)
}

// NewHandlersWithLimit creates the handler set with an explicit cap on
// concurrent executions. Requests beyond the cap wait for a slot until
// their context is done.
func NewHandlersWithLimit(runtime *agent.Runtime, store badgerstore.ExecutionStore, logger *slog.Logger, maxConcurrent int64) *Handlers {
	if runtime == nil {
		panic("NewHandlers: runtime must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Handlers{
		runtime: runtime,
		store:   store,
		logger:  logger,
		sem:     semaphore.NewWeighted(maxConcurrent),
	}
}

// HandleExecute runs an agent execution.
//
// Description:
//
//	POST /v1/agent/execute. The request body is the execution input:
//	inputData, context, systemPrompt, enabledTools, maxIterations, and
//	optional executionId and model. The response is the execution
//	envelope itself, not the success wrapper, because the CMS output
//	parser consumes the envelope directly. The HTTP status is 200 for
//	any completed execution, including failed ones; the success flag
//	inside the envelope carries the outcome.
//
// Outputs:
//   - 200: Execution envelope.
//   - 400: Malformed request body.
//   - 503: Concurrency cap reached and the request context ended while
//     waiting for a slot.
func (h *Handlers) HandleExecute(c *gin.Context) {
	var in agent.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeValidation,
			"invalid request body: "+err.Error())
		return
	}
	// Assign the id here rather than letting the runtime generate one,
	// so the stored result is retrievable under a known key.
	if in.ExecutionID == "" {
		in.ExecutionID = uuid.NewString()
	}

	// Wait for an execution slot. A closed client connection cancels
	// the wait through the request context.
	if err := h.sem.Acquire(c.Request.Context(), 1); err != nil {
		respondError(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"server is at capacity")
		return
	}
	defer h.sem.Release(1)

	out := h.runtime.Execute(c.Request.Context(), in)

	// Persistence failure must not fail the execution; the caller still
	// gets the result, it just will not be retrievable later.
	if h.store != nil {
		if err := h.store.SaveExecution(c.Request.Context(), in.ExecutionID, out); err != nil {
			h.logger.Warn("Failed to persist execution",
				slog.String("execution_id", in.ExecutionID),
				slog.String("error", err.Error()),
			)
		}
	}

	c.Header("X-Execution-Id", in.ExecutionID)
	c.JSON(http.StatusOK, out)
}

// toolSummary is one entry in the tool listing.
type toolSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// HandleListTools lists the registered tools.
//
// Description:
//
//	GET /v1/agent/tools. Returns id, name, description, and category
//	for every registered tool, in registration order. The CMS uses this
//	to populate the enabledTools picker in the agent editor.
func (h *Handlers) HandleListTools(c *gin.Context) {
	defs := h.runtime.Registry().List()

	tools := make([]toolSummary, 0, len(defs))
	for _, def := range defs {
		tools = append(tools, toolSummary{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    string(def.Category),
		})
	}

	respondSuccess(c, gin.H{"tools": tools, "count": len(tools)}, "")
}

// HandleGetExecution fetches a stored execution result.
//
// Description:
//
//	GET /v1/agent/executions/:id. Serves the persisted execution
//	envelope. Results expire after the store TTL, so a 404 can mean
//	either never-existed or expired; the CMS treats both the same.
//
// Outputs:
//   - 200: Stored execution envelope.
//   - 404: Unknown or expired execution id.
//   - 503: Persistence is not configured.
func (h *Handlers) HandleGetExecution(c *gin.Context) {
	if h.store == nil {
		respondError(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"execution persistence is not configured")
		return
	}

	executionID := c.Param("id")
	out, err := h.store.LoadExecution(c.Request.Context(), executionID)
	if err != nil {
		h.logger.Error("Failed to load execution",
			slog.String("execution_id", executionID),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, ErrCodeInternal,
			"failed to load execution")
		return
	}
	if out == nil {
		respondError(c, http.StatusNotFound, ErrCodeNotFound,
			"execution not found: "+executionID)
		return
	}

	c.JSON(http.StatusOK, out)
}

// HandleHealth reports service liveness.
func (h *Handlers) HandleHealth(c *gin.Context) {
	respondSuccess(c, gin.H{
		"status":  "healthy",
		"service": "agent-framework",
	}, "")
}
