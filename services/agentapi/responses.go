// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package agentapi exposes the agent runtime over HTTP.
//
// The API is the integration surface the CMS calls: execute an agent,
// list the available tools, and fetch a stored execution result. All
// mutations stay proposals; nothing here writes to the CMS.
package agentapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Common error codes returned by the API. Stable strings; the CMS
// switches on them.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// SuccessResponse is the standard wrapper for successful responses.
type SuccessResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorDetail carries the error payload inside an ErrorResponse.
type ErrorDetail struct {
	ErrorCode string         `json:"error_code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the standard wrapper for failed responses.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	Timestamp time.Time   `json:"timestamp"`
}

// respondSuccess writes a wrapped success payload.
func respondSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// respondError writes a wrapped error payload with the given HTTP status.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			ErrorCode: code,
			Message:   message,
		},
		Timestamp: time.Now().UTC(),
	})
}
