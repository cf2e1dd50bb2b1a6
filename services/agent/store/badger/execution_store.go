// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package badger

// =============================================================================
// ExecutionStore - Execution Result Persistence
// =============================================================================
//
// The CMS polls execution results asynchronously; a result must survive a
// service restart between submission and pickup. Results are small JSON
// envelopes, so an embedded store is the right tool.
//
// Design choices:
//
//	1. JSON (not gob): the stored value is exactly the envelope the API
//	   serves back, so Load never re-encodes. A stored result is readable
//	   with standard tooling when debugging.
//
//	2. BadgerDB native TTL: 7-day expiry is enforced by BadgerDB's GC, not
//	   by application code. Expired keys return ErrKeyNotFound, which the
//	   store treats as not-found.
//
// Storage layout:
//
//	agent/exec/v1/{executionID}  →  JSON-encoded execution envelope
//	                                 TTL: 7 days

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	dgbadger "github.com/dgraph-io/badger/v4"

	"github.com/bigripple/agent-framework/services/agent"
)

// executionDefaultTTL is the default lifetime of a stored execution
// result. Long enough for the CMS to pick up results across weekends
// without accumulating stale data indefinitely.
const executionDefaultTTL = 7 * 24 * time.Hour

// executionKeyPrefix is prepended to the execution id to form the
// BadgerDB key. Versioned to allow future format changes without
// collision.
const executionKeyPrefix = "agent/exec/v1/"

// ExecutionStore persists agent execution results across restarts.
//
// Description:
//
//	Keyed by execution id. Both methods are nil-safe at the call sites:
//	the API handlers check for a nil ExecutionStore and skip persistence,
//	operating in ephemeral mode. That is the correct behavior for tests
//	and deployments without a data directory.
//
// Thread Safety: Implementations must be safe for concurrent use.
type ExecutionStore interface {
	// SaveExecution persists an execution result. The store applies a
	// 7-day TTL automatically. Persistence failure is non-fatal; callers
	// log a warning and continue.
	SaveExecution(ctx context.Context, executionID string, out *agent.Output) error

	// LoadExecution retrieves a stored execution result.
	//
	// Returns (nil, nil) when the id is absent or the TTL expired.
	// Returns (nil, error) on storage or decode failure.
	LoadExecution(ctx context.Context, executionID string) (*agent.Output, error)
}

// BadgerExecutionStore implements ExecutionStore backed by a BadgerDB
// instance owned by the caller.
type BadgerExecutionStore struct {
	db     *DB
	ttl    time.Duration
	logger *slog.Logger
}

// NewBadgerExecutionStore creates an execution store over an opened DB.
//
// Inputs:
//   - db: Opened BadgerDB wrapper. Must not be nil.
//   - ttl: Lifetime for each stored result. Pass 0 for the default (7 days).
//   - logger: Logger for diagnostics. May be nil.
func NewBadgerExecutionStore(db *DB, ttl time.Duration, logger *slog.Logger) *BadgerExecutionStore {
	if db == nil {
		panic("NewBadgerExecutionStore: db must not be nil")
	}
	if ttl <= 0 {
		ttl = executionDefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BadgerExecutionStore{db: db, ttl: ttl, logger: logger}
}

// SaveExecution persists an execution result with the configured TTL.
func (s *BadgerExecutionStore) SaveExecution(ctx context.Context, executionID string, out *agent.Output) error {
	if executionID == "" {
		return fmt.Errorf("execution store: empty execution id")
	}
	if out == nil {
		return fmt.Errorf("execution store: nil output")
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("execution store encode: %w", err)
	}

	key := executionKey(executionID)
	err = s.db.WithTxn(ctx, func(txn *dgbadger.Txn) error {
		entry := dgbadger.NewEntry(key, raw).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("execution store save: %w", err)
	}

	s.logger.Debug("Execution saved",
		slog.String("execution_id", executionID),
		slog.Int("bytes", len(raw)),
		slog.Duration("ttl", s.ttl),
	)
	return nil
}

// LoadExecution retrieves a stored execution result, (nil, nil) on miss.
func (s *BadgerExecutionStore) LoadExecution(ctx context.Context, executionID string) (*agent.Output, error) {
	key := executionKey(executionID)

	var raw []byte
	err := s.db.WithReadTxn(ctx, func(txn *dgbadger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})

	if errors.Is(err, dgbadger.ErrKeyNotFound) {
		s.logger.Debug("Execution not found", slog.String("execution_id", executionID))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("execution store load: %w", err)
	}

	var out agent.Output
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("execution store decode: %w", err)
	}
	return &out, nil
}

// executionKey builds the BadgerDB key for an execution id.
func executionKey(executionID string) []byte {
	return []byte(executionKeyPrefix + executionID)
}
