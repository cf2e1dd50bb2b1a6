// Copyright (C) 2025 BigRipple (engineering@bigripple.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package badger wraps a BadgerDB instance for execution persistence.
//
// The DB is an embedded key-value store opened once at startup and shared
// by all stores that need local persistence. No network call, no external
// availability dependency.
package badger

import (
	"context"
	"fmt"
	"log/slog"

	dgbadger "github.com/dgraph-io/badger/v4"
)

// Config holds BadgerDB open options.
type Config struct {
	// Path is the on-disk directory for the database. Ignored when
	// InMemory is set.
	Path string

	// InMemory runs the database without disk persistence. For tests.
	InMemory bool
}

// DefaultConfig returns a config with no path set. Callers must set Path
// or InMemory before OpenDB.
func DefaultConfig() Config {
	return Config{}
}

// DB is an opened BadgerDB instance.
//
// Description:
//
//	Thin wrapper giving stores a transaction-scoped API with context
//	awareness. The DB is owned by whoever opened it (typically main);
//	stores borrow it and never close it.
//
// Thread Safety: Safe for concurrent use. BadgerDB transactions are
// per-goroutine.
type DB struct {
	inner *dgbadger.DB
}

// OpenDB opens a BadgerDB database at the configured path.
func OpenDB(cfg Config) (*DB, error) {
	if cfg.Path == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger: config requires a path or in-memory mode")
	}

	opts := dgbadger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(nil)

	inner, err := dgbadger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %q: %w", cfg.Path, err)
	}

	slog.Info("BadgerDB opened", slog.String("path", cfg.Path), slog.Bool("in_memory", cfg.InMemory))
	return &DB{inner: inner}, nil
}

// Close closes the database. Call once at shutdown.
func (db *DB) Close() error {
	if err := db.inner.Close(); err != nil {
		return fmt.Errorf("badger: close: %w", err)
	}
	return nil
}

// WithTxn runs fn inside a read-write transaction.
func (db *DB) WithTxn(ctx context.Context, fn func(txn *dgbadger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.inner.Update(fn)
}

// WithReadTxn runs fn inside a read-only transaction.
func (db *DB) WithReadTxn(ctx context.Context, fn func(txn *dgbadger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return db.inner.View(fn)
}
