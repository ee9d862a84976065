// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

import (
	"errors"
	"log/slog"
)

// Engine is the dependency-graph and lifecycle-validation engine.
//
// An Engine holds only its collaborators; every operation rebuilds its
// graph from a fresh EdgeStore snapshot, so one Engine serves concurrent
// callers without synchronization.
type Engine struct {
	store    EdgeStore
	statuses StatusResolver
	logger   *slog.Logger
}

// NewEngine creates an engine over the given collaborators.
//
// Inputs:
//
//	store - Active-edge snapshot provider. Must not be nil.
//	statuses - Lifecycle status lookup for obsolescence checks. May be
//	           nil when CanObsolete is not used.
//	logger - Optional; slog.Default() when nil.
//
// Outputs:
//
//	*Engine - Ready for concurrent use.
//	error - Non-nil if store is nil.
func NewEngine(store EdgeStore, statuses StatusResolver, logger *slog.Logger) (*Engine, error) {
	if store == nil {
		return nil, errors.New("edge store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    store,
		statuses: statuses,
		logger:   logger.With(slog.String("component", "depgraph")),
	}, nil
}

// ValidateEdge checks a candidate's structural invariants: non-empty
// endpoints and no self-loop on raw identity. Fails fast before any
// graph work so a rejected edge reports exactly why.
func ValidateEdge(candidate DependencyEdge) error {
	if candidate.Document == "" || candidate.DependsOn == "" {
		return ErrEmptyIdentity
	}
	if candidate.Document == candidate.DependsOn {
		return ErrSelfDependency
	}
	return nil
}
