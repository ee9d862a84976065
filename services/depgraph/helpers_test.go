// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

import (
	"context"
	"fmt"
	"testing"
)

// fakeStore is an in-memory EdgeStore for engine tests.
type fakeStore struct {
	edges []DependencyEdge
	err   error
}

func (s *fakeStore) ActiveEdges(_ context.Context, excludeID string) ([]DependencyEdge, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []DependencyEdge
	for _, e := range s.edges {
		if !e.IsActive {
			continue
		}
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// add appends an active reference edge between two documents.
func (s *fakeStore) add(document, dependsOn string) {
	s.edges = append(s.edges, DependencyEdge{
		ID:        fmt.Sprintf("edge-%d", len(s.edges)+1),
		Document:  document,
		DependsOn: dependsOn,
		Type:      TypeReference,
		IsActive:  true,
	})
}

// fakeStatuses is an in-memory StatusResolver.
type fakeStatuses map[string]DocumentStatus

func (s fakeStatuses) DocumentStatus(_ context.Context, id string) (DocumentStatus, bool, error) {
	status, ok := s[id]
	return status, ok, nil
}

// newTestEngine builds an engine over the given fakes.
func newTestEngine(t *testing.T, store *fakeStore, statuses fakeStatuses) *Engine {
	t.Helper()
	var resolver StatusResolver
	if statuses != nil {
		resolver = statuses
	}
	engine, err := NewEngine(store, resolver, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}
