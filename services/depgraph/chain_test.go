// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChain_Dependencies(t *testing.T) {
	store := &fakeStore{}
	store.add("A", "B")
	store.add("B", "C")
	store.add("C", "D")
	engine := newTestEngine(t, store, nil)

	entries, err := engine.Chain(context.Background(), "A", DirectionDependencies, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, ChainEntry{
		DocumentID: "B", ParentID: "A", Depth: 1, Type: TypeReference,
	}, entries[0])
	assert.Equal(t, ChainEntry{
		DocumentID: "C", ParentID: "B", Depth: 2, Type: TypeReference,
	}, entries[1])
}

func TestChain_Dependents(t *testing.T) {
	// Same edge set, opposite orientation.
	store := &fakeStore{}
	store.add("A", "B")
	store.add("C", "B")
	engine := newTestEngine(t, store, nil)

	entries, err := engine.Chain(context.Background(), "B", DirectionDependents, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	ids := []string{entries[0].DocumentID, entries[1].DocumentID}
	assert.ElementsMatch(t, []string{"A", "C"}, ids)
	for _, entry := range entries {
		assert.Equal(t, "B", entry.ParentID)
		assert.Equal(t, 1, entry.Depth)
	}
}

func TestChain_DepthBound(t *testing.T) {
	store := &fakeStore{}
	store.add("A", "B")
	store.add("B", "C")
	store.add("C", "D")
	engine := newTestEngine(t, store, nil)

	entries, err := engine.Chain(context.Background(), "A", DirectionDependencies, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].DocumentID)

	for _, entry := range entries {
		assert.LessOrEqual(t, entry.Depth, 1)
	}
}

func TestChain_TerminatesOnCycles(t *testing.T) {
	// Chains never rely on the graph being acyclic.
	store := &fakeStore{}
	store.add("A", "B")
	store.add("B", "A")
	engine := newTestEngine(t, store, nil)

	entries, err := engine.Chain(context.Background(), "A", DirectionDependencies, 10)
	require.NoError(t, err)
	// A->B at depth 1, then B's edge back to the visited start is still
	// emitted at depth 2, but A is not re-expanded.
	require.Len(t, entries, 2)
	assert.Equal(t, "B", entries[0].DocumentID)
	assert.Equal(t, "A", entries[1].DocumentID)
	assert.Equal(t, 2, entries[1].Depth)
}

func TestChain_BoundaryEdgesEmitted(t *testing.T) {
	// Diamond: A->B, A->C, B->D, C->D. D is discovered via B first but
	// the C->D edge must still be reported for multi-parent rendering.
	store := &fakeStore{}
	store.add("A", "B")
	store.add("A", "C")
	store.add("B", "D")
	store.add("C", "D")
	engine := newTestEngine(t, store, nil)

	entries, err := engine.Chain(context.Background(), "A", DirectionDependencies, 3)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	var dParents []string
	for _, entry := range entries {
		if entry.DocumentID == "D" {
			dParents = append(dParents, entry.ParentID)
		}
	}
	assert.ElementsMatch(t, []string{"B", "C"}, dParents)
}

func TestChain_StartNotEmitted(t *testing.T) {
	store := &fakeStore{}
	store.add("A", "B")
	engine := newTestEngine(t, store, nil)

	entries, err := engine.Chain(context.Background(), "A", DirectionDependencies, 5)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotEqual(t, "A", entry.DocumentID)
	}
}

func TestChain_EdgeAnnotations(t *testing.T) {
	store := &fakeStore{}
	store.edges = append(store.edges, DependencyEdge{
		ID: "edge-1", Document: "SOP-1-v01.00", DependsOn: "POL-1-v02.00",
		Type: TypeImplements, IsCritical: true, IsActive: true,
	})
	engine := newTestEngine(t, store, nil)

	entries, err := engine.Chain(context.Background(), "SOP-1-v01.00", DirectionDependencies, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, TypeImplements, entries[0].Type)
	assert.True(t, entries[0].IsCritical)
}

func TestChain_InvalidInputs(t *testing.T) {
	engine := newTestEngine(t, &fakeStore{}, nil)

	_, err := engine.Chain(context.Background(), "A", DirectionDependencies, 0)
	assert.ErrorIs(t, err, ErrInvalidDepth)

	_, err = engine.Chain(context.Background(), "", DirectionDependencies, 3)
	assert.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestChain_InactiveEdgesExcluded(t *testing.T) {
	store := &fakeStore{}
	store.add("A", "B")
	store.edges = append(store.edges, DependencyEdge{
		ID: "edge-soft-deleted", Document: "A", DependsOn: "C",
		Type: TypeReference, IsActive: false,
	})
	engine := newTestEngine(t, store, nil)

	entries, err := engine.Chain(context.Background(), "A", DirectionDependencies, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "B", entries[0].DocumentID)
}
