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
)

// Chain walks the dependency graph breadth-first from a start document
// and returns every hop up to maxDepth, annotated with parent linkage so
// callers can reconstruct edges for rendering.
//
// Description:
//
//	Chains traverse raw document identities, not family keys: the UI
//	shows which concrete versions reference each other. Forward edges
//	answer "what does this depend on"; reverse edges answer "what
//	depends on this" over the same edge set. Every edge at the
//	traversal boundary is emitted, including edges whose far endpoint
//	was already discovered via another path (multi-parent rendering),
//	but visited nodes are never re-expanded, so the walk terminates on
//	cyclic and densely connected data alike. Every node strictly closer
//	than maxDepth is discovered before any node at maxDepth.
//
// Inputs:
//
//	ctx - Carries cancellation and trace context.
//	start - The document to walk from. Never emitted itself.
//	direction - DirectionDependencies or DirectionDependents.
//	maxDepth - Hop bound; must be positive.
//
// Outputs:
//
//	[]ChainEntry - Discovered hops in BFS order. Nil-safe empty for
//	               isolated documents.
//	error - ErrInvalidDepth, ErrEmptyIdentity, or a store failure.
func (e *Engine) Chain(ctx context.Context, start string, direction ChainDirection, maxDepth int) ([]ChainEntry, error) {
	ctx, span := tracer.Start(ctx, "depgraph.Chain")
	defer span.End()

	if start == "" {
		return nil, ErrEmptyIdentity
	}
	if maxDepth <= 0 {
		return nil, ErrInvalidDepth
	}

	edges, err := e.store.ActiveEdges(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("read active edges: %w", err)
	}

	// Orient the adjacency once; both directions come from one edge set.
	adjacent := make(map[string][]DependencyEdge, len(edges))
	for _, edge := range edges {
		if !edge.IsActive {
			continue
		}
		switch direction {
		case DirectionDependents:
			adjacent[edge.DependsOn] = append(adjacent[edge.DependsOn], edge)
		default:
			adjacent[edge.Document] = append(adjacent[edge.Document], edge)
		}
	}

	neighborOf := func(edge DependencyEdge) string {
		if direction == DirectionDependents {
			return edge.Document
		}
		return edge.DependsOn
	}

	type queued struct {
		id    string
		depth int
	}

	var entries []ChainEntry
	visited := map[string]bool{start: true}
	queue := []queued{{id: start, depth: 0}}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node.depth >= maxDepth {
			continue
		}
		for _, edge := range adjacent[node.id] {
			neighbor := neighborOf(edge)
			entries = append(entries, ChainEntry{
				DocumentID: neighbor,
				ParentID:   node.id,
				Depth:      node.depth + 1,
				Type:       edge.Type,
				IsCritical: edge.IsCritical,
			})
			if !visited[neighbor] {
				visited[neighbor] = true
				queue = append(queue, queued{id: neighbor, depth: node.depth + 1})
			}
		}
	}
	return entries, nil
}
