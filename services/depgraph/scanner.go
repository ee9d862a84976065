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
	"log/slog"
	"sort"
)

// FindCycles scans the whole corpus and reports every cycle in the
// family graph. It runs from scheduled integrity jobs and the meridian
// scan command; it never blocks any write path by itself.
//
// Description:
//
//	One DFS pass over the family graph, O(V+E). Nodes on the current
//	path stack are "grey"; revisiting a grey node emits the sub-path
//	from its first occurrence through the current node as one cycle.
//	Fully explored subtrees turn "black" (the global visited set) and
//	are never re-explored from a fresh root. Roots are taken in sorted
//	key order so reports are deterministic.
//
// Outputs:
//
//	[][]FamilyKey - Each cycle as a key sequence starting and ending at
//	                the same key. Empty slice for a healthy corpus.
//	error - Non-nil only when the snapshot read fails.
func (e *Engine) FindCycles(ctx context.Context) ([][]FamilyKey, error) {
	ctx, span := tracer.Start(ctx, "depgraph.FindCycles")
	defer span.End()
	corpusScans.Inc()

	edges, err := e.store.ActiveEdges(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("read active edges: %w", err)
	}

	g := buildFamilyGraph(edges)

	roots := make([]int, g.len())
	for i := range roots {
		roots[i] = i
	}
	sort.Slice(roots, func(a, b int) bool { return g.keys[roots[a]] < g.keys[roots[b]] })

	var (
		cycles  [][]FamilyKey
		done    = make([]bool, g.len()) // black: subtree fully explored
		onPath  = make([]bool, g.len()) // grey: on the current path stack
		pathPos = make([]int, g.len())  // index of a grey node in path
		path    []int
	)

	// frame tracks iterative DFS progress so deep corpora cannot
	// overflow the goroutine stack.
	type frame struct {
		node int
		next int
	}

	for _, root := range roots {
		if done[root] {
			continue
		}
		stack := []frame{{node: root}}
		onPath[root] = true
		pathPos[root] = 0
		path = append(path[:0], root)

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next < len(g.out[f.node]) {
				child := g.out[f.node][f.next]
				f.next++
				switch {
				case onPath[child]:
					cycles = append(cycles, g.cycleAt(path, pathPos[child], child))
				case !done[child]:
					onPath[child] = true
					pathPos[child] = len(path)
					path = append(path, child)
					stack = append(stack, frame{node: child})
				}
				continue
			}
			// Subtree exhausted: unwind.
			done[f.node] = true
			onPath[f.node] = false
			path = path[:len(path)-1]
			stack = stack[:len(stack)-1]
		}
	}

	corpusCyclesFound.Set(float64(len(cycles)))
	if len(cycles) > 0 {
		loggerWithTrace(ctx, e.logger).Warn("Corpus contains dependency cycles",
			slog.Int("cycles", len(cycles)),
			slog.Int("families", g.len()),
			slog.Int("edges", len(edges)))
	}
	return cycles, nil
}

// cycleAt extracts the cycle closed by a back edge to the grey node at
// path[start], appending the node again so the sequence starts and ends
// at the same key.
func (g *familyGraph) cycleAt(path []int, start, node int) []FamilyKey {
	cycle := make([]FamilyKey, 0, len(path)-start+1)
	for _, n := range path[start:] {
		cycle = append(cycle, g.keys[n])
	}
	cycle = append(cycle, g.keys[node])
	return cycle
}
