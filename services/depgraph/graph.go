// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

// familyGraph is the derived adjacency structure every validation runs
// on. Nodes are family keys interned to dense int indices so traversals
// hash each key once at build time instead of on every hop. It is built
// fresh per call from an edge snapshot and never outlives it.
//
// The graph is immutable after build and safe to read concurrently.
type familyGraph struct {
	// index maps a family key to its dense node index.
	index map[FamilyKey]int

	// keys is the inverse of index: keys[i] is node i's family key.
	keys []FamilyKey

	// out[i] lists nodes that node i depends on (forward edges).
	out [][]int

	// in[i] lists nodes that depend on node i (reverse edges).
	in [][]int
}

// buildFamilyGraph folds an edge snapshot into a family graph. Inactive
// edges are skipped even when a store hands them out. Parallel edges
// between the same family pair (different versions or dependency types)
// collapse to one graph edge.
func buildFamilyGraph(edges []DependencyEdge) *familyGraph {
	g := &familyGraph{index: make(map[FamilyKey]int)}

	type pair struct{ from, to int }
	seen := make(map[pair]struct{}, len(edges))

	for _, e := range edges {
		if !e.IsActive {
			continue
		}
		from := g.intern(FamilyKeyOf(e.Document))
		to := g.intern(FamilyKeyOf(e.DependsOn))
		if from == to {
			// Same-family edges are invalid at write time; if one leaked
			// into the corpus it is a trivial self-cycle the scanner
			// reports, but it must not derail reachability.
			continue
		}
		p := pair{from, to}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		g.out[from] = append(g.out[from], to)
		g.in[to] = append(g.in[to], from)
	}
	return g
}

// intern returns the node index for a family key, allocating one on
// first sight.
func (g *familyGraph) intern(k FamilyKey) int {
	if i, ok := g.index[k]; ok {
		return i
	}
	i := len(g.keys)
	g.index[k] = i
	g.keys = append(g.keys, k)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return i
}

// node looks up the index of a family key without allocating.
func (g *familyGraph) node(k FamilyKey) (int, bool) {
	i, ok := g.index[k]
	return i, ok
}

// len returns the node count.
func (g *familyGraph) len() int {
	return len(g.keys)
}

// pathTo searches for a path from node from to node to along forward
// edges and returns it as family keys (from first, to last). Returns nil
// when to is unreachable.
//
// The search is an iterative DFS with one shared visited set, so it
// terminates even when the corpus already contains a cycle from a
// bypassed check.
func (g *familyGraph) pathTo(from, to int) []FamilyKey {
	if from == to {
		return []FamilyKey{g.keys[from]}
	}

	visited := make([]bool, g.len())
	parent := make([]int, g.len())
	for i := range parent {
		parent[i] = -1
	}

	stack := []int{from}
	visited[from] = true
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range g.out[n] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = n
			if next == to {
				return g.unwindPath(parent, from, to)
			}
			stack = append(stack, next)
		}
	}
	return nil
}

// unwindPath reconstructs the path found by pathTo from parent links.
func (g *familyGraph) unwindPath(parent []int, from, to int) []FamilyKey {
	var rev []int
	for n := to; n != -1; n = parent[n] {
		rev = append(rev, n)
		if n == from {
			break
		}
	}
	path := make([]FamilyKey, len(rev))
	for i, n := range rev {
		path[len(rev)-1-i] = g.keys[n]
	}
	return path
}
