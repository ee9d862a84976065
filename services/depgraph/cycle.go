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
)

// WouldCreateCycle decides whether persisting the candidate edge would
// close a cycle in the family graph.
//
// Description:
//
//	Rule 1: endpoints in the same family are rejected outright; a
//	document may never depend on another version of itself. Otherwise
//	the engine builds the family graph from the current active-edge
//	snapshot (excluding the candidate's own prior state when it carries
//	a record ID) and asks whether the candidate's target can already
//	reach the candidate's source. A cycle exists iff it can: the
//	reverse-reachability check is what makes inserting A->B detectable
//	as closing B~>A->B.
//
// Inputs:
//
//	ctx - Carries cancellation and trace context.
//	candidate - The prospective edge. Endpoints must be resolvable
//	            identities; existence is enforced by the caller.
//
// Outputs:
//
//	bool - True when the edge must be rejected.
//	error - Non-nil only for structural violations or store failures.
func (e *Engine) WouldCreateCycle(ctx context.Context, candidate DependencyEdge) (bool, error) {
	ctx, span := tracer.Start(ctx, "depgraph.WouldCreateCycle")
	defer span.End()

	if err := ValidateEdge(candidate); err != nil {
		cycleChecks.WithLabelValues("invalid").Inc()
		return true, err
	}

	docFam := FamilyKeyOf(candidate.Document)
	depFam := FamilyKeyOf(candidate.DependsOn)
	if docFam == depFam {
		cycleChecks.WithLabelValues("same_family").Inc()
		return true, nil
	}

	edges, err := e.store.ActiveEdges(ctx, candidate.ID)
	if err != nil {
		return false, fmt.Errorf("read active edges: %w", err)
	}
	snapshotEdges.Observe(float64(len(edges)))

	g := buildFamilyGraph(edges)
	from, ok := g.node(depFam)
	if !ok {
		// Target family has no outgoing edges yet; nothing to reach.
		cycleChecks.WithLabelValues("allowed").Inc()
		return false, nil
	}
	to, ok := g.node(docFam)
	if !ok {
		cycleChecks.WithLabelValues("allowed").Inc()
		return false, nil
	}

	if path := g.pathTo(from, to); path != nil {
		cycleChecks.WithLabelValues("cycle").Inc()
		loggerWithTrace(ctx, e.logger).Warn("Candidate edge would close a cycle",
			slog.String("document", candidate.Document),
			slog.String("depends_on", candidate.DependsOn))
		return true, nil
	}

	cycleChecks.WithLabelValues("allowed").Inc()
	return false, nil
}

// CheckEdge validates a candidate edge end to end and reports the exact
// rejection cause as an error value, per the engine's result-not-throw
// policy.
//
// Returns nil when the edge is safe to persist. Otherwise one of:
//
//   - ErrEmptyIdentity / ErrSelfDependency for structural violations
//   - ErrSameFamily for cross-version self-dependency
//   - *CycleError (matches ErrCycleDetected) with the closing path
func (e *Engine) CheckEdge(ctx context.Context, candidate DependencyEdge) error {
	ctx, span := tracer.Start(ctx, "depgraph.CheckEdge")
	defer span.End()

	if err := ValidateEdge(candidate); err != nil {
		cycleChecks.WithLabelValues("invalid").Inc()
		return err
	}

	docFam := FamilyKeyOf(candidate.Document)
	depFam := FamilyKeyOf(candidate.DependsOn)
	if docFam == depFam {
		cycleChecks.WithLabelValues("same_family").Inc()
		return fmt.Errorf("%w: %s and %s share family %s",
			ErrSameFamily, candidate.Document, candidate.DependsOn, docFam)
	}

	edges, err := e.store.ActiveEdges(ctx, candidate.ID)
	if err != nil {
		return fmt.Errorf("read active edges: %w", err)
	}
	snapshotEdges.Observe(float64(len(edges)))

	g := buildFamilyGraph(edges)
	from, okFrom := g.node(depFam)
	to, okTo := g.node(docFam)
	if okFrom && okTo {
		if path := g.pathTo(from, to); path != nil {
			cycleChecks.WithLabelValues("cycle").Inc()
			// The closing cycle starts at the candidate's source,
			// follows the candidate edge, then the existing path back.
			cycle := append([]FamilyKey{docFam}, path...)
			return &CycleError{Document: docFam, DependsOn: depFam, Path: cycle}
		}
	}

	cycleChecks.WithLabelValues("allowed").Inc()
	return nil
}
