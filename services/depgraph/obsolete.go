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
	"sort"
)

// CanObsolete decides whether an entire version family may transition to
// the terminal obsolete state.
//
// Description:
//
//	Two guards run in order. The newer-version guard denies when any
//	family member with a strictly newer version is not already
//	terminal: you cannot retire a family while a living newer version
//	exists, and the correct remediation is to mark the older version
//	superseded instead. The dependent guard then scans every family
//	member (obsoleting a family retires all of its versions, and a
//	dependent may have been created against any historical one): any
//	active edge whose target is in the family and whose depending
//	document is still alive blocks the decision, enumerated per
//	blocking member for actionable UI.
//
//	A denial is a normal decision, not an error; the error return is
//	reserved for collaborator failures.
//
// Inputs:
//
//	ctx - Carries cancellation and trace context.
//	target - The family member the retirement was requested against.
//	family - Every version sharing the target's family key, with
//	         status, ordered newest-first by the lifecycle collaborator.
//
// Outputs:
//
//	ObsolescenceDecision - Allow/deny with structured blocking detail.
//	error - ErrNoStatusResolver or a collaborator failure.
func (e *Engine) CanObsolete(ctx context.Context, target FamilyMember, family []FamilyMember) (ObsolescenceDecision, error) {
	ctx, span := tracer.Start(ctx, "depgraph.CanObsolete")
	defer span.End()

	if e.statuses == nil {
		return ObsolescenceDecision{}, ErrNoStatusResolver
	}

	if newer, found := newestLivingNewer(target, family); found {
		obsolescenceDecisions.WithLabelValues("newer_version").Inc()
		return ObsolescenceDecision{
			CanObsolete: false,
			Reason: fmt.Sprintf("a newer non-terminal version exists (%s); mark %s superseded instead",
				newer.DocumentID, target.DocumentID),
			NewerVersion: newer.DocumentID,
		}, nil
	}

	blocking, err := e.blockingDependents(ctx, target, family)
	if err != nil {
		return ObsolescenceDecision{}, err
	}
	if len(blocking) > 0 {
		obsolescenceDecisions.WithLabelValues("blocked").Inc()
		total := 0
		for _, b := range blocking {
			total += b.Count
		}
		return ObsolescenceDecision{
			CanObsolete: false,
			Reason: fmt.Sprintf("%d active dependent(s) still reference %d version(s) of family %s",
				total, len(blocking), FamilyKeyOf(target.DocumentID)),
			Blocking: blocking,
		}, nil
	}

	obsolescenceDecisions.WithLabelValues("allowed").Inc()
	return ObsolescenceDecision{
		CanObsolete: true,
		Reason:      "no newer non-terminal version and no active dependents",
	}, nil
}

// newestLivingNewer finds the newest family member that is strictly
// newer than the target and not already terminal.
func newestLivingNewer(target FamilyMember, family []FamilyMember) (FamilyMember, bool) {
	var newest FamilyMember
	found := false
	for _, m := range family {
		if m.DocumentID == target.DocumentID {
			continue
		}
		if !VersionNewer(m.Major, m.Minor, target.Major, target.Minor) {
			continue
		}
		if m.Status.IsTerminal() {
			continue
		}
		if !found || VersionNewer(m.Major, m.Minor, newest.Major, newest.Minor) {
			newest = m
			found = true
		}
	}
	return newest, found
}

// blockingDependents scans active edges targeting any family member and
// keeps dependents whose own lifecycle status is still alive. Results
// group by the concrete version being depended on, sorted by member id
// for deterministic output.
func (e *Engine) blockingDependents(ctx context.Context, target FamilyMember, family []FamilyMember) ([]BlockingMember, error) {
	famKey := FamilyKeyOf(target.DocumentID)

	edges, err := e.store.ActiveEdges(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("read active edges: %w", err)
	}

	byMember := make(map[string][]BlockingDependent)
	for _, edge := range edges {
		if !edge.IsActive {
			continue
		}
		if FamilyKeyOf(edge.DependsOn) != famKey {
			continue
		}
		// Intra-family edges (e.g. supersedes chains recorded between
		// versions) never block their own family's retirement.
		if FamilyKeyOf(edge.Document) == famKey {
			continue
		}
		status, found, err := e.statuses.DocumentStatus(ctx, edge.Document)
		if err != nil {
			return nil, fmt.Errorf("resolve status of %s: %w", edge.Document, err)
		}
		if !found || !status.IsAlive() {
			continue
		}
		byMember[edge.DependsOn] = append(byMember[edge.DependsOn], BlockingDependent{
			DocumentID: edge.Document,
			Type:       edge.Type,
			IsCritical: edge.IsCritical,
			Status:     status,
		})
	}
	if len(byMember) == 0 {
		return nil, nil
	}

	members := make([]string, 0, len(byMember))
	for id := range byMember {
		members = append(members, id)
	}
	sort.Strings(members)

	blocking := make([]BlockingMember, 0, len(members))
	for _, id := range members {
		deps := byMember[id]
		sort.Slice(deps, func(a, b int) bool { return deps[a].DocumentID < deps[b].DocumentID })
		blocking = append(blocking, BlockingMember{
			DocumentID: id,
			Count:      len(deps),
			Dependents: deps,
		})
	}
	return blocking, nil
}
