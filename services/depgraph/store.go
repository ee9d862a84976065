// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

import "context"

// EdgeStore supplies the engine with a snapshot of active dependency
// edges. The engine never writes edges; persistence is the caller's
// responsibility after the engine approves a candidate.
//
// Implementations must return a consistent snapshot: every edge in the
// result was active at one point in time. The registry service pairs
// snapshot reads with per-family-pair locks so validation and commit are
// one atomic unit; see the package doc's Thread Safety section and the
// registry pair locks.
type EdgeStore interface {
	// ActiveEdges returns every active edge. excludeID, when non-empty,
	// drops the edge with that record ID from the snapshot so an edge
	// being updated is not validated against its own prior state.
	ActiveEdges(ctx context.Context, excludeID string) ([]DependencyEdge, error)
}

// StatusResolver classifies a document's lifecycle status for the
// obsolescence dependent guard. Implementations report found=false for
// identifiers they have no record of; such dependents cannot be
// classified as alive and do not block.
type StatusResolver interface {
	DocumentStatus(ctx context.Context, id string) (status DocumentStatus, found bool, err error)
}
