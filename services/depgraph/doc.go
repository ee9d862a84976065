// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package depgraph implements the document dependency graph and
// lifecycle-validation engine for Meridian controlled documents.
//
// Controlled documents (policies, procedures, forms) declare typed
// dependencies on other documents. Before an edge is persisted, and before
// a document family can be retired, the engine guarantees the dependency
// graph stays acyclic and computes which documents would be impacted.
//
// # Family Keys
//
// Versions of one document share a family key: the identifier substring
// before the first "-v" marker ("POL-2025-0001-v02.00" belongs to family
// "POL-2025-0001"). All cycle detection operates on the family graph, so
// different versions of one document count as the same node. This is what
// makes the engine version-aware without per-version graph nodes.
//
// # Operations
//
//   - WouldCreateCycle: write-time guard for a prospective edge
//   - FindCycles: offline integrity scan over the whole corpus
//   - Chain: bounded-depth BFS over dependencies or dependents
//   - CanObsolete: whole-family retirement decision with blocking detail
//
// # Collaborators
//
// The engine owns no storage. An EdgeStore supplies a snapshot of active
// edges and a StatusResolver classifies document lifecycle status. Both
// are satisfied by badgerstore in this repository, but any implementation
// will do.
//
// # Thread Safety
//
// Every operation rebuilds its graph from a fresh snapshot and holds no
// state between calls, so an Engine is safe for concurrent use. The
// validate-then-commit race on the write path is the caller's concern:
// serialize validation and commit per family-key pair (see the registry
// service's pair locks).
package depgraph
