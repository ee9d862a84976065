// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package registry is the host document service around the depgraph
// engine: document version records, the dependency write path with its
// validate-and-commit locking discipline, and the HTTP surface consumed
// by the Meridian UI.
package registry

import "errors"

// Sentinel errors for registry operations.
var (
	// ErrUnknownDocument is returned when an operation references an
	// identifier with no document record. Edge endpoints must be
	// registered before a dependency between them can exist; the
	// engine assumes resolvable identities.
	ErrUnknownDocument = errors.New("document is not registered")
)
