// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for engine operations.
var (
	// ErrEmptyIdentity is returned when an edge endpoint is empty.
	ErrEmptyIdentity = errors.New("document identity is empty")

	// ErrSelfDependency is returned when an edge's endpoints are the
	// same identifier. Rejected before any graph work.
	ErrSelfDependency = errors.New("document cannot depend on itself")

	// ErrSameFamily is returned when an edge's endpoints are different
	// versions of the same document family. A document may never depend
	// on another version of itself.
	ErrSameFamily = errors.New("document cannot depend on another version of itself")

	// ErrCycleDetected is returned when persisting a candidate edge
	// would close a cycle in the family graph. The concrete error is a
	// *CycleError; match with errors.Is or errors.As.
	ErrCycleDetected = errors.New("dependency cycle detected")

	// ErrUnknownDependencyType is returned when parsing a dependency
	// type name outside the fixed enumeration.
	ErrUnknownDependencyType = errors.New("unknown dependency type")

	// ErrUnknownStatus is returned when parsing a lifecycle status name
	// outside the fixed enumeration.
	ErrUnknownStatus = errors.New("unknown document status")

	// ErrUnknownDirection is returned when parsing a chain direction
	// other than "dependencies" or "dependents".
	ErrUnknownDirection = errors.New("unknown chain direction")

	// ErrInvalidDepth is returned when Chain is called with a
	// non-positive max depth. Depth is the only bound against unbounded
	// work and must be finite and caller-supplied.
	ErrInvalidDepth = errors.New("max depth must be positive")

	// ErrNoStatusResolver is returned when CanObsolete is invoked on an
	// engine constructed without a StatusResolver.
	ErrNoStatusResolver = errors.New("no status resolver configured")
)

// CycleError reports a rejected candidate edge together with the closing
// path for diagnostics. It unwraps to ErrCycleDetected.
type CycleError struct {
	// Document is the family key of the candidate's depending side.
	Document FamilyKey

	// DependsOn is the family key of the candidate's target side.
	DependsOn FamilyKey

	// Path is the cycle the candidate would close, starting and ending
	// at Document. Nil when the rejection is the same-family rule.
	Path []FamilyKey
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("dependency cycle detected: %s -> %s", e.Document, e.DependsOn)
	}
	parts := make([]string, len(e.Path))
	for i, k := range e.Path {
		parts[i] = string(k)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(parts, " -> "))
}

// Is makes errors.Is(err, ErrCycleDetected) match a *CycleError.
func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}
