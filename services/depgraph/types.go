// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

import "fmt"

// DependencyType classifies the relationship an edge expresses.
type DependencyType int

const (
	// TypeUnknown indicates an unrecognized dependency type.
	TypeUnknown DependencyType = iota

	// TypeReference indicates the document cites another document.
	TypeReference

	// TypeTemplate indicates the document was produced from a template.
	TypeTemplate

	// TypeSupersedes indicates the document replaces another document.
	TypeSupersedes

	// TypeIncorporates indicates the document embeds another document's
	// content by reference.
	TypeIncorporates

	// TypeSupports indicates the document provides supporting evidence
	// or rationale for another document.
	TypeSupports

	// TypeImplements indicates the document carries out requirements
	// defined by another document.
	TypeImplements
)

// dependencyTypeNames maps DependencyType values to their wire names.
var dependencyTypeNames = map[DependencyType]string{
	TypeUnknown:      "unknown",
	TypeReference:    "reference",
	TypeTemplate:     "template",
	TypeSupersedes:   "supersedes",
	TypeIncorporates: "incorporates",
	TypeSupports:     "supports",
	TypeImplements:   "implements",
}

// String returns the wire name of the dependency type.
func (t DependencyType) String() string {
	if name, ok := dependencyTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseDependencyType resolves a wire name to its DependencyType.
// Returns ErrUnknownDependencyType for names outside the enumeration.
func ParseDependencyType(name string) (DependencyType, error) {
	for t, n := range dependencyTypeNames {
		if n == name && t != TypeUnknown {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("%w: %q", ErrUnknownDependencyType, name)
}

// MarshalText implements encoding.TextMarshaler so edges serialize with
// stable wire names rather than enum ordinals.
func (t DependencyType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *DependencyType) UnmarshalText(text []byte) error {
	parsed, err := ParseDependencyType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DocumentStatus is a document's lifecycle state. The engine never
// mutates status; it only reads it to classify terminal vs. alive.
type DocumentStatus int

const (
	// StatusUnknown indicates an unrecognized status.
	StatusUnknown DocumentStatus = iota

	// StatusDraft is the initial authoring state.
	StatusDraft

	// StatusInReview means the document is in approval routing.
	StatusInReview

	// StatusApprovedPendingEffective means approval is complete but the
	// effective date has not arrived. Counts as alive for blocking.
	StatusApprovedPendingEffective

	// StatusEffective is the released, in-force state.
	StatusEffective

	// StatusSuperseded is terminal: a newer version replaced this one.
	StatusSuperseded

	// StatusObsolete is terminal: the document was retired.
	StatusObsolete

	// StatusTerminated is terminal: the document was withdrawn.
	StatusTerminated
)

// statusNames maps DocumentStatus values to their wire names.
var statusNames = map[DocumentStatus]string{
	StatusUnknown:                  "unknown",
	StatusDraft:                    "draft",
	StatusInReview:                 "in_review",
	StatusApprovedPendingEffective: "approved_pending_effective",
	StatusEffective:                "effective",
	StatusSuperseded:               "superseded",
	StatusObsolete:                 "obsolete",
	StatusTerminated:               "terminated",
}

// String returns the wire name of the status.
func (s DocumentStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// ParseDocumentStatus resolves a wire name to its DocumentStatus.
func ParseDocumentStatus(name string) (DocumentStatus, error) {
	for s, n := range statusNames {
		if n == name && s != StatusUnknown {
			return s, nil
		}
	}
	return StatusUnknown, fmt.Errorf("%w: %q", ErrUnknownStatus, name)
}

// MarshalText implements encoding.TextMarshaler.
func (s DocumentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *DocumentStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseDocumentStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsTerminal reports whether no further dependency-blocking concern
// applies to a document in this state.
func (s DocumentStatus) IsTerminal() bool {
	switch s {
	case StatusSuperseded, StatusObsolete, StatusTerminated:
		return true
	}
	return false
}

// IsAlive reports whether a dependent in this state blocks retirement of
// the documents it depends on.
func (s DocumentStatus) IsAlive() bool {
	switch s {
	case StatusEffective, StatusApprovedPendingEffective:
		return true
	}
	return false
}

// DependencyEdge is one directed "document depends on depends_on" record.
//
// Edges are soft-deleted: IsActive=false preserves audit history while
// excluding the edge from every graph computation. The only in-place
// mutation an edge ever sees is the IsActive flag. Active edges are
// unique on (Document, DependsOn, Type); the store enforces that.
type DependencyEdge struct {
	// ID is the store-assigned record identifier. Empty on candidates
	// that have not been persisted yet.
	ID string `json:"id,omitempty"`

	// Document is the identifier of the depending document.
	Document string `json:"document"`

	// DependsOn is the identifier of the dependency target.
	DependsOn string `json:"depends_on"`

	// Type classifies the relationship.
	Type DependencyType `json:"dependency_type"`

	// IsCritical flags edges that must trigger notification when the
	// target changes. Enforced by the notification collaborator, not
	// by this engine; carried here so chains can surface it.
	IsCritical bool `json:"is_critical"`

	// IsActive is the soft-delete flag.
	IsActive bool `json:"is_active"`
}

// ChainDirection selects the traversal orientation for Chain.
type ChainDirection int

const (
	// DirectionDependencies walks forward edges: what the start
	// document depends on.
	DirectionDependencies ChainDirection = iota

	// DirectionDependents walks reverse edges: what depends on the
	// start document.
	DirectionDependents
)

// String returns the wire name of the direction.
func (d ChainDirection) String() string {
	if d == DirectionDependents {
		return "dependents"
	}
	return "dependencies"
}

// ParseChainDirection resolves a wire name to its ChainDirection.
func ParseChainDirection(name string) (ChainDirection, error) {
	switch name {
	case "dependencies":
		return DirectionDependencies, nil
	case "dependents":
		return DirectionDependents, nil
	}
	return DirectionDependencies, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}

// ChainEntry is one hop discovered by a breadth-first chain walk.
// The start node itself is never emitted; only discovered neighbors are.
type ChainEntry struct {
	// DocumentID is the discovered neighbor.
	DocumentID string `json:"document_id"`

	// ParentID is the node the neighbor was discovered from, enabling
	// edge reconstruction for graph rendering.
	ParentID string `json:"parent_id"`

	// Depth is the hop count from the start node (>= 1).
	Depth int `json:"depth"`

	// Type is the dependency type of the traversed edge.
	Type DependencyType `json:"dependency_type"`

	// IsCritical is the critical flag of the traversed edge.
	IsCritical bool `json:"is_critical"`
}

// FamilyMember is one version of a document family, as supplied by the
// lifecycle collaborator for obsolescence checks.
type FamilyMember struct {
	// DocumentID is the full versioned identifier.
	DocumentID string `json:"document_id"`

	// Major and Minor are the parsed version numbers.
	Major int `json:"version_major"`
	Minor int `json:"version_minor"`

	// Status is the member's lifecycle state.
	Status DocumentStatus `json:"status"`
}

// BlockingDependent is one live document that depends on a family member
// and therefore blocks retirement of the family.
type BlockingDependent struct {
	// DocumentID is the dependent's identifier.
	DocumentID string `json:"document_id"`

	// Type is the dependency type of the blocking edge.
	Type DependencyType `json:"dependency_type"`

	// IsCritical is the critical flag of the blocking edge.
	IsCritical bool `json:"is_critical"`

	// Status is the dependent's lifecycle state (always alive).
	Status DocumentStatus `json:"status"`
}

// BlockingMember groups the blocking dependents of one family member.
type BlockingMember struct {
	// DocumentID is the family member being depended on.
	DocumentID string `json:"document_id"`

	// Count is len(Dependents), surfaced for UI rendering.
	Count int `json:"count"`

	// Dependents enumerates each live blocking dependent.
	Dependents []BlockingDependent `json:"dependents"`
}

// ObsolescenceDecision is the structured outcome of CanObsolete.
//
// A negative decision is a normal, expected result, not a fault: it
// carries enough detail for the caller to render actionable UI.
type ObsolescenceDecision struct {
	// CanObsolete reports whether the whole family may transition to
	// a terminal obsolete state.
	CanObsolete bool `json:"can_obsolete"`

	// Reason is a human-readable explanation of the decision.
	Reason string `json:"reason"`

	// Blocking enumerates, per family member, the live dependents that
	// prevent retirement. Empty when CanObsolete is true.
	Blocking []BlockingMember `json:"blocking_dependencies,omitempty"`

	// NewerVersion points at the newest non-terminal newer version when
	// the newer-version guard fired; empty otherwise. The correct
	// remediation is to mark the older version superseded, not obsolete.
	NewerVersion string `json:"newer_version,omitempty"`
}
