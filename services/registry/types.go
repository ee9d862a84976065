// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"time"

	"github.com/MeridianDMS/MeridianCore/services/depgraph"
	"github.com/MeridianDMS/MeridianCore/services/depgraph/badgerstore"
)

// DocumentRecord is the persisted document shape the service traffics
// in; aliased so handlers stay readable.
type DocumentRecord = badgerstore.Document

// RegisterDocumentRequest is the body of POST /documents.
type RegisterDocumentRequest struct {
	// ID is the full versioned identifier, e.g. "POL-2025-0001-v02.00".
	ID string `json:"id" binding:"required,docid"`

	// Title is the human-readable document title.
	Title string `json:"title"`

	// Status is the lifecycle state wire name, e.g. "effective".
	Status string `json:"status" binding:"required"`
}

// DocumentResponse mirrors a stored document record.
type DocumentResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	FamilyKey string    `json:"family_key"`
	Major     int       `json:"version_major"`
	Minor     int       `json:"version_minor"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateDependencyRequest is the body of POST /dependencies.
type CreateDependencyRequest struct {
	// Document is the depending document's identifier.
	Document string `json:"document" binding:"required,docid"`

	// DependsOn is the dependency target's identifier.
	DependsOn string `json:"depends_on" binding:"required,docid"`

	// Type is the dependency type wire name, e.g. "implements".
	Type string `json:"dependency_type" binding:"required"`

	// IsCritical flags edges requiring change notification.
	IsCritical bool `json:"is_critical"`
}

// DependencyResponse mirrors a persisted edge.
type DependencyResponse struct {
	ID         string `json:"id"`
	Document   string `json:"document"`
	DependsOn  string `json:"depends_on"`
	Type       string `json:"dependency_type"`
	IsCritical bool   `json:"is_critical"`
	IsActive   bool   `json:"is_active"`
}

// ChainResponse is the result of GET /documents/:id/chain.
type ChainResponse struct {
	DocumentID string                `json:"document_id"`
	Direction  string                `json:"direction"`
	MaxDepth   int                   `json:"max_depth"`
	Entries    []depgraph.ChainEntry `json:"entries"`
}

// CycleReport is the result of GET /integrity/cycles.
type CycleReport struct {
	// Cycles lists each discovered cycle as family keys, start == end.
	Cycles [][]string `json:"cycles"`

	// Count is len(Cycles), surfaced for quick dashboards.
	Count int `json:"count"`

	// ScannedAt is when the scan ran.
	ScannedAt time.Time `json:"scanned_at"`
}

// ObsolescenceResponse wraps the engine decision with the checked
// document.
type ObsolescenceResponse struct {
	DocumentID string `json:"document_id"`
	FamilyKey  string `json:"family_key"`
	depgraph.ObsolescenceDecision
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// newDocumentResponse maps a store record to its wire shape.
func newDocumentResponse(doc DocumentRecord) DocumentResponse {
	return DocumentResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Status:    doc.Status.String(),
		FamilyKey: string(depgraph.FamilyKeyOf(doc.ID)),
		Major:     doc.Major,
		Minor:     doc.Minor,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

// newDependencyResponse maps an edge to its wire shape.
func newDependencyResponse(edge depgraph.DependencyEdge) DependencyResponse {
	return DependencyResponse{
		ID:         edge.ID,
		Document:   edge.Document,
		DependsOn:  edge.DependsOn,
		Type:       edge.Type.String(),
		IsCritical: edge.IsCritical,
		IsActive:   edge.IsActive,
	}
}
