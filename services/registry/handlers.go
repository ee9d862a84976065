// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MeridianDMS/MeridianCore/services/depgraph"
	"github.com/MeridianDMS/MeridianCore/services/depgraph/badgerstore"
)

// defaultChainDepth bounds chain walks when the client does not say.
const defaultChainDepth = 10

// Handlers exposes the registry service over HTTP.
type Handlers struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandlers wires the HTTP layer over a Service.
func NewHandlers(svc *Service, logger *slog.Logger) *Handlers {
	registerValidations()
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		svc:    svc,
		logger: logger.With(slog.String("component", "registry.http")),
	}
}

// HandleRegisterDocument creates or updates a document version record.
//
// POST /v1/registry/documents
func (h *Handlers) HandleRegisterDocument(c *gin.Context) {
	var req RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	status, err := depgraph.ParseDocumentStatus(req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	doc, err := h.svc.RegisterDocument(c.Request.Context(), DocumentRecord{
		ID:     req.ID,
		Title:  req.Title,
		Status: status,
	})
	if err != nil {
		h.logger.Error("register document failed",
			slog.String("document", req.ID),
			slog.String("error", err.Error()))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDocumentResponse(doc))
}

// HandleGetDocument loads one document version record.
//
// GET /v1/registry/documents/:id
func (h *Handlers) HandleGetDocument(c *gin.Context) {
	doc, err := h.svc.Document(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDocumentResponse(doc))
}

// HandleCreateDependency validates and persists a dependency edge.
//
// POST /v1/registry/dependencies
func (h *Handlers) HandleCreateDependency(c *gin.Context) {
	var req CreateDependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request: " + err.Error(),
			Code:  "INVALID_REQUEST",
		})
		return
	}

	depType, err := depgraph.ParseDependencyType(req.Type)
	if err != nil {
		writeError(c, err)
		return
	}

	edge, err := h.svc.CreateDependency(c.Request.Context(), depgraph.DependencyEdge{
		Document:   req.Document,
		DependsOn:  req.DependsOn,
		Type:       depType,
		IsCritical: req.IsCritical,
	})
	if err != nil {
		h.logger.Warn("dependency rejected",
			slog.String("document", req.Document),
			slog.String("depends_on", req.DependsOn),
			slog.String("error", err.Error()))
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newDependencyResponse(edge))
}

// HandleRemoveDependency soft-deletes an edge by record ID.
//
// DELETE /v1/registry/dependencies/:id
func (h *Handlers) HandleRemoveDependency(c *gin.Context) {
	if err := h.svc.RemoveDependency(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleChain walks the bounded-depth chain of a document.
//
// GET /v1/registry/documents/:id/chain?direction=dependencies&depth=10
func (h *Handlers) HandleChain(c *gin.Context) {
	id := c.Param("id")

	direction := depgraph.DirectionDependencies
	if name := c.Query("direction"); name != "" {
		parsed, err := depgraph.ParseChainDirection(name)
		if err != nil {
			writeError(c, err)
			return
		}
		direction = parsed
	}

	depth := defaultChainDepth
	if raw := c.Query("depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "depth must be an integer",
				Code:  "INVALID_DEPTH",
			})
			return
		}
		depth = parsed
	}

	entries, err := h.svc.Chain(c.Request.Context(), id, direction, depth)
	if err != nil {
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []depgraph.ChainEntry{}
	}

	c.JSON(http.StatusOK, ChainResponse{
		DocumentID: id,
		Direction:  direction.String(),
		MaxDepth:   depth,
		Entries:    entries,
	})
}

// HandleObsolescenceCheck decides whether a document's family may be
// retired.
//
// POST /v1/registry/documents/:id/obsolescence-check
func (h *Handlers) HandleObsolescenceCheck(c *gin.Context) {
	id := c.Param("id")

	decision, err := h.svc.CheckObsolescence(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, ObsolescenceResponse{
		DocumentID:           id,
		FamilyKey:            string(depgraph.FamilyKeyOf(id)),
		ObsolescenceDecision: decision,
	})
}

// HandleCycleScan runs the corpus integrity scan.
//
// GET /v1/registry/integrity/cycles
func (h *Handlers) HandleCycleScan(c *gin.Context) {
	cycles, err := h.svc.ScanCycles(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	report := CycleReport{
		Cycles:    make([][]string, 0, len(cycles)),
		Count:     len(cycles),
		ScannedAt: time.Now().UTC(),
	}
	for _, cycle := range cycles {
		keys := make([]string, len(cycle))
		for i, k := range cycle {
			keys[i] = string(k)
		}
		report.Cycles = append(report.Cycles, keys)
	}

	c.JSON(http.StatusOK, report)
}

// HandleHealth reports liveness.
//
// GET /health
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleReady reports readiness with a single empty store transaction;
// the probe cost stays constant regardless of corpus size.
//
// GET /ready
func (h *Handlers) HandleReady(c *gin.Context) {
	if err := h.svc.Ready(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// writeError maps domain errors onto HTTP statuses and stable codes.
// Validation failures are 400, missing records 404, and conflicts with
// existing graph state 409.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"

	switch {
	case errors.Is(err, depgraph.ErrEmptyIdentity):
		status, code = http.StatusBadRequest, "EMPTY_IDENTITY"
	case errors.Is(err, depgraph.ErrSelfDependency):
		status, code = http.StatusBadRequest, "SELF_DEPENDENCY"
	case errors.Is(err, depgraph.ErrSameFamily):
		status, code = http.StatusBadRequest, "SAME_FAMILY"
	case errors.Is(err, depgraph.ErrInvalidDepth):
		status, code = http.StatusBadRequest, "INVALID_DEPTH"
	case errors.Is(err, depgraph.ErrUnknownDependencyType):
		status, code = http.StatusBadRequest, "UNKNOWN_DEPENDENCY_TYPE"
	case errors.Is(err, depgraph.ErrUnknownStatus):
		status, code = http.StatusBadRequest, "UNKNOWN_STATUS"
	case errors.Is(err, depgraph.ErrUnknownDirection):
		status, code = http.StatusBadRequest, "UNKNOWN_DIRECTION"
	case errors.Is(err, ErrUnknownDocument),
		errors.Is(err, badgerstore.ErrDocumentNotFound),
		errors.Is(err, badgerstore.ErrEdgeNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, depgraph.ErrCycleDetected):
		status, code = http.StatusConflict, "CYCLE_DETECTED"
	case errors.Is(err, badgerstore.ErrDuplicateEdge):
		status, code = http.StatusConflict, "DUPLICATE_EDGE"
	case errors.Is(err, badgerstore.ErrEdgeInactive):
		status, code = http.StatusConflict, "EDGE_INACTIVE"
	}

	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
