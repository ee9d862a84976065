// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MeridianDMS/MeridianCore/services/depgraph"
	"github.com/MeridianDMS/MeridianCore/services/depgraph/badgerstore"
)

// Service composes the document store and the depgraph engine behind
// the registry's write-path discipline.
//
// # Thread Safety
//
// Safe for concurrent use. Dependency creation serializes per
// family-key pair (see pairLocks); everything else relies on the
// store's snapshot isolation and the engine's statelessness.
type Service struct {
	store  *badgerstore.Store
	engine *depgraph.Engine
	locks  *pairLocks
	logger *slog.Logger
}

// NewService wires a Service over an open store.
func NewService(store *badgerstore.Store, logger *slog.Logger) (*Service, error) {
	if store == nil {
		return nil, errors.New("store must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	engine, err := depgraph.NewEngine(store, store, logger)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:  store,
		engine: engine,
		locks:  newPairLocks(),
		logger: logger.With(slog.String("component", "registry")),
	}, nil
}

// RegisterDocument creates or updates a document version record.
func (s *Service) RegisterDocument(ctx context.Context, doc badgerstore.Document) (badgerstore.Document, error) {
	if doc.Status == depgraph.StatusUnknown {
		return badgerstore.Document{}, depgraph.ErrUnknownStatus
	}
	return s.store.PutDocument(ctx, doc)
}

// Document loads one document version record.
func (s *Service) Document(ctx context.Context, id string) (badgerstore.Document, error) {
	doc, err := s.store.GetDocument(ctx, id)
	if errors.Is(err, badgerstore.ErrDocumentNotFound) {
		return badgerstore.Document{}, fmt.Errorf("%w: %s", ErrUnknownDocument, id)
	}
	return doc, err
}

// CreateDependency runs the full write path for a proposed edge:
// structural validation, endpoint existence, then cycle validation and
// commit under the family-pair lock so no concurrent insert can close a
// cycle against a stale snapshot.
func (s *Service) CreateDependency(ctx context.Context, edge depgraph.DependencyEdge) (depgraph.DependencyEdge, error) {
	if err := depgraph.ValidateEdge(edge); err != nil {
		return depgraph.DependencyEdge{}, err
	}
	for _, id := range []string{edge.Document, edge.DependsOn} {
		if _, err := s.Document(ctx, id); err != nil {
			return depgraph.DependencyEdge{}, err
		}
	}

	unlock := s.locks.lock(depgraph.FamilyKeyOf(edge.Document), depgraph.FamilyKeyOf(edge.DependsOn))
	defer unlock()

	// Snapshot is re-read inside the lock by CheckEdge.
	if err := s.engine.CheckEdge(ctx, edge); err != nil {
		return depgraph.DependencyEdge{}, err
	}
	created, err := s.store.CreateEdge(ctx, edge)
	if err != nil {
		return depgraph.DependencyEdge{}, err
	}
	return created, nil
}

// RemoveDependency soft-deletes an edge, keeping the record for audit
// history.
func (s *Service) RemoveDependency(ctx context.Context, edgeID string) error {
	return s.store.DeactivateEdge(ctx, edgeID)
}

// Chain returns the bounded-depth dependency or dependent chain of a
// registered document.
func (s *Service) Chain(ctx context.Context, id string, direction depgraph.ChainDirection, maxDepth int) ([]depgraph.ChainEntry, error) {
	if _, err := s.Document(ctx, id); err != nil {
		return nil, err
	}
	return s.engine.Chain(ctx, id, direction, maxDepth)
}

// CheckObsolescence decides whether the whole version family of the
// given document may be retired.
func (s *Service) CheckObsolescence(ctx context.Context, id string) (depgraph.ObsolescenceDecision, error) {
	doc, err := s.Document(ctx, id)
	if err != nil {
		return depgraph.ObsolescenceDecision{}, err
	}
	family, err := s.store.FamilyMembers(ctx, depgraph.FamilyKeyOf(doc.ID))
	if err != nil {
		return depgraph.ObsolescenceDecision{}, err
	}
	target := depgraph.FamilyMember{
		DocumentID: doc.ID,
		Major:      doc.Major,
		Minor:      doc.Minor,
		Status:     doc.Status,
	}
	return s.engine.CanObsolete(ctx, target, family)
}

// ScanCycles runs the corpus integrity scan.
func (s *Service) ScanCycles(ctx context.Context) ([][]depgraph.FamilyKey, error) {
	return s.engine.FindCycles(ctx)
}

// Ready reports whether the backing store accepts transactions.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}
