// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/MeridianDMS/MeridianCore/services/depgraph"
)

// Key prefixes for the record namespaces.
const (
	docPrefix  = "doc/"
	edgePrefix = "edge/"
)

// Sentinel errors for store operations.
var (
	// ErrDocumentNotFound is returned when no record exists for an
	// identifier.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrEdgeNotFound is returned when no edge record exists for an ID.
	ErrEdgeNotFound = errors.New("dependency edge not found")

	// ErrDuplicateEdge is returned when an active edge with the same
	// (document, depends_on, type) already exists.
	ErrDuplicateEdge = errors.New("active dependency edge already exists")

	// ErrEdgeInactive is returned when deactivating an edge that is
	// already soft-deleted.
	ErrEdgeInactive = errors.New("dependency edge is already inactive")
)

// Document is one persisted document version record.
type Document struct {
	// ID is the full versioned identifier, e.g. "POL-2025-0001-v02.00".
	ID string `json:"id"`

	// Title is the human-readable document title.
	Title string `json:"title"`

	// Status is the lifecycle state.
	Status depgraph.DocumentStatus `json:"status"`

	// Major and Minor are parsed from the identifier at ingestion.
	Major int `json:"version_major"`
	Minor int `json:"version_minor"`

	// CreatedAt and UpdatedAt are record timestamps.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the Badger-backed document and edge repository.
//
// # Thread Safety
//
// Safe for concurrent use; BadgerDB transactions provide snapshot
// isolation and the uniqueness check runs inside the write transaction.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open creates a Store over a database opened with the given
// configuration. Callers must Close the store when done.
func Open(cfg Config) (*Store, error) {
	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger.With(slog.String("component", "badgerstore"))}, nil
}

// OpenInMemory opens a throwaway in-memory store for tests.
func OpenInMemory() (*Store, error) {
	return Open(InMemoryConfig())
}

// DB exposes the underlying database for GC wiring.
func (s *Store) DB() *badger.DB {
	return s.db
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database accepts transactions. Used by readiness
// probes; it opens and closes an empty read transaction and does no
// scanning.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// docKey builds the record key for a document identifier.
func docKey(id string) []byte {
	return []byte(docPrefix + id)
}

// edgeKey builds the record key for an edge record ID.
func edgeKey(id string) []byte {
	return []byte(edgePrefix + id)
}

// PutDocument inserts or updates a document version record. The
// version numbers are parsed from the identifier when the caller left
// them zero; CreatedAt is preserved across updates.
func (s *Store) PutDocument(ctx context.Context, doc Document) (Document, error) {
	if doc.ID == "" {
		return Document{}, depgraph.ErrEmptyIdentity
	}
	if doc.Major == 0 && doc.Minor == 0 {
		if major, minor, ok := depgraph.ParseVersion(doc.ID); ok {
			doc.Major, doc.Minor = major, minor
		}
	}

	now := time.Now().UTC()
	doc.UpdatedAt = now

	err := s.db.Update(func(txn *badger.Txn) error {
		if prev, err := getDocument(txn, doc.ID); err == nil {
			doc.CreatedAt = prev.CreatedAt
		} else if errors.Is(err, ErrDocumentNotFound) {
			doc.CreatedAt = now
		} else {
			return err
		}
		value, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal document %s: %w", doc.ID, err)
		}
		return txn.Set(docKey(doc.ID), value)
	})
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// GetDocument loads one document version record.
func (s *Store) GetDocument(ctx context.Context, id string) (Document, error) {
	var doc Document
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = getDocument(txn, id)
		return err
	})
	return doc, err
}

// getDocument reads a document inside an open transaction.
func getDocument(txn *badger.Txn, id string) (Document, error) {
	item, err := txn.Get(docKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Document{}, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if err != nil {
		return Document{}, err
	}
	var doc Document
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	}); err != nil {
		return Document{}, fmt.Errorf("unmarshal document %s: %w", id, err)
	}
	return doc, nil
}

// FamilyMembers returns every stored version of a family, newest first,
// in the shape the depgraph obsolescence validator consumes.
func (s *Store) FamilyMembers(ctx context.Context, family depgraph.FamilyKey) ([]depgraph.FamilyMember, error) {
	var members []depgraph.FamilyMember
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(docPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var doc Document
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			}); err != nil {
				return fmt.Errorf("unmarshal document record: %w", err)
			}
			if depgraph.FamilyKeyOf(doc.ID) != family {
				continue
			}
			members = append(members, depgraph.FamilyMember{
				DocumentID: doc.ID,
				Major:      doc.Major,
				Minor:      doc.Minor,
				Status:     doc.Status,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(members, func(a, b int) bool {
		return depgraph.VersionNewer(members[a].Major, members[a].Minor,
			members[b].Major, members[b].Minor)
	})
	return members, nil
}

// DocumentStatus implements depgraph.StatusResolver.
func (s *Store) DocumentStatus(ctx context.Context, id string) (depgraph.DocumentStatus, bool, error) {
	doc, err := s.GetDocument(ctx, id)
	if errors.Is(err, ErrDocumentNotFound) {
		return depgraph.StatusUnknown, false, nil
	}
	if err != nil {
		return depgraph.StatusUnknown, false, err
	}
	return doc.Status, true, nil
}

// CreateEdge persists an approved candidate edge. The record gets a
// fresh UUID and is_active=true; uniqueness on (document, depends_on,
// type) among active edges is checked inside the write transaction so
// concurrent duplicates cannot both land.
func (s *Store) CreateEdge(ctx context.Context, edge depgraph.DependencyEdge) (depgraph.DependencyEdge, error) {
	if err := depgraph.ValidateEdge(edge); err != nil {
		return depgraph.DependencyEdge{}, err
	}

	edge.ID = uuid.NewString()
	edge.IsActive = true

	err := s.db.Update(func(txn *badger.Txn) error {
		dup, err := hasActiveDuplicate(txn, edge)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: %s -> %s (%s)",
				ErrDuplicateEdge, edge.Document, edge.DependsOn, edge.Type)
		}
		value, err := json.Marshal(edge)
		if err != nil {
			return fmt.Errorf("marshal edge: %w", err)
		}
		return txn.Set(edgeKey(edge.ID), value)
	})
	if err != nil {
		return depgraph.DependencyEdge{}, err
	}

	s.logger.Info("Dependency edge created",
		slog.String("edge_id", edge.ID),
		slog.String("document", edge.Document),
		slog.String("depends_on", edge.DependsOn),
		slog.String("type", edge.Type.String()))
	return edge, nil
}

// hasActiveDuplicate scans active edges for the candidate's uniqueness
// triple inside an open transaction.
func hasActiveDuplicate(txn *badger.Txn, edge depgraph.DependencyEdge) (bool, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(edgePrefix)
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		var existing depgraph.DependencyEdge
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &existing)
		}); err != nil {
			return false, fmt.Errorf("unmarshal edge record: %w", err)
		}
		if !existing.IsActive {
			continue
		}
		if existing.Document == edge.Document &&
			existing.DependsOn == edge.DependsOn &&
			existing.Type == edge.Type {
			return true, nil
		}
	}
	return false, nil
}

// GetEdge loads one edge record, active or not.
func (s *Store) GetEdge(ctx context.Context, id string) (depgraph.DependencyEdge, error) {
	var edge depgraph.DependencyEdge
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(edgeKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &edge)
		})
	})
	return edge, err
}

// DeactivateEdge soft-deletes an edge. The record stays in place with
// is_active=false to preserve audit history.
func (s *Store) DeactivateEdge(ctx context.Context, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(edgeKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", ErrEdgeNotFound, id)
		}
		if err != nil {
			return err
		}
		var edge depgraph.DependencyEdge
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &edge)
		}); err != nil {
			return fmt.Errorf("unmarshal edge %s: %w", id, err)
		}
		if !edge.IsActive {
			return fmt.Errorf("%w: %s", ErrEdgeInactive, id)
		}
		edge.IsActive = false
		value, err := json.Marshal(edge)
		if err != nil {
			return fmt.Errorf("marshal edge %s: %w", id, err)
		}
		return txn.Set(edgeKey(id), value)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Dependency edge deactivated", slog.String("edge_id", id))
	return nil
}

// ActiveEdges implements depgraph.EdgeStore: one snapshot of every
// active edge, optionally excluding one record ID.
func (s *Store) ActiveEdges(ctx context.Context, excludeID string) ([]depgraph.DependencyEdge, error) {
	var edges []depgraph.DependencyEdge
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(edgePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var edge depgraph.DependencyEdge
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &edge)
			}); err != nil {
				return fmt.Errorf("unmarshal edge record: %w", err)
			}
			if !edge.IsActive {
				continue
			}
			if excludeID != "" && edge.ID == excludeID {
				continue
			}
			edges = append(edges, edge)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return edges, nil
}

// interface conformance
var (
	_ depgraph.EdgeStore      = (*Store)(nil)
	_ depgraph.StatusResolver = (*Store)(nil)
)
