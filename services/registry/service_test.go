// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeridianDMS/MeridianCore/services/depgraph"
	"github.com/MeridianDMS/MeridianCore/services/depgraph/badgerstore"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := badgerstore.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	svc, err := NewService(store, nil)
	require.NoError(t, err)
	return svc
}

func registerDoc(t *testing.T, svc *Service, id string, status depgraph.DocumentStatus) {
	t.Helper()
	_, err := svc.RegisterDocument(context.Background(), badgerstore.Document{
		ID:     id,
		Title:  "test " + id,
		Status: status,
	})
	require.NoError(t, err)
}

func TestRegisterDocument_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.RegisterDocument(context.Background(), badgerstore.Document{
		ID: "POL-1-v01.00",
	})
	assert.ErrorIs(t, err, depgraph.ErrUnknownStatus)
}

func TestDocument_UnknownMapsToSentinel(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Document(context.Background(), "POL-missing-v01.00")
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestCreateDependency_RequiresBothEndpoints(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "POL-1-v01.00", depgraph.StatusEffective)

	_, err := svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document:  "POL-1-v01.00",
		DependsOn: "SOP-9-v01.00",
		Type:      depgraph.TypeReference,
	})
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestCreateDependency_FullWritePath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "POL-1-v01.00", depgraph.StatusEffective)
	registerDoc(t, svc, "SOP-2-v01.00", depgraph.StatusEffective)

	created, err := svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document:   "POL-1-v01.00",
		DependsOn:  "SOP-2-v01.00",
		Type:       depgraph.TypeImplements,
		IsCritical: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)

	// The reverse edge would close a family cycle.
	_, err = svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document:  "SOP-2-v01.00",
		DependsOn: "POL-1-v01.00",
		Type:      depgraph.TypeReference,
	})
	assert.ErrorIs(t, err, depgraph.ErrCycleDetected)
}

func TestCreateDependency_SameFamilyRejected(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "POL-1-v01.00", depgraph.StatusSuperseded)
	registerDoc(t, svc, "POL-1-v02.00", depgraph.StatusEffective)

	_, err := svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document:  "POL-1-v02.00",
		DependsOn: "POL-1-v01.00",
		Type:      depgraph.TypeSupersedes,
	})
	assert.ErrorIs(t, err, depgraph.ErrSameFamily)
}

func TestRemoveDependency_FreesReverseDirection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "POL-1-v01.00", depgraph.StatusEffective)
	registerDoc(t, svc, "SOP-2-v01.00", depgraph.StatusEffective)

	created, err := svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document:  "POL-1-v01.00",
		DependsOn: "SOP-2-v01.00",
		Type:      depgraph.TypeReference,
	})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveDependency(ctx, created.ID))

	// With the forward edge inactive the reverse direction is legal.
	_, err = svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document:  "SOP-2-v01.00",
		DependsOn: "POL-1-v01.00",
		Type:      depgraph.TypeReference,
	})
	assert.NoError(t, err)
}

func TestConcurrentReversalsAdmitExactlyOne(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "POL-1-v01.00", depgraph.StatusEffective)
	registerDoc(t, svc, "SOP-2-v01.00", depgraph.StatusEffective)

	forward := depgraph.DependencyEdge{
		Document:  "POL-1-v01.00",
		DependsOn: "SOP-2-v01.00",
		Type:      depgraph.TypeReference,
	}
	reverse := depgraph.DependencyEdge{
		Document:  "SOP-2-v01.00",
		DependsOn: "POL-1-v01.00",
		Type:      depgraph.TypeReference,
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = svc.CreateDependency(ctx, forward)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = svc.CreateDependency(ctx, reverse)
	}()
	wg.Wait()

	// The pair lock serializes the two writers: whichever commits first
	// wins, the other must see the cycle.
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, depgraph.ErrCycleDetected)
		}
	}
	assert.Equal(t, 1, succeeded)
}

func TestChain_RequiresRegisteredStart(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Chain(context.Background(), "POL-missing-v01.00", depgraph.DirectionDependencies, 5)
	assert.ErrorIs(t, err, ErrUnknownDocument)
}

func TestChain_WalksStoredEdges(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "POL-1-v01.00", depgraph.StatusEffective)
	registerDoc(t, svc, "SOP-2-v01.00", depgraph.StatusEffective)
	registerDoc(t, svc, "WI-3-v01.00", depgraph.StatusEffective)

	_, err := svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document: "POL-1-v01.00", DependsOn: "SOP-2-v01.00", Type: depgraph.TypeReference,
	})
	require.NoError(t, err)
	_, err = svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document: "SOP-2-v01.00", DependsOn: "WI-3-v01.00", Type: depgraph.TypeReference,
	})
	require.NoError(t, err)

	entries, err := svc.Chain(ctx, "POL-1-v01.00", depgraph.DirectionDependencies, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "SOP-2-v01.00", entries[0].DocumentID)
	assert.Equal(t, "WI-3-v01.00", entries[1].DocumentID)
	assert.Equal(t, 2, entries[1].Depth)
}

func TestCheckObsolescence_BlockedByLiveDependent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "SOP-2-v01.00", depgraph.StatusEffective)
	registerDoc(t, svc, "POL-1-v01.00", depgraph.StatusEffective)

	_, err := svc.CreateDependency(ctx, depgraph.DependencyEdge{
		Document: "POL-1-v01.00", DependsOn: "SOP-2-v01.00", Type: depgraph.TypeImplements,
	})
	require.NoError(t, err)

	decision, err := svc.CheckObsolescence(ctx, "SOP-2-v01.00")
	require.NoError(t, err)
	assert.False(t, decision.CanObsolete)
	require.Len(t, decision.Blocking, 1)
	assert.Equal(t, "SOP-2-v01.00", decision.Blocking[0].DocumentID)
	require.Len(t, decision.Blocking[0].Dependents, 1)
	assert.Equal(t, "POL-1-v01.00", decision.Blocking[0].Dependents[0].DocumentID)
}

func TestCheckObsolescence_NewerVersionGuard(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "SOP-2-v01.00", depgraph.StatusEffective)
	registerDoc(t, svc, "SOP-2-v02.00", depgraph.StatusDraft)

	decision, err := svc.CheckObsolescence(ctx, "SOP-2-v01.00")
	require.NoError(t, err)
	assert.False(t, decision.CanObsolete)
	assert.Equal(t, "SOP-2-v02.00", decision.NewerVersion)
}

func TestCheckObsolescence_AllowedWhenUnencumbered(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registerDoc(t, svc, "SOP-2-v01.00", depgraph.StatusEffective)

	decision, err := svc.CheckObsolescence(ctx, "SOP-2-v01.00")
	require.NoError(t, err)
	assert.True(t, decision.CanObsolete)
	assert.Empty(t, decision.Blocking)
}

func TestScanCycles_CleanCorpus(t *testing.T) {
	svc := newTestService(t)

	cycles, err := svc.ScanCycles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cycles)
}
