// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/MeridianDMS/MeridianCore/services/depgraph"
)

// pairLocks serializes validate-and-commit per family-key pair.
//
// Two concurrent inserts can each pass cycle validation against a stale
// snapshot and together close a cycle neither alone would have created.
// Holding the pair lock across "re-read snapshot, validate, commit"
// makes the two steps one atomic unit for the families involved.
//
// Entries are reference counted and removed when unused, so the map
// stays proportional to in-flight writes, not to corpus size.
type pairLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newPairLocks() *pairLocks {
	return &pairLocks{entries: make(map[string]*lockEntry)}
}

// pairKey builds an order-independent key for two family keys.
func pairKey(a, b depgraph.FamilyKey) string {
	keys := []string{string(a), string(b)}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// lock acquires the lock for a family-key pair and returns the matching
// unlock function.
func (p *pairLocks) lock(a, b depgraph.FamilyKey) func() {
	key := pairKey(a, b)

	p.mu.Lock()
	entry, ok := p.entries[key]
	if !ok {
		entry = &lockEntry{}
		p.entries[key] = entry
	}
	entry.refs++
	p.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		p.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(p.entries, key)
		}
		p.mu.Unlock()
	}
}
