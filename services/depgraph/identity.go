// Copyright (C) 2026 Meridian DMS (engineering@meridiandms.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package depgraph

import (
	"strconv"
	"strings"
)

// versionMarker separates a base identifier from its version suffix.
// "POL-2025-0001-v02.00" -> base "POL-2025-0001", version "02.00".
const versionMarker = "-v"

// FamilyKey is the version-independent identifier shared by every version
// of one document. It is derived once at ingestion and carried as a typed
// string so call sites cannot accidentally mix raw identifiers and keys.
type FamilyKey string

// FamilyKeyOf resolves a document identifier to its family key.
//
// The key is the substring before the FIRST occurrence of the literal
// "-v" marker. Identifiers without the marker are their own family key,
// unchanged. This is the single canonical parser; nothing else in the
// codebase may split identifiers ad hoc.
func FamilyKeyOf(id string) FamilyKey {
	if i := strings.Index(id, versionMarker); i >= 0 {
		return FamilyKey(id[:i])
	}
	return FamilyKey(id)
}

// SameFamily reports whether two identifiers name versions of the same
// document.
func SameFamily(a, b string) bool {
	return FamilyKeyOf(a) == FamilyKeyOf(b)
}

// ParseVersion extracts the major and minor version from an identifier.
//
// The expected suffix shape is "-v<MAJOR>.<MINOR>" with decimal numbers,
// e.g. "-v02.00". Identifiers without a parseable suffix return
// (0, 0, false) and are treated as version-unknown by callers; the
// identifier itself passes through the engine unchanged either way.
func ParseVersion(id string) (major, minor int, ok bool) {
	i := strings.Index(id, versionMarker)
	if i < 0 {
		return 0, 0, false
	}
	suffix := id[i+len(versionMarker):]
	majStr, minStr, found := strings.Cut(suffix, ".")
	if !found {
		return 0, 0, false
	}
	major, err := strconv.Atoi(majStr)
	if err != nil || major < 0 {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(minStr)
	if err != nil || minor < 0 {
		return 0, 0, false
	}
	return major, minor, true
}

// VersionNewer reports whether version (aMaj, aMin) is strictly newer
// than (bMaj, bMin).
func VersionNewer(aMaj, aMin, bMaj, bMin int) bool {
	if aMaj != bMaj {
		return aMaj > bMaj
	}
	return aMin > bMin
}
