package util

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
)

// FixtureKey is the storage key of a single golden artifact.
func FixtureKey(ns, name string) string {
	return "fixture:" + ns + ":" + name
}

// BundleKey returns a deterministic key for a set of fixture names: sorted
// members joined and hashed, truncated to 16 hex chars. The order of names
// does not matter and duplicates are collapsed.
func BundleKey(ns string, names []string) string {
	s := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		s = append(s, n)
	}
	sort.Strings(s)
	sum := sha256.Sum256([]byte(strings.Join(s, ",")))
	prefix := "bundle:" + ns
	return fmt.Sprintf("%s:%x", prefix, sum)[:len(prefix)+1+16]
}

// ManifestKey is the storage key of the manifest written in format.
func ManifestKey(ns, format string) string {
	return "manifest:" + ns + ":" + format
}
