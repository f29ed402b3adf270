// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package projectcache

// fallbackStore strongly retains artifacts offered by owners that do not
// implement Holder. Entries are keyed by (key, owner identity) and hold a
// set of artifacts; identity of the artifact value is the set membership,
// so re-offering the same artifact is a no-op and distinct artifacts
// accumulate. Nothing is evicted individually: the whole key is dropped
// when its scope disables.
//
// Not self-locking. The Service guards it with the same mutex as the scope
// counts, since the disable transition clears both together.
type fallbackStore[K comparable, V comparable] struct {
	entries map[K]map[any]map[V]struct{}
}

func newFallbackStore[K comparable, V comparable]() *fallbackStore[K, V] {
	return &fallbackStore[K, V]{
		entries: make(map[K]map[any]map[V]struct{}),
	}
}

// insert retains artifact under (key, ident) and reports whether it was not
// already present.
func (f *fallbackStore[K, V]) insert(key K, ident any, artifact V) bool {
	owners, ok := f.entries[key]
	if !ok {
		owners = make(map[any]map[V]struct{})
		f.entries[key] = owners
	}
	set, ok := owners[ident]
	if !ok {
		set = make(map[V]struct{})
		owners[ident] = set
	}
	if _, ok := set[artifact]; ok {
		return false
	}
	set[artifact] = struct{}{}
	return true
}

// dropKey releases every artifact retained under key, across all owner
// identities, and returns how many strong references were dropped.
func (f *fallbackStore[K, V]) dropKey(key K) int {
	released := 0
	for _, set := range f.entries[key] {
		released += len(set)
	}
	delete(f.entries, key)
	return released
}

// size returns the total number of retained artifacts.
func (f *fallbackStore[K, V]) size() int {
	n := 0
	for _, owners := range f.entries {
		for _, set := range owners {
			n += len(set)
		}
	}
	return n
}
