// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package projectcache

// Owner identifies who an artifact is cached on behalf of, and therefore
// which retention path an offer takes. It is a three-way union: a Holder
// capability, an opaque identity, or nothing at all. The caller resolves the
// shape up front instead of the service introspecting the owner at runtime.
type Owner[V comparable] struct {
	holder Holder[V]
	ident  any
}

// HeldBy returns an Owner that retains artifacts through h's slot.
func HeldBy[V comparable](h Holder[V]) Owner[V] {
	return Owner[V]{holder: h}
}

// OwnedBy returns an Owner identified by ident, retained through the
// per-key fallback store. ident must be a valid map key.
func OwnedBy[V comparable](ident any) Owner[V] {
	return Owner[V]{ident: ident}
}

// NoOwner returns the ownerless Owner. The zero value is equivalent.
func NoOwner[V comparable]() Owner[V] {
	return Owner[V]{}
}
