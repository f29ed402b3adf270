// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package projectcache retains large, expensive-to-recompute artifacts
// (compiled program representations and the like) in memory only while a
// real owner needs them.
//
// Retention is expressed entirely through the reference graph. The cache
// either holds a strong reference to an artifact or it does not; nothing
// here pins an artifact once its legitimate owner is gone. Three retention
// paths exist:
//
//   - Owners implementing Holder retain one artifact through their own slot.
//     The cache writes the slot and holds nothing itself, so the artifact
//     lives and dies with the owner.
//
//   - Opaque owners get a per-key fallback store. Every distinct artifact
//     offered while caching is enabled for the key stays strongly held, and
//     the whole store for the key is dropped in bulk when the key's last
//     scope is released.
//
//   - Ownerless offers go to a bounded FIFO ring, gated by the host's live
//     project set so that artifacts already lifetime-tracked elsewhere are
//     not double-counted here.
//
// Caching is enabled per key by Service.EnableCaching and disabled by
// releasing the returned Scope. One Service instance is expected per host
// session.
package projectcache

// Holder is implemented by owners able to retain one cached artifact
// directly. The slot holds at most one artifact and is overwritten on each
// new offer; as long as the holder itself is reachable, so is the artifact.
type Holder[V comparable] interface {
	// CachedArtifact returns the artifact currently occupying the slot.
	CachedArtifact() V

	// SetCachedArtifact overwrites the slot, releasing whatever artifact
	// previously occupied it.
	SetCachedArtifact(artifact V)
}

// LiveSetProvider answers whether a key currently identifies a unit whose
// artifacts are already lifetime-tracked by the host. Implementations must
// be fast, non-blocking, and side-effect free.
type LiveSetProvider[K comparable] interface {
	IsKeyLive(key K) (bool, error)
}

// Ring is a bounded anonymous retention queue. Offers beyond capacity drop
// the strong reference to the oldest entry, strict FIFO.
type Ring[V any] interface {
	// Offer appends an artifact, evicting the oldest entry when full.
	Offer(artifact V)

	// Len returns the number of retained artifacts.
	Len() int

	// PortionFilled returns fraction of the ring currently filled (0 --> 1).
	PortionFilled() float64

	// Flush drops every retained artifact.
	Flush()
}
