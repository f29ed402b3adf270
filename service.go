// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package projectcache

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/luxfi/projectcache/fifo"
)

// DefaultImplicitCapacity is the implicit ring capacity used when the
// Config does not specify one.
const DefaultImplicitCapacity = 4

var _ Ring[struct{}] = (*fifo.Cache[struct{}])(nil)

// Config configures a Service. The zero value is a service with no implicit
// cache, no live-set gating, and discarded logs.
type Config[K comparable, V comparable] struct {
	// EnableImplicitCache turns on the bounded anonymous retention ring for
	// ownerless offers.
	EnableImplicitCache bool

	// ImplicitCapacity bounds the implicit ring. Zero or negative means
	// DefaultImplicitCapacity. Ignored when EnableImplicitCache is false.
	ImplicitCapacity int

	// LiveSet, when set, gates every implicit offer: live keys are already
	// lifetime-tracked by the host and are rejected here. Nil means every
	// implicit offer is accepted.
	LiveSet LiveSetProvider[K]

	// Ring overrides the implicit ring implementation, e.g. with a metered
	// ring. Nil means a fifo.Cache of ImplicitCapacity. Ignored when
	// EnableImplicitCache is false.
	Ring Ring[V]

	// Logger receives debug-level routing events and warnings from the
	// live-set gate. Nil discards. Artifact values are never logged.
	Logger *slog.Logger
}

// Service routes artifact offers to the retention path their owner shape
// calls for. One explicit instance per host session; safe for concurrent
// use.
type Service[K comparable, V comparable] struct {
	log *slog.Logger

	// mu guards counts and fallback together: the enabled->disabled
	// transition reads one and clears the other atomically.
	mu       sync.Mutex
	counts   map[K]int
	fallback *fallbackStore[K, V]

	implicit Ring[V] // nil when implicit caching is disabled
	liveSet  LiveSetProvider[K]

	counters counters
}

// New creates a Service from cfg.
func New[K comparable, V comparable](cfg Config[K, V]) *Service[K, V] {
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var ring Ring[V]
	if cfg.EnableImplicitCache {
		ring = cfg.Ring
		if ring == nil {
			capacity := cfg.ImplicitCapacity
			if capacity <= 0 {
				capacity = DefaultImplicitCapacity
			}
			ring = fifo.New[V](capacity)
		}
	}

	return &Service[K, V]{
		log:      log,
		counts:   make(map[K]int),
		fallback: newFallbackStore[K, V](),
		implicit: ring,
		liveSet:  cfg.LiveSet,
	}
}

// EnableCaching enables caching for key and returns the Scope that undoes
// it. Calls nest: a key is disabled only once every Scope for it has been
// released.
func (s *Service[K, V]) EnableCaching(key K) *Scope[K, V] {
	s.mu.Lock()
	s.counts[key]++
	depth := s.counts[key]
	s.mu.Unlock()

	s.log.Debug("caching enabled", "key", key, "depth", depth)
	return &Scope[K, V]{svc: s, key: key}
}

// CachingEnabled reports whether caching is currently enabled for key.
func (s *Service[K, V]) CachingEnabled(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[key] > 0
}

// CacheIfEnabled offers an artifact for retention. It is fire and forget:
// no error ever reaches the caller, and a rejected offer simply leaves the
// artifact without a strong reference from the cache.
//
// Routing: owners with a Holder slot get the slot written if key's scope is
// enabled; opaque owners go to the fallback store if the scope is enabled;
// ownerless offers go to the implicit ring regardless of scope state,
// subject to the live-set gate.
func (s *Service[K, V]) CacheIfEnabled(key K, owner Owner[V], artifact V) {
	atomic.AddUint64(&s.counters.offers, 1)

	switch {
	case owner.holder != nil:
		if !s.CachingEnabled(key) {
			atomic.AddUint64(&s.counters.rejectedDisabled, 1)
			return
		}
		// The slot is caller code; write it outside the service lock.
		owner.holder.SetCachedArtifact(artifact)
		atomic.AddUint64(&s.counters.heldOffers, 1)
		s.log.Debug("artifact cached in owner slot", "key", key)

	case owner.ident != nil:
		s.mu.Lock()
		if s.counts[key] == 0 {
			s.mu.Unlock()
			atomic.AddUint64(&s.counters.rejectedDisabled, 1)
			return
		}
		added := s.fallback.insert(key, owner.ident, artifact)
		s.mu.Unlock()

		if added {
			atomic.AddUint64(&s.counters.fallbackInserts, 1)
			s.log.Debug("artifact retained in fallback store", "key", key)
		} else {
			atomic.AddUint64(&s.counters.fallbackHits, 1)
		}

	default:
		s.offerImplicit(key, artifact)
	}
}

// offerImplicit runs the ownerless path: live-set gate, then ring insert.
// A failing gate query is inconclusive and fails safe by rejecting.
func (s *Service[K, V]) offerImplicit(key K, artifact V) {
	if s.implicit == nil {
		atomic.AddUint64(&s.counters.rejectedDisabled, 1)
		return
	}
	if s.liveSet != nil {
		live, err := s.liveSet.IsKeyLive(key)
		if err != nil {
			atomic.AddUint64(&s.counters.rejectedLiveQuery, 1)
			s.log.Warn("live set query failed, dropping implicit offer",
				"key", key, "err", err)
			return
		}
		if live {
			atomic.AddUint64(&s.counters.rejectedLive, 1)
			s.log.Debug("key is host tracked, dropping implicit offer", "key", key)
			return
		}
	}
	s.implicit.Offer(artifact)
	atomic.AddUint64(&s.counters.implicitAccepts, 1)
}
