// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package projectcache

import "sync/atomic"

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	// Monotonic counters.
	Offers            uint64
	HeldOffers        uint64
	FallbackInserts   uint64
	FallbackHits      uint64
	ImplicitAccepts   uint64
	RejectedDisabled  uint64
	RejectedLive      uint64
	RejectedLiveQuery uint64

	// Current occupancy.
	EnabledKeys       int
	FallbackArtifacts int
	ImplicitLen       int
}

// counters are the service's internal tallies, mutated with atomics so the
// hot paths never take an extra lock for accounting.
type counters struct {
	offers            uint64
	heldOffers        uint64
	fallbackInserts   uint64
	fallbackHits      uint64
	implicitAccepts   uint64
	rejectedDisabled  uint64
	rejectedLive      uint64
	rejectedLiveQuery uint64
}

// UpdateStats populates the provided stats struct.
func (s *Service[K, V]) UpdateStats(st *Stats) {
	if st == nil {
		return
	}
	st.Offers = atomic.LoadUint64(&s.counters.offers)
	st.HeldOffers = atomic.LoadUint64(&s.counters.heldOffers)
	st.FallbackInserts = atomic.LoadUint64(&s.counters.fallbackInserts)
	st.FallbackHits = atomic.LoadUint64(&s.counters.fallbackHits)
	st.ImplicitAccepts = atomic.LoadUint64(&s.counters.implicitAccepts)
	st.RejectedDisabled = atomic.LoadUint64(&s.counters.rejectedDisabled)
	st.RejectedLive = atomic.LoadUint64(&s.counters.rejectedLive)
	st.RejectedLiveQuery = atomic.LoadUint64(&s.counters.rejectedLiveQuery)

	s.mu.Lock()
	st.EnabledKeys = len(s.counts)
	st.FallbackArtifacts = s.fallback.size()
	s.mu.Unlock()

	st.ImplicitLen = 0
	if s.implicit != nil {
		st.ImplicitLen = s.implicit.Len()
	}
}
