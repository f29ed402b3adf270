// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package projectcache

// Scope is a disposable handle to one enablement of caching for a key.
// Enablement is re-entrant: each EnableCaching call returns its own Scope,
// and the key stays enabled until every Scope for it has been released.
type Scope[K comparable, V comparable] struct {
	svc      *Service[K, V]
	key      K
	released bool // guarded by svc.mu
}

// Release decrements the key's active count. When the count reaches zero
// the key's fallback store is dropped, releasing its strong references.
// Holder slots are never touched: their lifetime is the owner's, not the
// scope's. Releasing an already released Scope is a no-op.
func (s *Scope[K, V]) Release() {
	svc := s.svc

	svc.mu.Lock()
	if s.released {
		svc.mu.Unlock()
		return
	}
	s.released = true

	n := svc.counts[s.key]
	if n == 0 {
		// Count already at zero; nothing to unwind.
		svc.mu.Unlock()
		return
	}
	n--
	if n > 0 {
		svc.counts[s.key] = n
		svc.mu.Unlock()
		return
	}
	delete(svc.counts, s.key)
	dropped := svc.fallback.dropKey(s.key)
	svc.mu.Unlock()

	svc.log.Debug("caching disabled", "key", s.key, "artifactsReleased", dropped)
}
