// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fifo provides a fixed-capacity retention ring with strict
// insertion-order eviction.
package fifo

import "sync"

// Cache is a thread-safe bounded ring. Entries are anonymous: there are no
// keys, no reads, and no deduplication. Offering while full overwrites the
// oldest slot, which is the only way the ring ever drops a reference short
// of Flush.
type Cache[V any] struct {
	mu      sync.Mutex
	slots   []V
	head    int // index of the oldest entry
	size    int
	onEvict func(V)
}

// New creates a ring with the specified capacity.
func New[V any](capacity int) *Cache[V] {
	return NewWithOnEvict[V](capacity, nil)
}

// NewWithOnEvict creates a ring that calls onEvict with each entry it
// drops to make room.
func NewWithOnEvict[V any](capacity int, onEvict func(V)) *Cache[V] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache[V]{
		slots:   make([]V, capacity),
		onEvict: onEvict,
	}
}

// Offer appends v. When the ring is full the oldest entry is overwritten,
// dropping its strong reference.
func (c *Cache[V]) Offer(v V) {
	c.mu.Lock()
	var victim V
	evicted := false
	if c.size == len(c.slots) {
		victim = c.slots[c.head]
		evicted = true
		c.slots[c.head] = v
		c.head = (c.head + 1) % len(c.slots)
	} else {
		c.slots[(c.head+c.size)%len(c.slots)] = v
		c.size++
	}
	c.mu.Unlock()

	if evicted && c.onEvict != nil {
		c.onEvict(victim)
	}
}

// Len returns the number of retained entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// PortionFilled returns fraction of the ring currently filled (0 --> 1).
func (c *Cache[V]) PortionFilled() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(c.size) / float64(len(c.slots))
}

// Flush drops every retained entry. The eviction callback does not fire.
func (c *Cache[V]) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	for i := range c.slots {
		c.slots[i] = zero
	}
	c.head = 0
	c.size = 0
}
