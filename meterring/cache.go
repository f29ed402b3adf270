// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package meterring provides a metered retention ring.
package meterring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/projectcache"
)

var _ projectcache.Ring[struct{}] = (*Cache[struct{}])(nil)

// Cache wraps a Ring with metrics.
type Cache[V any] struct {
	projectcache.Ring[V]
	metrics *ringMetrics
}

// New creates a new metered ring wrapper.
func New[V any](
	namespace string,
	registry prometheus.Registerer,
	r projectcache.Ring[V],
) (*Cache[V], error) {
	metrics, err := newMetrics(namespace, registry)
	return &Cache[V]{
		Ring:    r,
		metrics: metrics,
	}, err
}

func (c *Cache[V]) Offer(artifact V) {
	start := time.Now()
	c.Ring.Offer(artifact)
	offerDuration := time.Since(start)

	c.metrics.offerCount.Inc()
	c.metrics.offerTime.Add(offerDuration.Seconds())
	c.metrics.len.Set(float64(c.Ring.Len()))
	c.metrics.portionFilled.Set(c.Ring.PortionFilled())
}

func (c *Cache[_]) Flush() {
	c.Ring.Flush()
	c.metrics.len.Set(float64(c.Ring.Len()))
	c.metrics.portionFilled.Set(c.Ring.PortionFilled())
}
