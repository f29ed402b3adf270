// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package meterring

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

type ringMetrics struct {
	offerCount    prometheus.Counter
	offerTime     prometheus.Counter
	len           prometheus.Gauge
	portionFilled prometheus.Gauge
}

func newMetrics(namespace string, registry prometheus.Registerer) (*ringMetrics, error) {
	m := &ringMetrics{
		offerCount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_count",
			Help:      "number of artifacts offered to the ring",
		}),
		offerTime: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_time",
			Help:      "cumulative seconds spent inserting artifacts",
		}),
		len: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "len",
			Help:      "number of artifacts currently retained",
		}),
		portionFilled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "portion_filled",
			Help:      "fraction of the ring currently filled",
		}),
	}
	err := errors.Join(
		registry.Register(m.offerCount),
		registry.Register(m.offerTime),
		registry.Register(m.len),
		registry.Register(m.portionFilled),
	)
	return m, err
}
