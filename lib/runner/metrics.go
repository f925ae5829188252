// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	ticks       prometheus.Counter
	batches     prometheus.Counter
	completions prometheus.Counter
	minute      prometheus.Gauge
}

// newMetrics builds the runner's collectors and registers them on
// registerer when it is non-nil.
func newMetrics(registerer prometheus.Registerer) *metrics {
	factory := promauto.With(registerer)
	return &metrics{
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Name: "simclock_ticks_total",
			Help: "Number of virtual minutes advanced",
		}),
		batches: factory.NewCounter(prometheus.CounterOpts{
			Name: "simclock_batches_total",
			Help: "Number of batches run",
		}),
		completions: factory.NewCounter(prometheus.CounterOpts{
			Name: "simclock_completions_total",
			Help: "Number of runs that reached the completion day",
		}),
		minute: factory.NewGauge(prometheus.GaugeOpts{
			Name: "simclock_virtual_minute",
			Help: "Absolute virtual minute after the last batch",
		}),
	}
}
