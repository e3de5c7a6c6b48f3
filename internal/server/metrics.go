// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeMatched   = "matched"
	outcomeNoResults = "no_results"
	outcomeInvalid   = "invalid"
	outcomeFailed    = "failed"
)

type metrics struct {
	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "kanoon_match_lookups_total",
			Help: "Title lookups handled, by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "kanoon_match_lookup_duration_seconds",
			Help:    "Duration of title lookups including the upstream search",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.lookups, m.duration)
	return m
}
