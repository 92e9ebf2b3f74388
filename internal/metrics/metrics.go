// Gw2api - Guild Wars 2 API Client with Request Coalescing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gw2api

// Package metrics provides Prometheus collectors for the client: upstream
// request counts and latency, cache hit/miss/eviction counters per store,
// inflight coalescing joins, and circuit breaker state.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts upstream API requests by endpoint path and
	// response status. Cache hits and coalesced joins never increment it.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gw2_requests_total",
			Help: "Total number of upstream API requests",
		},
		[]string{"endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gw2_request_duration_seconds",
			Help:    "Upstream API request latency",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gw2_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"store"}, // "memory", "badger"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gw2_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"store"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gw2_cache_evictions_total",
			Help: "Total number of cache entries evicted",
		},
		[]string{"store"},
	)

	// InflightJoins counts callers that subscribed to an in-progress
	// request instead of dispatching their own.
	InflightJoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gw2_inflight_joins_total",
			Help: "Total number of requests coalesced onto an in-progress fetch",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gw2_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)
)
