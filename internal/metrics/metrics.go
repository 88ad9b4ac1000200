// UAV Review - Geospatial Detection Review Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/uavreview

// Package metrics defines the Prometheus collectors exported at /metrics.
//
// Collectors are registered on the default registry through promauto, so
// importing the package is enough to expose them.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uavreview_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uavreview_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uavreview_api_active_requests",
			Help: "Number of in-flight API requests",
		},
	)

	// Upstream (Tator) Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uavreview_upstream_requests_total",
			Help: "Total number of upstream requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, error, retry
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "uavreview_upstream_request_duration_seconds",
			Help:    "Duration of upstream requests including retries",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 3, 5, 10},
		},
		[]string{"endpoint"},
	)

	UpstreamFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uavreview_upstream_fallbacks_total",
			Help: "Number of times a failed fetch was replaced by fallback data",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uavreview_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uavreview_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Store Metrics
	StoreEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "uavreview_store_entities",
			Help: "Number of records held by the state store",
		},
		[]string{"entity"}, // detections, media, missions
	)

	StoreFilteredDetections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uavreview_store_filtered_detections",
			Help: "Detections passing the current filter at the last filter change",
		},
	)

	StoreSupersededTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uavreview_store_superseded_total",
			Help: "Fetch results discarded because a newer request started",
		},
		[]string{"entity"},
	)

	// Timeline Metrics
	PlaybackPlaying = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uavreview_playback_playing",
			Help: "1 while timeline playback is running",
		},
	)

	PlaybackTicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uavreview_playback_ticks_total",
			Help: "Timeline ticks processed",
		},
	)

	// Graphic Cache Metrics
	GraphicCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uavreview_graphic_cache_hits_total",
			Help: "Graphic cache hits",
		},
	)

	GraphicCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uavreview_graphic_cache_misses_total",
			Help: "Graphic cache misses",
		},
	)

	GraphicCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uavreview_graphic_cache_entries",
			Help: "Current number of cached graphics",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "uavreview_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)

	WSMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uavreview_websocket_messages_total",
			Help: "WebSocket messages broadcast by type",
		},
		[]string{"type"},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstream records one upstream call including retries.
func RecordUpstream(endpoint string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordUpstreamRetry counts a retried attempt.
func RecordUpstreamRetry(endpoint string) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, "retry").Inc()
}

// RecordFallback counts a fallback substitution.
func RecordFallback(endpoint string) {
	UpstreamFallbacksTotal.WithLabelValues(endpoint).Inc()
}

// RecordBreakerTransition records a breaker state change. States are the
// gobreaker names: closed, half-open, open.
func RecordBreakerTransition(name, from, to string) {
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
	CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
}

func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// SetStoreEntities sets the record count gauge for entity.
func SetStoreEntities(entity string, n int) {
	StoreEntities.WithLabelValues(entity).Set(float64(n))
}

// RecordSuperseded counts a discarded stale fetch.
func RecordSuperseded(entity string) {
	StoreSupersededTotal.WithLabelValues(entity).Inc()
}

// SetPlaying sets the playback gauge.
func SetPlaying(playing bool) {
	if playing {
		PlaybackPlaying.Set(1)
	} else {
		PlaybackPlaying.Set(0)
	}
}
