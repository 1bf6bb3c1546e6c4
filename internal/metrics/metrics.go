// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

// Package metrics defines the Prometheus instrumentation for the scrobbler.
//
// All collectors register with the default registry at init and are served
// from /metrics by internal/api. Label values are kept to small fixed sets
// (event names, endpoint paths, result words) so cardinality stays bounded.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result label values shared by the request counters.
const (
	ResultSuccess   = "success"
	ResultHTTPError = "http_error"
	ResultTransport = "transport_error"
	ResultRejected  = "rejected"
)

var (
	// Playback session metrics
	PlayerEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrobbler_player_events_total",
			Help: "Player callbacks and interval ticks handled by the session monitor",
		},
		[]string{"event"}, // start, pause, resume, stop, end, seek, interval
	)

	PlayerEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrobbler_player_events_dropped_total",
			Help: "Player events dropped before handling",
		},
		[]string{"reason"}, // queue_full, stale_tick
	)

	SessionActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrobbler_session_active",
			Help: "1 while item metadata is loaded for the current playback",
		},
	)

	PayloadSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrobbler_payload_skipped_total",
			Help: "Events that produced no scrobble request",
		},
		[]string{"reason"}, // event_disabled, media_type_disabled, no_progress, no_ids, not_configured, ...
	)

	// MDBList API metrics
	ScrobbleRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrobbler_mdblist_requests_total",
			Help: "Scrobble requests sent to MDBList",
		},
		[]string{"endpoint", "result"},
	)

	ScrobbleRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrobbler_mdblist_request_duration_seconds",
			Help:    "Latency of MDBList scrobble requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrobbler_notifications_total",
			Help: "Failure notifications sent to Kodi",
		},
		[]string{"result"}, // shown, throttled, disabled, failed
	)

	// Kodi metrics
	KodiRPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrobbler_kodi_rpc_requests_total",
			Help: "JSON-RPC requests sent to Kodi",
		},
		[]string{"method", "result"},
	)

	KodiRPCDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrobbler_kodi_rpc_duration_seconds",
			Help:    "Latency of Kodi JSON-RPC requests",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method"},
	)

	KodiListenerConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scrobbler_kodi_listener_connected",
			Help: "1 while the Kodi notification socket is connected",
		},
	)

	KodiListenerReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scrobbler_kodi_listener_reconnects_total",
			Help: "Reconnect attempts on the Kodi notification socket",
		},
	)

	KodiNotificationsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrobbler_kodi_notifications_received_total",
			Help: "JSON-RPC notifications received from Kodi",
		},
		[]string{"method"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Health endpoint metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrobbler_http_requests_total",
			Help: "Requests served by the health and metrics endpoint",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scrobbler_http_request_duration_seconds",
			Help:    "Latency of health and metrics requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"route"},
	)

	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "scrobbler_build_info",
			Help: "Always 1; labelled with the running version",
		},
		[]string{"version"},
	)
)

// RecordScrobbleRequest records one MDBList request outcome and its latency.
func RecordScrobbleRequest(endpoint, result string, duration time.Duration) {
	ScrobbleRequestsTotal.WithLabelValues(endpoint, result).Inc()
	ScrobbleRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordHTTPRequest records one request to the health and metrics endpoint.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordKodiRPC records one Kodi JSON-RPC call.
func RecordKodiRPC(method string, duration time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = "error"
	}
	KodiRPCRequestsTotal.WithLabelValues(method, result).Inc()
	KodiRPCDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordPayloadSkipped counts an event that ended without a request.
func RecordPayloadSkipped(reason string) {
	PayloadSkipped.WithLabelValues(reason).Inc()
}

// SetListenerConnected flips the listener connection gauge.
func SetListenerConnected(connected bool) {
	if connected {
		KodiListenerConnected.Set(1)
		return
	}
	KodiListenerConnected.Set(0)
}

// SetSessionActive flips the session gauge.
func SetSessionActive(active bool) {
	if active {
		SessionActive.Set(1)
		return
	}
	SessionActive.Set(0)
}

// SetBuildInfo publishes the running version.
func SetBuildInfo(version string) {
	BuildInfo.WithLabelValues(version).Set(1)
}
