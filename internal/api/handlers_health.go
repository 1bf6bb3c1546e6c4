// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package api

import (
	"net/http"
	"time"
)

// ListenerStatus reports the Kodi notification socket state.
type ListenerStatus interface {
	IsConnected() bool
}

// BreakerStatus reports the circuit breaker state ("closed", "half-open", "open").
type BreakerStatus interface {
	State() string
}

// SessionStatus reports whether a playback session is being tracked.
type SessionStatus interface {
	Active() bool
}

// HealthStatus is the body of GET /healthz.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	KodiConnected     bool    `json:"kodi_connected"`
	CircuitBreaker    string  `json:"circuit_breaker"`
	SessionActive     bool    `json:"session_active"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
	MDBListConfigured bool    `json:"mdblist_configured"`
}

// Handler serves the health endpoints. Any status source may be nil.
type Handler struct {
	listener   ListenerStatus
	breaker    BreakerStatus
	session    SessionStatus
	configured bool
	version    string
	startTime  time.Time
}

// HandlerOptions wires the status sources into a Handler.
type HandlerOptions struct {
	Listener ListenerStatus
	Breaker  BreakerStatus
	Session  SessionStatus
	// Configured is true when both the MDBList base URL and API key are set.
	Configured bool
	Version    string
}

// NewHandler creates a health handler.
func NewHandler(opts HandlerOptions) *Handler {
	return &Handler{
		listener:   opts.Listener,
		breaker:    opts.Breaker,
		session:    opts.Session,
		configured: opts.Configured,
		version:    opts.Version,
		startTime:  time.Now(),
	}
}

// Health reports overall status. It always answers 200; status is
// "degraded" while Kodi is unreachable, the breaker is open or MDBList is
// not configured.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	connected := h.listener != nil && h.listener.IsConnected()

	breaker := "disabled"
	if h.breaker != nil {
		breaker = h.breaker.State()
	}

	status := "healthy"
	if !connected || breaker == "open" || !h.configured {
		status = "degraded"
	}

	respondJSON(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data: HealthStatus{
			Status:            status,
			Version:           h.version,
			KodiConnected:     connected,
			CircuitBreaker:    breaker,
			SessionActive:     h.session != nil && h.session.Active(),
			UptimeSeconds:     time.Since(h.startTime).Seconds(),
			MDBListConfigured: h.configured,
		},
	})
}

// HealthLive handles liveness probes.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &APIResponse{
		Status: "success",
		Data: map[string]any{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
	})
}

// HealthReady handles readiness probes: 200 only while the Kodi
// notification socket is connected.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	connected := h.listener != nil && h.listener.IsConnected()
	if !connected {
		respondError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Kodi notification socket not connected")
		return
	}
	respondJSON(w, r, http.StatusOK, &APIResponse{
		Status: "ready",
		Data: map[string]any{
			"kodi_connected": true,
		},
	})
}
