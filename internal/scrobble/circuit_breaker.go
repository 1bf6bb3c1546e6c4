// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package scrobble

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
)

// BreakerName labels the breaker in logs and metrics.
const BreakerName = "mdblist-api"

// ErrRejected wraps requests refused while the circuit is open or half-open
// and saturated. Nothing is queued; the event is simply not delivered.
var ErrRejected = errors.New("mdblist circuit breaker rejected request")

var _ Scrobbler = (*BreakerClient)(nil)

// BreakerClient wraps a Scrobbler with the circuit breaker pattern.
//
// Transport errors and 5xx responses count as failures. 4xx responses mean
// the API is up but refused this payload (unknown ids, bad key), so they do
// not move the breaker.
type BreakerClient struct {
	client Scrobbler
	cb     *gobreaker.CircuitBreaker[struct{}]
	name   string
}

// NewBreakerClient wraps client. With the default settings the circuit opens
// once at least 10 requests in a one minute window failed at a 60% rate, and
// it probes again after two minutes.
func NewBreakerClient(client Scrobbler, cfg *config.BreakerConfig) *BreakerClient {
	name := BreakerName

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	minRequests := cfg.MinRequests
	ratio := cfg.FailureRatio

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxHalfOpen,
		Interval:    cfg.Window,
		Timeout:     cfg.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: isSuccessful,
	})

	return &BreakerClient{client: client, cb: cb, name: name}
}

// Scrobble sends through the breaker. Rejections wrap ErrRejected.
func (b *BreakerClient) Scrobble(ctx context.Context, endpoint string, payload *Payload) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.client.Scrobble(ctx, endpoint, payload)
	})

	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
		return nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		metrics.ScrobbleRequestsTotal.WithLabelValues(endpoint, metrics.ResultRejected).Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("endpoint", endpoint).Msg("[CIRCUIT BREAKER] Request rejected")
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}

	if isSuccessful(err) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	} else {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
	}
	return err
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *BreakerClient) State() string {
	return stateToString(b.cb.State())
}

// isSuccessful reports whether err leaves the breaker counting a success.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode < http.StatusInternalServerError
	}
	return false
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
