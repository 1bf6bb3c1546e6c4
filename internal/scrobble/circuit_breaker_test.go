// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package scrobble

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
)

// stubScrobbler returns err for every call and counts calls.
type stubScrobbler struct {
	err   error
	calls int
}

func (s *stubScrobbler) Scrobble(context.Context, string, *Payload) error {
	s.calls++
	return s.err
}

func testBreakerConfig() *config.BreakerConfig {
	return &config.BreakerConfig{
		Enabled:      true,
		MinRequests:  10,
		FailureRatio: 0.6,
		Window:       time.Minute,
		Timeout:      time.Hour,
		MaxHalfOpen:  1,
	}
}

func TestBreakerClient_OpensAfterFailures(t *testing.T) {
	stub := &stubScrobbler{err: errors.New("connection refused")}
	b := NewBreakerClient(stub, testBreakerConfig())

	if b.State() != "closed" {
		t.Fatalf("initial state = %s, want closed", b.State())
	}

	for i := 0; i < 10; i++ {
		if err := b.Scrobble(context.Background(), EndpointStart, testPayload()); err == nil {
			t.Fatalf("call %d: expected error", i)
		}
	}

	if b.State() != "open" {
		t.Fatalf("state after 10 failures = %s, want open", b.State())
	}

	err := b.Scrobble(context.Background(), EndpointStart, testPayload())
	if !errors.Is(err, ErrRejected) {
		t.Errorf("error while open = %v, want ErrRejected", err)
	}
	if stub.calls != 10 {
		t.Errorf("inner client called %d times, want 10 (rejected calls must not reach it)", stub.calls)
	}
}

func TestBreakerClient_BelowMinimumStaysClosed(t *testing.T) {
	stub := &stubScrobbler{err: errors.New("timeout")}
	b := NewBreakerClient(stub, testBreakerConfig())

	for i := 0; i < 9; i++ {
		_ = b.Scrobble(context.Background(), EndpointStart, testPayload())
	}
	if b.State() != "closed" {
		t.Errorf("state = %s, want closed below the minimum request count", b.State())
	}
}

func TestBreakerClient_ClientErrorsDoNotTrip(t *testing.T) {
	stub := &stubScrobbler{err: &StatusError{Endpoint: EndpointStart, StatusCode: http.StatusNotFound}}
	b := NewBreakerClient(stub, testBreakerConfig())

	for i := 0; i < 20; i++ {
		err := b.Scrobble(context.Background(), EndpointStart, testPayload())
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("call %d: error = %v, want the StatusError passed through", i, err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("state = %s, 4xx responses must not open the circuit", b.State())
	}
}

func TestBreakerClient_ServerErrorsTrip(t *testing.T) {
	stub := &stubScrobbler{err: &StatusError{Endpoint: EndpointStart, StatusCode: http.StatusServiceUnavailable}}
	b := NewBreakerClient(stub, testBreakerConfig())

	for i := 0; i < 10; i++ {
		_ = b.Scrobble(context.Background(), EndpointStart, testPayload())
	}
	if b.State() != "open" {
		t.Errorf("state = %s, want open after repeated 5xx", b.State())
	}
}

func TestBreakerClient_Success(t *testing.T) {
	stub := &stubScrobbler{}
	b := NewBreakerClient(stub, testBreakerConfig())

	if err := b.Scrobble(context.Background(), EndpointStop, testPayload()); err != nil {
		t.Fatalf("Scrobble() error = %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("calls = %d, want 1", stub.calls)
	}
}

func TestIsSuccessful(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"not configured", ErrNotConfigured, true},
		{"bad request", &StatusError{StatusCode: 400}, true},
		{"too many requests", &StatusError{StatusCode: 429}, true},
		{"server error", &StatusError{StatusCode: 500}, false},
		{"transport", errors.New("dial tcp: refused"), false},
	}
	for _, tt := range tests {
		if got := isSuccessful(tt.err); got != tt.want {
			t.Errorf("%s: isSuccessful() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
