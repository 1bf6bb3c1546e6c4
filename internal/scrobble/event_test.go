// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package scrobble

import "testing"

func TestEventEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event Event
		want  string
		ok    bool
	}{
		{EventStart, EndpointStart, true},
		{EventResume, EndpointStart, true},
		{EventSeek, EndpointStart, true},
		{EventInterval, EndpointStart, true},
		{EventPause, EndpointPause, true},
		{EventStop, EndpointStop, true},
		{EventEnd, EndpointStop, true},
		{Event("rewind"), "", false},
		{Event(""), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			t.Parallel()
			got, ok := tt.event.Endpoint()
			if got != tt.want || ok != tt.ok {
				t.Errorf("Endpoint(%q) = (%q, %v), want (%q, %v)", tt.event, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEventsAllHaveEndpoints(t *testing.T) {
	t.Parallel()

	events := Events()
	if len(events) != 7 {
		t.Fatalf("Events() returned %d events, want 7", len(events))
	}
	for _, e := range events {
		if _, ok := e.Endpoint(); !ok {
			t.Errorf("event %q has no endpoint", e)
		}
	}
}
