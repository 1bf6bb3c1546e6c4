// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package scrobble

// Event names a playback transition. The string value is also the suffix of
// the event.* setting that enables it.
type Event string

const (
	EventStart    Event = "start"
	EventPause    Event = "pause"
	EventResume   Event = "resume"
	EventStop     Event = "stop"
	EventEnd      Event = "end"
	EventSeek     Event = "seek"
	EventInterval Event = "interval"
)

// API endpoints relative to the base URL.
const (
	EndpointStart = "/scrobble/start"
	EndpointPause = "/scrobble/pause"
	EndpointStop  = "/scrobble/stop"
)

// Events lists every known event in a stable order.
func Events() []Event {
	return []Event{EventStart, EventPause, EventResume, EventStop, EventEnd, EventSeek, EventInterval}
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return string(e)
}

// Endpoint returns the API path the event is sent to. The second result is
// false for events without an endpoint.
func (e Event) Endpoint() (string, bool) {
	switch e {
	case EventStart, EventResume, EventSeek, EventInterval:
		return EndpointStart, true
	case EventPause:
		return EndpointPause, true
	case EventStop, EventEnd:
		return EndpointStop, true
	default:
		return "", false
	}
}
