// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

/*
Package scrobble talks to the MDBList scrobble API.

It owns the event vocabulary (start, pause, resume, stop, end, seek,
interval), the mapping of events onto the three API endpoints, the JSON
payload shapes and the HTTP client that posts them.

	POST {base}/scrobble/start?apikey={key}   start, resume, seek, interval
	POST {base}/scrobble/pause?apikey={key}   pause
	POST {base}/scrobble/stop?apikey={key}    stop, end

Client performs a single attempt per call; there is no retry or queueing.
BreakerClient wraps a Client with a sony/gobreaker circuit breaker so that a
dead API is not hammered every interval tick.
*/
package scrobble
