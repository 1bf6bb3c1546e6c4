// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

/*
Package api serves the scrobbler's operational HTTP endpoints.

Routes:

	GET /healthz        overall status: listener, breaker and session state
	GET /healthz/live   liveness probe, always 200 while the process runs
	GET /healthz/ready  readiness probe, 503 while Kodi is unreachable
	GET /metrics        Prometheus exposition

The listener binds to metrics.addr (127.0.0.1:9464 by default) and is run by
the supervisor's api layer.
*/
package api
