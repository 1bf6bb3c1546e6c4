// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

/*
Package config loads the scrobbler settings once at startup.

Settings are immutable after Load returns. The monitor reads the event and
media-type flags on every dispatch, and the remaining sections configure the
Kodi connection, the MDBList client and the supporting services.

# Configuration Sources

Sources are layered with koanf, later layers winning:

 1. Struct defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/mdblist-scrobbler/config.yaml
 3. Environment variables listed in envTransformFunc

Unmapped environment variables are ignored.

# Example File

	kodi:
	  url: http://127.0.0.1:8080/jsonrpc
	  ws_url: ws://127.0.0.1:9090/jsonrpc
	mdblist:
	  url: https://api.mdblist.com
	  api_key: your-key
	mediatype:
	  episode: false
	event:
	  seek: false
	interval: 120

# Environment Variables

Kodi:
  - KODI_URL, KODI_WS_URL, KODI_USERNAME, KODI_PASSWORD
  - KODI_TIMEOUT, KODI_PLAYER_ID
  - KODI_RECONNECT_MIN, KODI_RECONNECT_MAX

MDBList:
  - MDBLIST_URL, MDBLIST_API_KEY, MDBLIST_TIMEOUT

Gates:
  - MEDIATYPE_MOVIE, MEDIATYPE_EPISODE
  - EVENT_START, EVENT_PAUSE, EVENT_RESUME, EVENT_STOP, EVENT_END,
    EVENT_SEEK, EVENT_INTERVAL
  - SCROBBLE_INTERVAL (seconds)

Supporting services:
  - NOTIFY_ENABLED, NOTIFY_RATE, NOTIFY_BURST
  - BREAKER_ENABLED, BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO,
    BREAKER_TIMEOUT, BREAKER_WINDOW, BREAKER_MAX_HALF_OPEN
  - METRICS_ENABLED, METRICS_ADDR
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

The MDBList URL and API key may be empty at load time. A missing value is
reported by the monitor whenever it tries to send, matching the addon
behavior of surfacing the problem in Kodi rather than refusing to start.
*/
package config
