// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

/*
Package kodi is the host adapter for a running Kodi instance.

Client speaks Kodi's JSON-RPC 2.0 API over HTTP and answers the monitor's
host queries:

	Player.GetActivePlayers       is a video playing?
	Player.GetProperties          time / totaltime
	Player.GetItem                current item metadata
	VideoLibrary.GetTVShowDetails parent show unique ids
	GUI.ShowNotification          on-screen failure messages

Listener holds a WebSocket to Kodi's notification port (9090 by default) and
turns Player.On* notifications into monitor.PlayerListener callbacks. It
reconnects with a capped exponential delay when Kodi restarts.

Kodi must have "Allow remote control via HTTP" and "Allow remote control from
applications on other systems" enabled for the HTTP and WebSocket endpoints.
*/
package kodi
