// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

/*
Package models defines the data structures shared between the Kodi host
adapter, the session monitor and the scrobble client.

Key Components:

  - MediaType: Kodi item type ("movie", "episode", anything else is unsupported)
  - Item: The currently loaded playback item as reported by Player.GetItem
  - TVShow: Parent show details from VideoLibrary.GetTVShowDetails
  - PlaybackTime: Kodi's hours/minutes/seconds/milliseconds time object

Raw unique ids are kept as map[string]any because Kodi reports them with mixed
value types (strings for most schemes, occasionally numbers). Canonicalization
happens in the ids package.
*/
package models
