// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

/*
Package ids canonicalizes the external identifiers Kodi attaches to library
items into the scheme vocabulary understood by the MDBList scrobble API.

Kodi scrapers are inconsistent about key names: the same IMDb id may appear as
"imdb", "imdbnumber" or "imdb_id", and items scraped by older add-ons often
carry a single id under the key "unknown". Normalize resolves the aliases,
recovers a scheme for "unknown" ids where the value format makes it
unambiguous, and filters the result down to the schemes the API accepts for
the media type.

Supported schemes per media type:

	movie:   imdb, tmdb, trakt, kitsu, mdblist
	episode: imdb, tmdb, trakt, tvdb, mdblist

Example:

	set := ids.Normalize(map[string]any{"imdbnumber": "tt0111161"}, models.MediaTypeMovie)
	// set == ids.Set{"imdb": "tt0111161"}
*/
package ids
