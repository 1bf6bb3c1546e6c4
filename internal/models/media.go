// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package models

import (
	"strings"
)

// MediaType is the Kodi item type of the currently playing item.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeEpisode MediaType = "episode"
	// MediaTypeUnknown is what Kodi reports for files outside the video library.
	MediaTypeUnknown MediaType = "unknown"
)

// ParseMediaType normalizes a Kodi type string. Anything that is not a movie or
// an episode is returned unchanged so callers can log it; it is never allowed
// through the settings gate.
func ParseMediaType(s string) MediaType {
	return MediaType(strings.ToLower(strings.TrimSpace(s)))
}

// Supported reports whether the media type can be scrobbled at all.
func (m MediaType) Supported() bool {
	return m == MediaTypeMovie || m == MediaTypeEpisode
}

// String implements fmt.Stringer.
func (m MediaType) String() string {
	return string(m)
}

// Item is the playback snapshot of the currently loaded item.
//
// Fields mirror the Player.GetItem properties requested by the host adapter.
// Season and Episode are -1 when Kodi does not know them, and TVShowID is -1
// for items that are not part of a library show.
type Item struct {
	ID         int            `json:"id,omitempty"`
	Label      string         `json:"label,omitempty"`
	Type       MediaType      `json:"type"`
	Title      string         `json:"title,omitempty"`
	ShowTitle  string         `json:"showtitle,omitempty"`
	TVShowID   int            `json:"tvshowid,omitempty"`
	Season     int            `json:"season,omitempty"`
	Episode    int            `json:"episode,omitempty"`
	Year       int            `json:"year,omitempty"`
	FirstAired string         `json:"firstaired,omitempty"`
	Premiered  string         `json:"premiered,omitempty"`
	UniqueIDs  map[string]any `json:"uniqueid,omitempty"`

	// Show is attached for episodes after a second library query.
	Show *TVShow `json:"tvshow,omitempty"`
}

// IsEpisode reports whether the item is a TV episode.
func (i *Item) IsEpisode() bool {
	return i != nil && i.Type == MediaTypeEpisode
}

// ShowUniqueIDs returns the parent show's raw ids, or nil if none were fetched.
func (i *Item) ShowUniqueIDs() map[string]any {
	if i == nil || i.Show == nil {
		return nil
	}
	return i.Show.UniqueIDs
}

// TVShow holds the parent show details of an episode.
type TVShow struct {
	TVShowID  int            `json:"tvshowid,omitempty"`
	Label     string         `json:"label,omitempty"`
	UniqueIDs map[string]any `json:"uniqueid,omitempty"`
}

// PlaybackTime is Kodi's Player.GetProperties time representation.
type PlaybackTime struct {
	Hours        int `json:"hours"`
	Minutes      int `json:"minutes"`
	Seconds      int `json:"seconds"`
	Milliseconds int `json:"milliseconds"`
}

// TotalSeconds converts the time object to fractional seconds.
func (t PlaybackTime) TotalSeconds() float64 {
	return float64(t.Hours)*3600 +
		float64(t.Minutes)*60 +
		float64(t.Seconds) +
		float64(t.Milliseconds)/1000
}
